package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrUnknownKey is returned when a token names a key id the signer does not hold
var ErrUnknownKey = errors.New("unknown signing key")

// Config holds JWT configuration
type Config struct {
	KeyID      string
	SigningKey string
	// PreviousKeys maps retired key ids to keys that still verify
	PreviousKeys map[string]string
	Expiration   time.Duration
}

// Profile is the public user shape embedded in signup tokens
type Profile struct {
	ID        string     `json:"_id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Mobile    string     `json:"mobile"`
	Created   time.Time  `json:"created"`
	Updated   *time.Time `json:"updated"`
}

// UserClaims represents the JWT claims for user authentication
type UserClaims struct {
	Email string   `json:"email,omitempty"`
	User  *Profile `json:"user,omitempty"`
	jwt.RegisteredClaims
}

// Subject returns the email the token was issued for
func (c *UserClaims) Subject() string {
	if c.Email != "" {
		return c.Email
	}
	if c.User != nil {
		return c.User.Email
	}
	return ""
}

// JWTUtil signs and verifies bearer tokens
type JWTUtil struct {
	keyID      string
	keys       map[string][]byte
	expiration time.Duration
	now        func() time.Time
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(cfg Config) (*JWTUtil, error) {
	if cfg.SigningKey == "" {
		return nil, errors.New("JWT signing key not provided")
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = time.Hour
	}

	keys := map[string][]byte{cfg.KeyID: []byte(cfg.SigningKey)}
	for kid, key := range cfg.PreviousKeys {
		if kid == cfg.KeyID {
			continue
		}
		keys[kid] = []byte(key)
	}

	return &JWTUtil{
		keyID:      cfg.KeyID,
		keys:       keys,
		expiration: cfg.Expiration,
		now:        time.Now,
	}, nil
}

// GenerateSignupToken creates a token carrying the registered user's profile
func (j *JWTUtil) GenerateSignupToken(profile Profile) (string, error) {
	return j.sign(UserClaims{User: &profile})
}

// GenerateToken creates a token carrying only the user's email
func (j *JWTUtil) GenerateToken(email string) (string, error) {
	return j.sign(UserClaims{Email: email})
}

func (j *JWTUtil) sign(claims UserClaims) (string, error) {
	now := j.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = j.keyID
	return token.SignedString(j.keys[j.keyID])
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			kid = j.keyID
		}
		key, ok := j.keys[kid]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKey, kid)
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*UserClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
