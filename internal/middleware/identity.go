package middleware

import (
	"strings"

	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ClaimsKey is the echo.Context key holding verified *jwtutil.UserClaims
const ClaimsKey = "claims"

// TokenVerifier is the part of jwtutil.JWTUtil the middleware needs
type TokenVerifier interface {
	ValidateToken(tokenString string) (*jwtutil.UserClaims, error)
}

// IdentifyMiddleware attaches the caller's identity to the request when a
// valid bearer token is presented. It never rejects a request.
func IdentifyMiddleware(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				logger.FromContext(c).Debug("Ignoring malformed Authorization header")
				return next(c)
			}

			claims, err := verifier.ValidateToken(parts[1])
			if err != nil {
				logger.FromContext(c).Debug("Ignoring invalid bearer token", zap.Error(err))
				return next(c)
			}

			c.Set(ClaimsKey, claims)
			logger.WithFields(c, zap.String("email", claims.Subject()))

			return next(c)
		}
	}
}

// ClaimsFromContext returns the verified claims, if any
func ClaimsFromContext(c echo.Context) (*jwtutil.UserClaims, bool) {
	claims, ok := c.Get(ClaimsKey).(*jwtutil.UserClaims)
	return claims, ok
}
