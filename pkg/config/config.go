package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DefaultSigningKey is the development signing key. It is refused in production.
const DefaultSigningKey = "secret"

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" envDefault:"3000"`
	Env             string        `env:"APP_ENV" envDefault:"development"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DBConfig holds document store configuration
type DBConfig struct {
	Driver         string        `env:"STORE_DRIVER" envDefault:"mongo"`
	URI            string        `env:"MONGO_URI"`
	Scheme         string        `env:"DB_SCHEME" envDefault:"mongodb"`
	User           string        `env:"DB_USER"`
	Password       string        `env:"DB_PASSWORD"`
	Host           string        `env:"DB_HOST" envDefault:"localhost:27017"`
	Options        string        `env:"DB_OPTIONS"`
	Name           string        `env:"DB_NAME" envDefault:"tif"`
	ConnectTimeout time.Duration `env:"MONGO_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"MONGO_MAX_POOL_SIZE" envDefault:"100"`
}

// GetURI returns the MongoDB connection string. MONGO_URI wins when set,
// otherwise the URI is assembled from the credential parts.
func (c *DBConfig) GetURI() string {
	if c.URI != "" {
		return c.URI
	}

	uri := c.Scheme + "://"
	if c.User != "" {
		uri += c.User
		if c.Password != "" {
			uri += ":" + c.Password
		}
		uri += "@"
	}
	uri += c.Host + "/"
	if c.Options != "" {
		uri += "?" + c.Options
	}
	return uri
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey   string        `env:"JWT_SIGNING_KEY" envDefault:"secret"`
	KeyID        string        `env:"JWT_KEY_ID" envDefault:"v1"`
	PreviousKeys []string      `env:"JWT_PREVIOUS_KEYS" envSeparator:","`
	Expiration   time.Duration `env:"JWT_EXPIRATION" envDefault:"1h"`
}

// VerificationKeys returns every key id that may still verify a token,
// including the current one.
func (c *JWTConfig) VerificationKeys() (map[string]string, error) {
	keys := map[string]string{c.KeyID: c.SigningKey}
	for _, pair := range c.PreviousKeys {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kid, key, ok := strings.Cut(pair, ":")
		if !ok || kid == "" || key == "" {
			return nil, fmt.Errorf("invalid JWT_PREVIOUS_KEYS entry %q, expected kid:key", pair)
		}
		if _, exists := keys[kid]; exists {
			return nil, fmt.Errorf("duplicate JWT key id %q", kid)
		}
		keys[kid] = key
	}
	return keys, nil
}

// AuthConfig holds password hashing configuration
type AuthConfig struct {
	BcryptCost int `env:"BCRYPT_COST" envDefault:"5"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
	File  string `env:"LOG_FILE"`
}

// Config holds all configuration
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"school-service"`
	Server      ServerConfig
	DB          DBConfig
	JWT         JWTConfig
	Auth        AuthConfig
	Log         LogConfig
}

// Load loads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	// .env file is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "mongo", "memory":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.DB.Driver)
	}

	if c.JWT.SigningKey == "" {
		return errors.New("JWT_SIGNING_KEY must not be empty")
	}
	if c.IsProduction() && c.JWT.SigningKey == DefaultSigningKey {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}
	if _, err := c.JWT.VerificationKeys(); err != nil {
		return err
	}

	return nil
}

// IsProduction reports whether the service runs with APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// LogConfig returns the configuration as a zap logger-friendly format
func (c *Config) LogConfig() []zap.Field {
	return []zap.Field{
		zap.String("service", c.ServiceName),
		zap.String("environment", c.Server.Env),
		zap.String("store_driver", c.DB.Driver),
		zap.String("db_host", c.DB.Host),
		zap.String("db_name", c.DB.Name),
		zap.String("jwt_key_id", c.JWT.KeyID),
		zap.String("server_port", c.Server.Port),
	}
}
