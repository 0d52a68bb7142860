package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "school-service", cfg.ServiceName)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "mongo", cfg.DB.Driver)
	assert.Equal(t, "tif", cfg.DB.Name)
	assert.Equal(t, 10*time.Second, cfg.DB.ConnectTimeout)
	assert.Equal(t, DefaultSigningKey, cfg.JWT.SigningKey)
	assert.Equal(t, "v1", cfg.JWT.KeyID)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5, cfg.Auth.BcryptCost)
	assert.Equal(t, "mongodb://localhost:27017/", cfg.DB.GetURI())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SIGNING_KEY", "k2")
	t.Setenv("JWT_KEY_ID", "v2")
	t.Setenv("JWT_PREVIOUS_KEYS", "v1:k1")
	t.Setenv("JWT_EXPIRATION", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.DB.Driver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)

	keys, err := cfg.JWT.VerificationKeys()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"v2": "k2", "v1": "k1"}, keys)
}

func TestLoad_RejectsDefaultKeyInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_SIGNING_KEY", "a-real-key")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedPreviousKeys(t *testing.T) {
	t.Setenv("JWT_PREVIOUS_KEYS", "nocolon")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetURI(t *testing.T) {
	c := DBConfig{
		Scheme:   "mongodb+srv",
		User:     "school",
		Password: "pw",
		Host:     "cluster0.example.net",
		Options:  "retryWrites=true&w=majority",
	}
	assert.Equal(t, "mongodb+srv://school:pw@cluster0.example.net/?retryWrites=true&w=majority", c.GetURI())

	c.URI = "mongodb://override:27017"
	assert.Equal(t, "mongodb://override:27017", c.GetURI())
}
