package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{Driver: DriverFile, DataDir: "data"},
		JWT:     JWTConfig{Secret: "a-real-secret"},
	}
}

func TestValidateConfig(t *testing.T) {
	t.Run("valid file driver config passes", func(t *testing.T) {
		require.NoError(t, validateConfig(validTestConfig()))
	})

	t.Run("file driver requires a data dir", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Storage.DataDir = ""
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("postgres driver requires host and name", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Storage.Driver = DriverPostgres
		assert.Error(t, validateConfig(cfg))

		cfg.Database.Host = "localhost"
		assert.Error(t, validateConfig(cfg))

		cfg.Database.Name = "goaltracker"
		assert.NoError(t, validateConfig(cfg))
	})

	t.Run("unknown driver is rejected", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Storage.Driver = "redis"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("default jwt secret is rejected", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.JWT.Secret = "your-super-secret-jwt-key"
		assert.Error(t, validateConfig(cfg))
	})

	t.Run("out of range port is rejected", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Server.Port = 70000
		assert.Error(t, validateConfig(cfg))
	})
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "pw",
		Name:     "goaltracker",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=app password=pw dbname=goaltracker sslmode=require",
		cfg.GetDSN())
}
