package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KAY_AUTH_JWTSECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/kay.db", cfg.Database.Path)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Storage.Bucket)
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("KAY_AUTH_JWTSECRET", "s3cret")
	t.Setenv("KAY_AUTH_TOKENTTL", "90m")
	t.Setenv("KAY_DATABASE_DRIVER", "Postgres")
	t.Setenv("KAY_DATABASE_DSN", "postgres://kay@localhost/kay")
	t.Setenv("KAY_STORAGE_BUCKET", "avatars")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "avatars", cfg.Storage.Bucket)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.Auth.JWTSecret = "x"
		c.Auth.TokenTTL = time.Hour
		c.Database.Driver = DriverSQLite
		c.Database.Path = "data/kay.db"
		return c
	}

	require.NoError(t, base().Validate())

	c := base()
	c.Auth.JWTSecret = " "
	assert.Error(t, c.Validate())

	c = base()
	c.Auth.TokenTTL = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Database.Driver = DriverPostgres
	assert.Error(t, c.Validate())

	c = base()
	c.Database.Driver = "mysql"
	assert.Error(t, c.Validate())
}
