package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("MAX_FILE_SIZE", "")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Session.UseRedisSessions())
	assert.False(t, cfg.Media.UseS3())
	assert.Equal(t, int64(104857600), cfg.Media.MaxFileSize)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
}

func TestLoadDefaultSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("SESSION_COOKIE_SECURE", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Session.UsesDefaultSecret())

	t.Setenv("SESSION_COOKIE_SECURE", "true")
	_, err = Load()
	assert.ErrorContains(t, err, "SESSION_SECRET")

	t.Setenv("SESSION_SECRET", "s3cr3t")
	cfg, err = Load()
	require.NoError(t, err)
	assert.False(t, cfg.Session.UsesDefaultSecret())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("MEDIA_BACKEND", "s3")
	t.Setenv("DATABASE_URL", "postgres://db/reel")
	t.Setenv("SESSION_COOKIE_SECURE", "true")
	t.Setenv("SESSION_SECRET", "s3cr3t")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Session.UseRedisSessions())
	assert.True(t, cfg.Session.Secure)
	assert.True(t, cfg.Media.UseS3())
	assert.Equal(t, "postgres://db/reel", cfg.Database.DSN())
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "-1")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSNFromComponents(t *testing.T) {
	c := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "5432", DBName: "reel", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/reel?sslmode=disable", c.DSN())
}
