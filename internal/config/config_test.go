package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", EnvLocal)
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_USERNAME", "app")
	t.Setenv("POSTGRES_PASSWORD", "app")
	t.Setenv("POSTGRES_DATABASE", "tasks")
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")
}

func TestRead(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Read()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "test-secret", cfg.Auth.TokenSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "8080", cfg.HTTP.Port)
}

func TestRead_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("AUTH_TOKEN_TTL", "24h")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Read()
	require.NoError(t, err)

	assert.Equal(t, 5433, cfg.Postgres.Port)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "9090", cfg.HTTP.Port)
}

func TestRead_MissingTokenSecret(t *testing.T) {
	setRequiredEnv(t)
	// t.Setenv registered the restore; drop the variable for this test only.
	require.NoError(t, os.Unsetenv("AUTH_TOKEN_SECRET"))

	_, err := Read()
	require.Error(t, err)
}
