package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_valid(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "TODO_DB_DSN", cfg.Database.DSNEnv)
	assert.Equal(t, 5*time.Second, cfg.Database.CallTimeout)
	assert.Equal(t, "session", cfg.Auth.CookieName)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Len(t, cfg.Server.CORS.AllowedOrigins, 1)
	assert.Equal(t, "warn", cfg.Observability.LogLevel)
	assert.False(t, cfg.Observability.Metrics.Enabled)
	assert.True(t, cfg.Production())
}

func TestLoad_defaults_fill_gaps(t *testing.T) {
	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "TodoApp", cfg.Auth.TotpIssuer)
	assert.NotEmpty(t, cfg.Server.CORS.AllowedMethods)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoad_missing_file(t *testing.T) {
	_, err := Load("testdata/nonexistent.yaml")
	require.Error(t, err)
}

func TestLoad_invalid_values(t *testing.T) {
	_, err := Load("testdata/invalid.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASKGATE_ENVIRONMENT", "staging")
	t.Setenv("TASKGATE_SERVER_PORT", "8081")
	t.Setenv("TASKGATE_OBSERVABILITY_LOG_LEVEL", "debug")

	cfg, err := Load("testdata/valid.yaml")
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Observability.LogLevel)
}

func TestProduction_case_insensitive(t *testing.T) {
	cfg := Defaults()
	for _, env := range []string{"Production", "PRODUCTION", "production"} {
		cfg.Environment = env
		assert.True(t, cfg.Production(), env)
	}
	cfg.Environment = "development"
	assert.False(t, cfg.Production())
}

func TestDefaults_validate(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}
