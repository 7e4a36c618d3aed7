package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeTestConfig(t, `
[development]
port = 9123
log_level = "debug"
distance_enabled = true
steps_per_kilometre = 1300.5
rate_limit_enabled = true
rate_limit_allowed_per_min = 15
allowed_origins = ["http://localhost:8080"]

[production]
host = "0.0.0.0"
port = 80
locale = "en"
`)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, 9123, cfg.Port)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.DistanceEnabled)
	assert.Equal(t, 1300.5, cfg.StepsPerKilometre)
	assert.True(t, cfg.RateLimitEnabled)
	assert.Equal(t, 15, cfg.RateLimitAllowedPerMin)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.AllowedOrigins)
	// defaults
	assert.Equal(t, "nb", cfg.Locale)
	assert.Equal(t, "2112", cfg.PrometheusMetricsPort)
	assert.Equal(t, 10*1024*1024, cfg.ProjectionCacheSize)

	cfg, err = Load("Production", path)
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 80, cfg.Port)
	assert.Equal(t, "en", cfg.Locale)
	assert.False(t, cfg.DistanceEnabled)
	assert.Equal(t, 60, cfg.RateLimitAllowedPerMin)
}

func TestLoad_ProjectionCacheCanBeDisabled(t *testing.T) {
	path := writeTestConfig(t, `
[development]
projection_cache_size = 0

[production]
projection_cache_size = 2048
`)

	cfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.ProjectionCacheSize)

	cfg, err = Load("prod", path)
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.ProjectionCacheSize)
}

func TestToml_GetWithoutFileAppliesDefaults(t *testing.T) {
	cfg, err := (&Toml{Development: &Config{}}).Get("dev")
	require.NoError(t, err)
	assert.Equal(t, 10*1024*1024, cfg.ProjectionCacheSize)
	assert.Equal(t, 9000, cfg.Port)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("dev", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := writeTestConfig(t, "[development\nport = ")
	_, err = Load("dev", path)
	assert.Error(t, err)

	path = writeTestConfig(t, "[development]\nport = 1\n")
	_, err = Load("staging", path)
	assert.EqualError(t, err, "unknown env: staging")

	_, err = Load("prod", path)
	assert.ErrorIs(t, err, ErrEnvNotConfigured)
}

func TestLoad_RepoConfig(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		cfg, err := Load(env, "../../config.toml")
		require.NoError(t, err, env)
		assert.Equal(t, 9000, cfg.Port, env)
		assert.True(t, cfg.DistanceEnabled, env)
		assert.Equal(t, 1250.0, cfg.StepsPerKilometre, env)
		assert.NotEmpty(t, cfg.AllowedOrigins, env)
	}
}
