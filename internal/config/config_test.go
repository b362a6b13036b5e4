package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_ADDR", "METRICS_ADDR", "DATASET_PATH",
		"REQUEST_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT_SECONDS", "RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST", "DEFAULT_PER_PAGE"} {
		t.Setenv(k, "")
	}

	c := FromEnv()
	assert.Equal(t, "prod", c.AppEnv)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, "", c.MetricsAddr)
	assert.Equal(t, "RU.txt", c.DatasetPath)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, 50, c.RateLimitRPS)
	assert.Equal(t, 100, c.RateLimitBurst)
	assert.Equal(t, 10, c.DefaultPerPage)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DATASET_PATH", "/data/RU.zip")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("DEFAULT_PER_PAGE", "25")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	c := FromEnv()
	assert.Equal(t, "/data/RU.zip", c.DatasetPath)
	assert.Equal(t, 3*time.Second, c.RequestTimeout)
	assert.Equal(t, 25, c.DefaultPerPage)
	assert.Equal(t, 50, c.RateLimitRPS)
}

func TestFromEnvRejectsNonPositivePerPage(t *testing.T) {
	t.Setenv("DEFAULT_PER_PAGE", "-4")
	assert.Equal(t, 10, FromEnv().DefaultPerPage)
}

func TestDotEnvSeedsUnsetKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9999\nAPP_ENV=dev\n"), 0644))

	t.Setenv("HTTP_ADDR", "")
	t.Setenv("APP_ENV", "staging")
	require.NoError(t, os.Unsetenv("HTTP_ADDR"))
	require.NoError(t, godotenv.Load(path))

	c := FromEnv()
	assert.Equal(t, ":9999", c.HTTPAddr)
	assert.Equal(t, "staging", c.AppEnv)
}
