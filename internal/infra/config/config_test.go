package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, ":8080", cfg.HTTP.Address)
	require.Equal(t, int64(6<<20), cfg.HTTP.MaxBodyBytes)
	require.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	require.Equal(t, "gemini-1.5-flash-8b", cfg.AI.FallbackModel)
	require.Equal(t, 20*time.Second, cfg.AI.Timeout)
	require.True(t, cfg.HTTP.RateLimit.Enabled)
	require.Equal(t, 10, cfg.HTTP.RateLimit.Requests)
	require.Equal(t, 60*time.Second, cfg.HTTP.RateLimit.Window)
	require.Equal(t, 20.59, cfg.Updates.DefaultLat)
	require.Equal(t, 78.96, cfg.Updates.DefaultLon)
	require.False(t, cfg.Production())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("AI_API_KEY", "secret")
	t.Setenv("AI_MODEL", "gemini-2.0-flash")
	t.Setenv("DATABASE_URL", "postgres://localhost/krushi")
	t.Setenv("RATE_LIMIT_REQUESTS", "25")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("PING_MESSAGE", "namaste")
	t.Setenv("AUTH_JWT_SECRET", "jwt-secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "production", cfg.Environment)
	require.True(t, cfg.Production())
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "secret", cfg.AI.APIKey)
	require.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	require.Equal(t, "postgres://localhost/krushi", cfg.Archive.Postgres.DSN)
	require.Equal(t, 25, cfg.HTTP.RateLimit.Requests)
	require.Equal(t, 30*time.Second, cfg.HTTP.RateLimit.Window)
	require.Equal(t, "namaste", cfg.HTTP.PingMessage)
	require.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: staging
http:
  address: ":3000"
  pingMessage: hello
ai:
  model: gemini-custom
updates:
  defaultLat: 9.93
  defaultLon: 76.26
`), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "staging", cfg.Environment)
	require.Equal(t, ":3000", cfg.HTTP.Address)
	require.Equal(t, "hello", cfg.HTTP.PingMessage)
	require.Equal(t, "gemini-custom", cfg.AI.Model)
	require.Equal(t, 9.93, cfg.Updates.DefaultLat)
	// Untouched fields keep their defaults.
	require.Equal(t, "gemini-1.5-flash-8b", cfg.AI.FallbackModel)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  address: \":3000\"\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "4000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":4000", cfg.HTTP.Address)
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.AI.Model = " "
	require.Error(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.HTTP.RateLimit.Valkey.Enabled = true
	require.Error(t, cfg.Validate())
	cfg.HTTP.RateLimit.Valkey.Addr = "localhost:6379"
	require.NoError(t, cfg.Validate())

	cfg = defaultConfig()
	cfg.ImageStore.Enabled = true
	require.Error(t, cfg.Validate())
	cfg.ImageStore.Endpoint = "https://minio.local"
	cfg.ImageStore.Bucket = "photos"
	require.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o600))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
}
