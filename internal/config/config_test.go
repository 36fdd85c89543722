package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
  dsn: ":memory:"
jwt:
  secret: short
  expire_hours: 2
`)
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.ConfigFile)
}

func TestLoadConfigReleaseRequiresLongSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
`)
	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfigReleaseRequiresSecretFromEnv(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
  trusted_proxies:
    - 10.0.0.1
jwt:
  secret: ""
`)
	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUZZLE_QUIZ_JWT_SECRET")

	t.Setenv("PUZZLE_QUIZ_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.JWT.Secret)
	assert.Equal(t, []string{"10.0.0.1"}, cfg.Server.TrustedProxies)
}

func TestLoadConfigDebugGeneratesSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
database:
  driver: sqlite
  dsn: ":memory:"
`)
	first, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(first.JWT.Secret), minSecretLen)

	second, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.NotEqual(t, first.JWT.Secret, second.JWT.Secret)
}

func TestShippedConfigNeedsSecretInRelease(t *testing.T) {
	t.Setenv("SERVER_MODE", "release")
	_, err := LoadConfig(filepath.Join("..", "..", "configs", "config.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: sqlite
  dsn: ":memory:"
`)
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
