package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
listen: ":9090"
database:
  url: "postgres://localhost/engage"
rabbitmq:
  url: "amqp://localhost/"
auth:
  jwt_secret: "s3cret"
tenancy:
  public_suffix: "staywise.app"
  skip_resolve_prefixes:
    - /healthz
    - /webhooks/
  tenant_optional_prefixes:
    - /auth/login
rate_limit:
  max: 20
  window_seconds: 60
  scope: tenant
  redis_addr: "localhost:6379"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Listen)
	require.Equal(t, "staywise.app", cfg.Tenancy.PublicSuffix)
	require.Equal(t, []string{"/healthz", "/webhooks/"}, cfg.Tenancy.SkipResolvePrefixes)
	require.Equal(t, []string{"/auth/login"}, cfg.Tenancy.TenantOptionalPrefixes)
	require.Equal(t, 20, cfg.RateLimit.Max)
	require.Equal(t, time.Minute, cfg.Window())
	require.Equal(t, "tenant", cfg.RateLimit.Scope)
	require.Equal(t, "localhost:6379", cfg.RateLimit.RedisAddr)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: "postgres://localhost/engage"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Listen)
	require.Equal(t, "X-Tenant-Slug", cfg.Tenancy.OverrideHeader)
	require.Equal(t, 20, cfg.RateLimit.Max)
	require.Equal(t, time.Minute, cfg.Window())
	require.Equal(t, "global", cfg.RateLimit.Scope)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
