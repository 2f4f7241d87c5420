package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MODLAB_CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, "sqlite", cfg.DB.Driver)
	require.Equal(t, 24*time.Hour, cfg.Auth.SessionTTL)
	require.True(t, cfg.MCP.Enabled)
	require.Equal(t, 3, cfg.Store.MaxRetries)
	require.False(t, cfg.Store.Enabled())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modlab.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  request_timeout: 5s
db:
  driver: postgres
  dsn: postgres://localhost/modlab
limits:
  experiments: "max < 0 || current < max + 2"
store:
  url: http://store.local
  retry_delay: 250ms
`), 0o600))

	t.Setenv("MODLAB_CONFIG_PATH", path)
	t.Setenv("MODLAB_SERVER_PORT", "9191")
	t.Setenv("MODLAB_STORE_TOKEN", "secret")
	t.Setenv("MODLAB_MCP_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9191, cfg.Server.Port)
	require.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	require.Equal(t, "postgres", cfg.DB.Driver)
	require.Equal(t, "max < 0 || current < max + 2", cfg.Limits.Experiments)
	require.Equal(t, 250*time.Millisecond, cfg.Store.RetryDelay)
	require.True(t, cfg.Store.Enabled())
	require.False(t, cfg.MCP.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("MODLAB_CONFIG_PATH", "")

	t.Setenv("MODLAB_SERVER_PORT", "eighty")
	_, err := Load()
	require.ErrorContains(t, err, "MODLAB_SERVER_PORT")

	t.Setenv("MODLAB_SERVER_PORT", "")
	t.Setenv("MODLAB_DB_DRIVER", "mysql")
	_, err = Load()
	require.ErrorContains(t, err, "invalid db driver")

	t.Setenv("MODLAB_DB_DRIVER", "")
	t.Setenv("MODLAB_SESSION_TTL", "forever")
	_, err = Load()
	require.ErrorContains(t, err, "MODLAB_SESSION_TTL")

	t.Setenv("MODLAB_SESSION_TTL", "")
	t.Setenv("MODLAB_MCP_TRANSPORT", "stdio")
	_, err = Load()
	require.ErrorContains(t, err, "requires mcp.tenant")

	t.Setenv("MODLAB_MCP_TENANT", "tenant-1")
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.MCP.Transport)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("MODLAB_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}
