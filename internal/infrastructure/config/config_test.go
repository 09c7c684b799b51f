package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("AGRISALE_WORKSPACE_OWNER_ID", "1")
	t.Setenv("AGRISALE_WORKSPACE_WORKSPACE_ID", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "agrisale-manager", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, int64(1), cfg.Workspace.OwnerID)
	assert.Equal(t, int64(2), cfg.Workspace.WorkspaceID)
	assert.Equal(t, "local", cfg.Workspace.Storage)
	assert.Equal(t, "owner", cfg.Workspace.OperatorName)
	assert.Equal(t, "agrisale.db", cfg.Storage.Path)
	assert.Equal(t, 15*time.Second, cfg.Remote.Timeout)
	assert.Equal(t, 730, cfg.Audit.RetentionDays)
	assert.Equal(t, 24*time.Hour, cfg.Audit.SweepInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "stdout", cfg.Log.Output)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGRISALE_WORKSPACE_OWNER_ID", "1")
	t.Setenv("AGRISALE_WORKSPACE_WORKSPACE_ID", "2")
	t.Setenv("AGRISALE_APP_ENV", "production")
	t.Setenv("AGRISALE_LOG_LEVEL", "warn")
	t.Setenv("AGRISALE_STORAGE_PATH", "/var/lib/agrisale/ledger.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/var/lib/agrisale/ledger.db", cfg.Storage.Path)
}

func TestLoad_MissingWorkspace(t *testing.T) {
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ServerStorageRequiresRemote(t *testing.T) {
	t.Setenv("AGRISALE_WORKSPACE_OWNER_ID", "1")
	t.Setenv("AGRISALE_WORKSPACE_WORKSPACE_ID", "2")
	t.Setenv("AGRISALE_WORKSPACE_STORAGE", "server")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.base_url")

	t.Setenv("AGRISALE_REMOTE_BASE_URL", "https://sync.example.com")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote.token")

	t.Setenv("AGRISALE_REMOTE_TOKEN", "secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "server", cfg.Workspace.Storage)
}

func TestLoad_InvalidStorageKind(t *testing.T) {
	t.Setenv("AGRISALE_WORKSPACE_OWNER_ID", "1")
	t.Setenv("AGRISALE_WORKSPACE_WORKSPACE_ID", "2")
	t.Setenv("AGRISALE_WORKSPACE_STORAGE", "cloud")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace.storage")
}

func TestRetentionWindow(t *testing.T) {
	cfg := &Config{Audit: AuditConfig{RetentionDays: 2}}
	assert.Equal(t, 48*time.Hour, cfg.RetentionWindow())
}
