package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":50051", cfg.GRPCAddress)
	assert.Equal(t, time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, defaultLogLevel, cfg.LogLevel)
	assert.Equal(t, defaultShutdownGracePeriod, cfg.ShutdownGracePeriod)
	assert.Equal(t, defaultAdminAddress, cfg.Admin.Address)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, defaultStoreDSN, cfg.Store.DSN)
}

func TestLoadWithFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
grpc_address: "127.0.0.1:7001"
heartbeat_interval: "250ms"
log_level: "debug"
admin:
  address: ""
store:
  driver: "sqlite"
`), 0o644))

	t.Setenv("CHATROOM_GRPC_ADDRESS", ":6000")
	t.Setenv("CHATROOM_STORE_DSN", "file:test?mode=memory")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":6000", cfg.GRPCAddress, "env overrides file")
	assert.Equal(t, 250*time.Millisecond, cfg.HeartbeatInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Empty(t, cfg.Admin.Address, "empty address disables the admin server")
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "file:test?mode=memory", cfg.Store.DSN)
}

func TestLoadRejectsNonPositiveHeartbeat(t *testing.T) {
	t.Setenv("CHATROOM_HEARTBEAT_INTERVAL", "0s")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
