package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default config file written for the operator to edit")
}

func TestLoadConfigParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\nstorage:\n  dataDirectory: state\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Unset fields keep their defaults
	assert.Equal(t, "0.0.0.0", cfg.Server.BindAddress)
	// Relative paths resolve against the config file location
	assert.Equal(t, filepath.Join(dir, "state"), cfg.Storage.DataDirectory)
}

func TestEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("PORT", "7070")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestSnapshotPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.DataDirectory = "/var/lib/console"
	assert.Equal(t, "/var/lib/console/config-snapshot.json", cfg.SnapshotPath())
}

func TestGetServerAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.BindAddress = "127.0.0.1"
	cfg.Server.Port = 8089
	assert.Equal(t, "127.0.0.1:8089", cfg.GetServerAddr())
}
