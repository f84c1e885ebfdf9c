// ABOUTME: Tests for liftlog configuration management.
// ABOUTME: Covers load, save, defaults, env overrides, backend selection, and path expansion.
package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points XDG_CONFIG_HOME at a fresh temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func TestGetBackendDefault(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetBackend(); got != "badger" {
		t.Errorf("GetBackend() = %q, want %q", got, "badger")
	}
}

func TestGetBackendExplicit(t *testing.T) {
	cfg := &Config{Backend: "sqlite"}
	if got := cfg.GetBackend(); got != "sqlite" {
		t.Errorf("GetBackend() = %q, want %q", got, "sqlite")
	}
}

func TestGetDataDirDefault(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	cfg := &Config{}
	assert.Equal(t, "/xdg/data/liftlog", cfg.GetDataDir())
	assert.Equal(t, "/xdg/data/liftlog/logs", cfg.LogDir())
}

func TestGetDataDirExplicit(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/liftlog-test"}
	if got := cfg.GetDataDir(); got != "/tmp/liftlog-test" {
		t.Errorf("GetDataDir() = %q, want %q", got, "/tmp/liftlog-test")
	}
}

func TestGetDataDirExpandsTilde(t *testing.T) {
	home, _ := os.UserHomeDir()

	cfg := &Config{DataDir: "~/lift-data", Catalog: "~/exercises.json"}
	assert.Equal(t, filepath.Join(home, "lift-data"), cfg.GetDataDir())
	assert.Equal(t, filepath.Join(home, "exercises.json"), cfg.GetCatalog())
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/liftlog", filepath.Join(home, "data/liftlog")},
		{"data/liftlog", "data/liftlog"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "badger", cfg.Backend)
	assert.Empty(t, cfg.DataDir)
	assert.True(t, cfg.AutoSync)
	assert.Equal(t, "charm.2389.dev", cfg.CharmHost)
}

func TestSaveAndLoad(t *testing.T) {
	isolate(t)

	cfg := &Config{
		Backend:  "sqlite",
		DataDir:  "/tmp/liftlog-data",
		LogLevel: "info",
		AutoSync: false,
	}
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", loaded.Backend)
	assert.Equal(t, "/tmp/liftlog-data", loaded.DataDir)
	assert.Equal(t, "info", loaded.LogLevel)
	assert.False(t, loaded.AutoSync)
}

func TestEnvOverridesFile(t *testing.T) {
	isolate(t)
	require.NoError(t, (&Config{Backend: "sqlite"}).Save())

	t.Setenv("LIFTLOG_BACKEND", "memory")
	t.Setenv("LIFTLOG_DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Backend)
	assert.True(t, cfg.Debug)
}

func TestSaveCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "nonexistent"))

	require.NoError(t, (&Config{Backend: "sqlite"}).Save())

	_, err := os.Stat(filepath.Join(dir, "nonexistent", "liftlog"))
	assert.NoError(t, err)
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "liftlog"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "liftlog", "config.json"), []byte("invalid json"), 0600))

	_, err := Load()
	assert.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/liftlog/config.json", GetConfigPath())
}

func TestValidate(t *testing.T) {
	for _, b := range Backends {
		assert.NoError(t, (&Config{Backend: b}).Validate())
	}
	assert.NoError(t, (&Config{}).Validate())
	assert.Error(t, (&Config{Backend: "markdown"}).Validate())
}

func TestOpenStoreBackends(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	for _, backend := range []string{"badger", "sqlite", "memory"} {
		t.Run(backend, func(t *testing.T) {
			cfg := &Config{Backend: backend, DataDir: dataDir}
			open, err := cfg.OpenStore()
			require.NoError(t, err)

			s, err := open(ctx)
			require.NoError(t, err)
			require.NoError(t, s.Close())
		})
	}

	_, err := os.Stat(filepath.Join(dataDir, "liftlog.db"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dataDir, "badger"))
	assert.NoError(t, err)
}

func TestOpenStoreUnknownBackend(t *testing.T) {
	_, err := (&Config{Backend: "markdown"}).OpenStore()
	assert.Error(t, err)
}

func TestBackendPath(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "badger"), cfg.BackendPath("badger"))
	assert.Equal(t, filepath.Join("/data", "liftlog.db"), cfg.BackendPath("sqlite"))
	assert.Empty(t, cfg.BackendPath("charm"))
	assert.Empty(t, cfg.BackendPath("memory"))
}
