// ABOUTME: Liftlog configuration management with backend selection.
// ABOUTME: Loads JSON settings through viper with LIFTLOG_* env overrides and opens the store.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/viper"
)

// Backends lists the accepted values of Config.Backend.
var Backends = []string{"badger", "sqlite", "charm", "memory"}

// Config stores liftlog configuration.
type Config struct {
	// Backend selects the storage backend: "badger" (default), "sqlite",
	// "charm", or "memory".
	Backend string `json:"backend,omitempty" mapstructure:"backend"`

	// DataDir is the root directory for data and logs. Supports ~ expansion.
	// Defaults to ~/.local/share/liftlog.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// Catalog points at an exercise catalog JSON file. Empty uses the built-in one.
	Catalog string `json:"catalog,omitempty" mapstructure:"catalog"`

	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`
	Debug    bool   `json:"debug,omitempty" mapstructure:"debug"`

	// CharmHost and AutoSync only apply to the charm backend.
	CharmHost string `json:"charm_host,omitempty" mapstructure:"charm_host"`
	AutoSync  bool   `json:"auto_sync" mapstructure:"auto_sync"`
}

// GetBackend returns the configured backend, defaulting to "badger".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "badger"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DefaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetCatalog returns the catalog path with ~ expanded.
func (c *Config) GetCatalog() string {
	return ExpandPath(c.Catalog)
}

// LogDir is where the rotating log file lives.
func (c *Config) LogDir() string {
	return filepath.Join(c.GetDataDir(), "logs")
}

// DefaultDataDir returns the default data directory following XDG spec.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "liftlog")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks the backend name.
func (c *Config) Validate() error {
	backend := c.GetBackend()
	for _, b := range Backends {
		if b == backend {
			return nil
		}
	}
	return fmt.Errorf("unknown backend: %q (use %s)", backend, strings.Join(Backends, ", "))
}

// OpenStore returns the storage opener for the configured backend.
func (c *Config) OpenStore() (storage.Opener, error) {
	return c.OpenBackend(c.GetBackend())
}

// BackendPath returns the on-disk location of a local backend: a directory for
// badger, a file for sqlite, and "" for charm and memory.
func (c *Config) BackendPath(backend string) string {
	switch backend {
	case "badger":
		return filepath.Join(c.GetDataDir(), "badger")
	case "sqlite":
		return filepath.Join(c.GetDataDir(), "liftlog.db")
	}
	return ""
}

// OpenBackend returns an opener for the named backend using this config's
// paths and charm settings.
func (c *Config) OpenBackend(backend string) (storage.Opener, error) {
	switch backend {
	case "badger":
		dir := c.BackendPath(backend)
		return func(context.Context) (storage.DocStore, error) {
			return storage.OpenBadger(dir)
		}, nil
	case "sqlite":
		dbPath := c.BackendPath(backend)
		return func(context.Context) (storage.DocStore, error) {
			return storage.OpenSQLite(dbPath)
		}, nil
	case "charm":
		host, autoSync := c.CharmHost, c.AutoSync
		return func(context.Context) (storage.DocStore, error) {
			return storage.OpenCharm("liftlog", host, autoSync)
		}, nil
	case "memory":
		return func(context.Context) (storage.DocStore, error) {
			return storage.OpenBadgerInMemory()
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "liftlog", "config.json")
}

// Load reads config from disk, then applies LIFTLOG_* environment overrides.
// A missing file yields the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetEnvPrefix("liftlog")
	v.AutomaticEnv()

	// Every key needs a default so env overrides reach Unmarshal.
	v.SetDefault("backend", "badger")
	v.SetDefault("data_dir", "")
	v.SetDefault("catalog", "")
	v.SetDefault("log_level", "")
	v.SetDefault("debug", false)
	v.SetDefault("charm_host", storage.DefaultCharmHost)
	v.SetDefault("auto_sync", true)

	path := GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
