// ABOUTME: CLI commands for viewing and editing the liftlog config file.
// ABOUTME: Writes ~/.config/liftlog/config.json; LIFTLOG_* env vars still override it.
package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/harperreed/liftlog/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "View or change settings",
	Annotations: map[string]string{noStore: "true"},
	Long: `View or change settings in ~/.config/liftlog/config.json.

KEYS:

  backend      badger, sqlite, charm, or memory
  data_dir     data and log directory (default ~/.local/share/liftlog)
  catalog      exercise catalog JSON file (default: built-in)
  log_level    debug, info, warn, or error
  charm_host   Charm server for the charm backend
  auto_sync    sync on open and after every write (true/false)

Every key can also be set with an environment variable such as
LIFTLOG_BACKEND=sqlite.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		printf(cmd, "# %s\n%s\n", config.GetConfigPath(), data)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if err := setConfigValue(c, args[0], args[1]); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := c.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		success(cmd, "Set %s = %s", args[0], args[1])
		return nil
	},
}

func setConfigValue(c *config.Config, key, value string) error {
	switch key {
	case "backend":
		c.Backend = value
	case "data_dir":
		c.DataDir = value
	case "catalog":
		c.Catalog = value
	case "log_level":
		c.LogLevel = value
	case "charm_host":
		c.CharmHost = value
	case "auto_sync":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid auto_sync value: %s", value)
		}
		c.AutoSync = b
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid debug value: %s", value)
		}
		c.Debug = b
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
