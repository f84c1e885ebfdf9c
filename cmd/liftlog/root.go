// ABOUTME: Root Cobra command for the liftlog CLI.
// ABOUTME: Loads config, logging, and the catalog, and mounts the tracker via PersistentPre/PostRunE.
package main

import (
	"context"
	"fmt"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/config"
	"github.com/harperreed/liftlog/internal/logger"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/harperreed/liftlog/internal/tracker"
	"github.com/harperreed/liftlog/internal/workout"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

// noStore marks commands that never touch the workout database.
const noStore = "no-store"

var (
	cfg       *config.Config
	handle    *storage.Handle
	trk       *tracker.Tracker
	exercises *catalog.Catalog

	backendFlag string
	dataDirFlag string
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "liftlog",
	Short: "Local-first strength training log",
	Long: `Liftlog is a CLI tool for planning and logging strength workouts.

CONCEPTS:

  Workout   A reusable template: ordered exercises with planned sets
  Log       One session of a workout, with each set checked off as you go

QUICK START:

  $ liftlog catalog search squat                              # Find exercise IDs
  $ liftlog workout create "Leg day" -e Barbell_Squat:3x5@100 # Plan a workout
  $ liftlog log start 1a2b                                    # Start a session
  $ liftlog log set 9f8e 1 1 --reps 5                         # Check off a set
  $ liftlog log complete 9f8e --notes "felt strong"           # Finish it
  $ liftlog log list                                          # See your history

IDs can be shortened to any unique prefix.

STORAGE:

  Data lives under ~/.local/share/liftlog. Pick a backend in
  ~/.config/liftlog/config.json or with --backend:

  badger   Embedded key-value store (default)
  sqlite   Single-file SQLite database
  charm    Charm KV, encrypted and synced across devices
  memory   Throwaway in-memory store

MCP INTEGRATION:

  Run 'liftlog mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "liftlog": { "command": "liftlog", "args": ["mcp"] }
    }
  }`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		if err := setup(); err != nil {
			return err
		}
		if skipsStore(cmd) {
			return nil
		}
		return mountTracker(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

// Execute runs the root command. The store is closed even when a command
// fails, since cobra skips PersistentPostRunE on error.
func Execute() error {
	err := rootCmd.Execute()
	return multierr.Append(err, closeStore())
}

// setup loads config, applies flag overrides, and initializes logging and
// the exercise catalog.
func setup() error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backendFlag != "" {
		c.Backend = backendFlag
	}
	if dataDirFlag != "" {
		c.DataDir = dataDirFlag
	}
	if debugFlag {
		c.Debug = true
	}
	if err := c.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.Config{Debug: c.Debug, Level: c.LogLevel, Dir: c.LogDir()}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	cat, err := catalog.Load(c.GetCatalog())
	if err != nil {
		return fmt.Errorf("failed to load exercise catalog: %w", err)
	}

	cfg = c
	exercises = cat
	logger.Debug("config loaded", "backend", c.GetBackend(), "data_dir", c.GetDataDir(), "exercises", cat.Len())
	return nil
}

// mountTracker opens the configured store and loads the tracker mirror.
func mountTracker(ctx context.Context) error {
	open, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	handle = storage.NewHandle(open)
	trk = tracker.New(workout.NewService(handle))
	if err := trk.Mount(ctx); err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.GetBackend(), err)
	}
	return nil
}

func closeStore() error {
	if handle == nil {
		return nil
	}
	err := handle.Close()
	handle = nil
	trk = nil
	return err
}

func skipsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noStore] == "true" {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "storage backend (badger, sqlite, charm, memory)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.local/share/liftlog)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "log debug output to stderr")
}
