// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Opens source and destination stores directly, outside the tracker.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	migrateFrom   string
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Copy data between storage backends",
	Annotations: map[string]string{noStore: "true"},
	Long: `Copy every workout and workout log from one backend to another.

The source is left untouched. The destination should be empty: an existing
record with the same ID stops the migration.

USAGE:

  liftlog migrate --from badger --to sqlite --dry-run   # Preview
  liftlog migrate --from badger --to sqlite             # Copy
  liftlog migrate --from sqlite --to charm              # Start syncing

AFTER MIGRATION:

  Switch backends in ~/.config/liftlog/config.json:
    liftlog config set backend sqlite`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %s", migrateFrom)
		}
		ctx := cmd.Context()

		src, err := openBackend(ctx, migrateFrom)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer func() { err = multierr.Append(err, src.Close()) }()

		if migrateDryRun {
			workouts, err := src.Workouts.Find(ctx)
			if err != nil {
				return err
			}
			logs, err := src.WorkoutLogs.Find(ctx)
			if err != nil {
				return err
			}
			warn(cmd, "Dry run - no changes made")
			printf(cmd, "  Would migrate %d workouts and %d logs from %s to %s\n",
				len(workouts), len(logs), migrateFrom, migrateTo)
			return nil
		}

		if !migrateForce {
			used, err := destinationHasData(migrateTo, cfg.BackendPath(migrateTo))
			if err != nil {
				return err
			}
			if used {
				return fmt.Errorf("%s store at %s already has data (use --force to merge into it)",
					migrateTo, cfg.BackendPath(migrateTo))
			}
		}

		dst, err := openBackend(ctx, migrateTo)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer func() { err = multierr.Append(err, dst.Close()) }()

		summary, err := storage.MigrateData(ctx, src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		success(cmd, "Migrated %d workouts and %d logs from %s to %s",
			summary.Workouts, summary.WorkoutLogs, migrateFrom, migrateTo)
		return nil
	},
}

func openBackend(ctx context.Context, backend string) (*storage.DB, error) {
	open, err := cfg.OpenBackend(backend)
	if err != nil {
		return nil, err
	}
	store, err := open(ctx)
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, store)
}

// destinationHasData reports whether a local backend already exists at path.
func destinationHasData(backend, path string) (bool, error) {
	switch backend {
	case "badger":
		return storage.IsDirNonEmpty(path)
	case "sqlite":
		_, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return err == nil, err
	}
	return false, nil
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "badger", "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "sqlite", "destination backend")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "migrate into a destination that already has data")
	rootCmd.AddCommand(migrateCmd)
}
