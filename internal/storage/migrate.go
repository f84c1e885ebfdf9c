// ABOUTME: Data migration between liftlog storage backends.
// ABOUTME: Copies workouts and workout logs from source to destination.
package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Workouts    int
	WorkoutLogs int
}

// MigrateData copies all data from src to dst. The destination should be
// empty; an id collision fails with ErrDuplicate.
func MigrateData(ctx context.Context, src, dst *DB) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	workouts, err := src.Workouts.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source workouts: %w", err)
	}
	for _, w := range workouts {
		if _, err := dst.Workouts.Insert(ctx, w); err != nil {
			return nil, fmt.Errorf("create workout %s: %w", w.ID, err)
		}
		summary.Workouts++
	}

	logs, err := src.WorkoutLogs.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source workout logs: %w", err)
	}
	for _, l := range logs {
		if _, err := dst.WorkoutLogs.Insert(ctx, l); err != nil {
			return nil, fmt.Errorf("create workout log %s: %w", l.ID, err)
		}
		summary.WorkoutLogs++
	}

	return summary, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any entries.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
