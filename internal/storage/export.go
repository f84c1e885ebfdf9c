// ABOUTME: Dump and restore of every liftlog record.
// ABOUTME: ExportData is the portable snapshot written by backups and read by import.
package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/liftlog/internal/models"
)

// ExportVersion is the snapshot format version.
const ExportVersion = "1.0"

// ExportData represents the full export format for liftlog data.
type ExportData struct {
	Version     string               `json:"version" yaml:"version"`
	ExportedAt  time.Time            `json:"exportedAt" yaml:"exported_at"`
	Tool        string               `json:"tool" yaml:"tool"`
	Workouts    []*models.Workout    `json:"workouts" yaml:"workouts"`
	WorkoutLogs []*models.WorkoutLog `json:"workoutLogs" yaml:"workout_logs"`
}

// Dump reads every record. Workouts are ordered by createdAt, logs newest first.
func (db *DB) Dump(ctx context.Context) (*ExportData, error) {
	workouts, err := db.Workouts.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	logs, err := db.WorkoutLogs.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}

	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].CreatedAt.Before(workouts[j].CreatedAt)
	})
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].StartedAt.After(logs[j].StartedAt)
	})

	return &ExportData{
		Version:     ExportVersion,
		ExportedAt:  time.Now().UTC(),
		Tool:        "liftlog",
		Workouts:    workouts,
		WorkoutLogs: logs,
	}, nil
}

// RestoreSummary holds counts of restored records.
type RestoreSummary struct {
	Workouts    int
	WorkoutLogs int
}

// Restore writes every record in data, replacing records whose id already
// exists. Each record passes schema validation on the way in.
func (db *DB) Restore(ctx context.Context, data *ExportData) (*RestoreSummary, error) {
	summary := &RestoreSummary{}

	for _, w := range data.Workouts {
		if err := db.Workouts.Upsert(ctx, w); err != nil {
			return summary, fmt.Errorf("import workout %s: %w", w.ID, err)
		}
		summary.Workouts++
	}

	for _, l := range data.WorkoutLogs {
		if err := db.WorkoutLogs.Upsert(ctx, l); err != nil {
			return summary, fmt.Errorf("import workout log %s: %w", l.ID, err)
		}
		summary.WorkoutLogs++
	}

	return summary, nil
}
