// ABOUTME: DB exposes the typed workouts and workoutlogs collections.
// ABOUTME: Open registers both collections against a DocStore.
package storage

import (
	"context"
	"fmt"

	"github.com/harperreed/liftlog/internal/logger"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/schema"
	"go.uber.org/multierr"
)

// DB is an initialized store with both collections registered.
type DB struct {
	store DocStore

	Workouts    *Collection[models.Workout]
	WorkoutLogs *Collection[models.WorkoutLog]
}

// Open registers the workouts and workoutlogs collections on store. The store
// is closed if registration fails.
func Open(ctx context.Context, store DocStore) (db *DB, err error) {
	defer func() {
		if err != nil {
			err = multierr.Append(err, store.Close())
		}
	}()

	workouts, err := register(ctx, store, schema.Workouts)
	if err != nil {
		return nil, err
	}
	logs, err := register(ctx, store, schema.WorkoutLogs)
	if err != nil {
		return nil, err
	}

	return &DB{
		store:       store,
		Workouts:    NewCollection(store, workouts, func(w *models.Workout) string { return w.ID.String() }),
		WorkoutLogs: NewCollection(store, logs, func(l *models.WorkoutLog) string { return l.ID.String() }),
	}, nil
}

func register(ctx context.Context, store DocStore, collection string) (*schema.Validator, error) {
	v, err := schema.New(collection)
	if err != nil {
		logger.Error("failed to register collection", "collection", collection, "err", err)
		return nil, fmt.Errorf("register %s: %w", collection, err)
	}
	if err := store.Register(ctx, collection); err != nil {
		logger.Error("failed to register collection", "collection", collection, "err", err)
		return nil, fmt.Errorf("register %s: %w", collection, err)
	}
	return v, nil
}

// Store returns the underlying backend.
func (db *DB) Store() DocStore {
	return db.store
}

// Close closes the underlying backend.
func (db *DB) Close() error {
	return db.store.Close()
}
