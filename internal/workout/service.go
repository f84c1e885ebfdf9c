// ABOUTME: Workout service: CRUD and lifecycle over workouts and workout logs.
// ABOUTME: Stateless apart from the injected storage handle and clock.
package workout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/schema"
	"github.com/harperreed/liftlog/internal/storage"
)

var (
	// ErrWorkoutNotFound is returned by StartWorkout for an unknown workout id.
	ErrWorkoutNotFound = errors.New("Workout not found") //nolint:staticcheck // user-facing message
	// ErrInvalidUpdate is returned when a patch would leave a log half completed.
	ErrInvalidUpdate = errors.New("invalid update")
	// ErrSessionTooLong is returned when completing a log started more than
	// schema.MaxDuration seconds ago. The log is left in progress.
	ErrSessionTooLong = errors.New("workout session exceeds maximum duration")
)

// Service implements the workout operations against a storage.Handle.
type Service struct {
	handle *storage.Handle
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used for createdAt, startedAt, and completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a service backed by handle.
func NewService(handle *storage.Handle, opts ...Option) *Service {
	s := &Service{handle: handle, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handle returns the storage handle the service was built with.
func (s *Service) Handle() *storage.Handle {
	return s.handle
}

func (s *Service) db() (*storage.DB, error) {
	return s.handle.Instance()
}

// CreateWorkout stores a new workout template.
func (s *Service) CreateWorkout(ctx context.Context, name string, exercises []models.WorkoutExercise) (*models.Workout, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	w := models.NewWorkout(name, exercises)
	w.CreatedAt = s.now().UTC()

	if _, err := db.Workouts.Insert(ctx, w); err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}
	return w, nil
}

// GetWorkouts returns every workout ordered by createdAt, oldest first.
func (s *Service) GetWorkouts(ctx context.Context) ([]*models.Workout, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	workouts, err := db.Workouts.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].CreatedAt.Before(workouts[j].CreatedAt)
	})
	return workouts, nil
}

// GetWorkoutByID returns the workout, or nil if it does not exist.
func (s *Service) GetWorkoutByID(ctx context.Context, id string) (*models.Workout, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	w, err := db.Workouts.FindOne(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workout: %w", err)
	}
	return w, nil
}

// UpdateWorkout merges u into the workout. Returns nil if it does not exist.
func (s *Service) UpdateWorkout(ctx context.Context, id string, u models.WorkoutUpdate) (*models.Workout, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	w, err := db.Workouts.Update(ctx, id, func(w *models.Workout) error {
		u.Apply(w)
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}
	return w, nil
}

// DeleteWorkout hard-deletes the workout. Logs started from it are untouched.
// Returns false if it did not exist.
func (s *Service) DeleteWorkout(ctx context.Context, id string) (bool, error) {
	db, err := s.db()
	if err != nil {
		return false, err
	}

	err = db.Workouts.Remove(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete workout: %w", err)
	}
	return true, nil
}

// StartWorkout creates an in-progress log from the workout. Unlike the other
// lookups, a missing workout is an error.
func (s *Service) StartWorkout(ctx context.Context, workoutID string) (*models.WorkoutLog, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	w, err := db.Workouts.FindOne(ctx, workoutID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrWorkoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("start workout: %w", err)
	}

	l := models.NewWorkoutLog(w).WithStartedAt(s.now().UTC())
	if _, err := db.WorkoutLogs.Insert(ctx, l); err != nil {
		return nil, fmt.Errorf("start workout: %w", err)
	}
	return l, nil
}

// CompleteWorkout finishes the log. The first call stamps completedAt and
// duration and stores notes, or "" when notes is nil. Later calls keep the
// original completedAt and duration and only replace notes when given.
// Returns nil if the log does not exist, and ErrSessionTooLong when the
// elapsed time cannot be stored as a duration.
func (s *Service) CompleteWorkout(ctx context.Context, logID string, notes *string) (*models.WorkoutLog, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	now := s.now()
	l, err := db.WorkoutLogs.Update(ctx, logID, func(l *models.WorkoutLog) error {
		if l.IsCompleted() {
			if notes != nil {
				n := *notes
				l.Notes = &n
			}
			return nil
		}
		if elapsed := int(now.UTC().Sub(l.StartedAt) / time.Second); elapsed > schema.MaxDuration {
			return fmt.Errorf("%w: %ds elapsed, limit %ds", ErrSessionTooLong, elapsed, schema.MaxDuration)
		}
		text := ""
		if notes != nil {
			text = *notes
		}
		l.Complete(now, text)
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("complete workout: %w", err)
	}
	return l, nil
}

// UpdateWorkoutLog merges u into the log. Returns nil if it does not exist.
func (s *Service) UpdateWorkoutLog(ctx context.Context, logID string, u models.WorkoutLogUpdate) (*models.WorkoutLog, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	l, err := db.WorkoutLogs.Update(ctx, logID, func(l *models.WorkoutLog) error {
		u.Apply(l)
		if (l.CompletedAt == nil) != (l.Duration == nil) {
			return fmt.Errorf("%w: completedAt and duration must be set together", ErrInvalidUpdate)
		}
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update workout log: %w", err)
	}
	return l, nil
}

// UpdateSet patches one set of an in-progress or completed log. Returns nil if
// the log does not exist.
func (s *Service) UpdateSet(ctx context.Context, logID string, exerciseIdx, setIdx int, u models.SetUpdate) (*models.WorkoutLog, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	l, err := db.WorkoutLogs.Update(ctx, logID, func(l *models.WorkoutLog) error {
		return l.UpdateSet(exerciseIdx, setIdx, u)
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update set: %w", err)
	}
	return l, nil
}

// GetWorkoutLogs returns every log ordered by startedAt, newest first.
func (s *Service) GetWorkoutLogs(ctx context.Context) ([]*models.WorkoutLog, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	logs, err := db.WorkoutLogs.Find(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workout logs: %w", err)
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].StartedAt.After(logs[j].StartedAt)
	})
	return logs, nil
}

// GetWorkoutLogByID returns the log, or nil if it does not exist.
func (s *Service) GetWorkoutLogByID(ctx context.Context, id string) (*models.WorkoutLog, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}

	l, err := db.WorkoutLogs.FindOne(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get workout log: %w", err)
	}
	return l, nil
}

// DeleteWorkoutLog hard-deletes the log. Returns false if it did not exist.
func (s *Service) DeleteWorkoutLog(ctx context.Context, id string) (bool, error) {
	db, err := s.db()
	if err != nil {
		return false, err
	}

	err = db.WorkoutLogs.Remove(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete workout log: %w", err)
	}
	return true, nil
}
