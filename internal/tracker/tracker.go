// ABOUTME: Tracker keeps an in-memory mirror of workouts and logs for UI consumers.
// ABOUTME: Wraps the workout service and turns failures into observable error state.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/harperreed/liftlog/internal/logger"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/harperreed/liftlog/internal/workout"
)

var (
	// ErrNoMatch is returned when an id prefix matches nothing in the mirror.
	ErrNoMatch = errors.New("no match")
	// ErrAmbiguous is returned when an id prefix matches more than one record.
	ErrAmbiguous = errors.New("ambiguous prefix")
)

// State is a snapshot of everything the tracker exposes.
type State struct {
	Workouts      []*models.Workout
	WorkoutLogs   []*models.WorkoutLog
	Loading       bool
	Error         string
	IsInitialized bool
}

// Tracker is the single source of truth for UI collaborators.
type Tracker struct {
	svc *workout.Service

	mu          sync.RWMutex
	workouts    []*models.Workout
	workoutLogs []*models.WorkoutLog
	loading     bool
	errMsg      string
	initialized bool

	subMu       sync.Mutex
	subscribers map[int]func(State)
	nextSub     int
}

// New returns a tracker in the loading state. Call Mount before any action.
func New(svc *workout.Service) *Tracker {
	return &Tracker{
		svc:         svc,
		loading:     true,
		subscribers: make(map[int]func(State)),
	}
}

// Service returns the underlying workout service.
func (t *Tracker) Service() *workout.Service {
	return t.svc
}

// Mount initializes storage and loads both collections. Loading is cleared
// whatever the outcome; on failure the error is recorded and mirrors stay empty.
func (t *Tracker) Mount(ctx context.Context) error {
	defer func() {
		t.mu.Lock()
		t.loading = false
		t.mu.Unlock()
		t.notify()
	}()

	if _, err := t.svc.Handle().Initialize(ctx); err != nil {
		return t.fail(fmt.Errorf("initialize database: %w", err))
	}
	t.mu.Lock()
	t.initialized = true
	t.mu.Unlock()

	workouts, err := t.svc.GetWorkouts(ctx)
	if err != nil {
		return t.fail(err)
	}
	logs, err := t.svc.GetWorkoutLogs(ctx)
	if err != nil {
		return t.fail(err)
	}

	t.mu.Lock()
	t.workouts = cloneWorkouts(workouts)
	t.workoutLogs = cloneLogs(logs)
	t.mu.Unlock()

	logger.Debug("tracker mounted", "workouts", len(workouts), "logs", len(logs))
	return nil
}

// LoadWorkouts re-reads every workout into the mirror.
func (t *Tracker) LoadWorkouts(ctx context.Context) error {
	if err := t.guard(); err != nil {
		return t.fail(err)
	}
	workouts, err := t.svc.GetWorkouts(ctx)
	if err != nil {
		return t.fail(err)
	}
	t.mu.Lock()
	t.workouts = cloneWorkouts(workouts)
	t.mu.Unlock()
	t.notify()
	return nil
}

// LoadWorkoutLogs re-reads every workout log into the mirror.
func (t *Tracker) LoadWorkoutLogs(ctx context.Context) error {
	if err := t.guard(); err != nil {
		return t.fail(err)
	}
	logs, err := t.svc.GetWorkoutLogs(ctx)
	if err != nil {
		return t.fail(err)
	}
	t.mu.Lock()
	t.workoutLogs = cloneLogs(logs)
	t.mu.Unlock()
	t.notify()
	return nil
}

// AddWorkout creates a workout and appends it to the mirror.
func (t *Tracker) AddWorkout(ctx context.Context, name string, exercises []models.WorkoutExercise) (*models.Workout, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	w, err := t.svc.CreateWorkout(ctx, name, exercises)
	if err != nil {
		return nil, t.fail(err)
	}
	t.mu.Lock()
	t.workouts = append(t.workouts, w.Clone())
	t.mu.Unlock()
	t.notify()
	return w, nil
}

// EditWorkout patches a workout. It returns nil when the id is unknown.
func (t *Tracker) EditWorkout(ctx context.Context, id string, u models.WorkoutUpdate) (*models.Workout, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	w, err := t.svc.UpdateWorkout(ctx, id, u)
	if err != nil {
		return nil, t.fail(err)
	}
	if w != nil {
		t.mu.Lock()
		for i := range t.workouts {
			if t.workouts[i].ID == w.ID {
				t.workouts[i] = w.Clone()
			}
		}
		t.mu.Unlock()
		t.notify()
	}
	return w, nil
}

// RemoveWorkout deletes a workout. Logs started from it are kept.
func (t *Tracker) RemoveWorkout(ctx context.Context, id string) (bool, error) {
	if err := t.guard(); err != nil {
		return false, err
	}
	ok, err := t.svc.DeleteWorkout(ctx, id)
	if err != nil {
		return false, t.fail(err)
	}
	if ok {
		t.mu.Lock()
		t.workouts = filter(t.workouts, func(w *models.Workout) bool { return w.ID.String() != id })
		t.mu.Unlock()
		t.notify()
	}
	return ok, nil
}

// GetWorkout reads a workout from the store.
func (t *Tracker) GetWorkout(ctx context.Context, id string) (*models.Workout, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	w, err := t.svc.GetWorkoutByID(ctx, id)
	if err != nil {
		return nil, t.fail(err)
	}
	return w, nil
}

// BeginWorkout starts a log from a workout and prepends it to the mirror.
func (t *Tracker) BeginWorkout(ctx context.Context, workoutID string) (*models.WorkoutLog, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	l, err := t.svc.StartWorkout(ctx, workoutID)
	if err != nil {
		return nil, t.fail(err)
	}
	t.mu.Lock()
	t.workoutLogs = append([]*models.WorkoutLog{l.Clone()}, t.workoutLogs...)
	t.mu.Unlock()
	t.notify()
	return l, nil
}

// FinishWorkout completes a log. It returns nil when the id is unknown.
func (t *Tracker) FinishWorkout(ctx context.Context, logID string, notes *string) (*models.WorkoutLog, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	l, err := t.svc.CompleteWorkout(ctx, logID, notes)
	if err != nil {
		return nil, t.fail(err)
	}
	t.replaceLog(l)
	return l, nil
}

// UpdateLog patches a log. It returns nil when the id is unknown.
func (t *Tracker) UpdateLog(ctx context.Context, logID string, u models.WorkoutLogUpdate) (*models.WorkoutLog, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	l, err := t.svc.UpdateWorkoutLog(ctx, logID, u)
	if err != nil {
		return nil, t.fail(err)
	}
	t.replaceLog(l)
	return l, nil
}

// UpdateLogSet patches a single set of a log. It returns nil when the id is unknown.
func (t *Tracker) UpdateLogSet(ctx context.Context, logID string, exerciseIdx, setIdx int, u models.SetUpdate) (*models.WorkoutLog, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	l, err := t.svc.UpdateSet(ctx, logID, exerciseIdx, setIdx, u)
	if err != nil {
		return nil, t.fail(err)
	}
	t.replaceLog(l)
	return l, nil
}

// RemoveWorkoutLog deletes a log.
func (t *Tracker) RemoveWorkoutLog(ctx context.Context, id string) (bool, error) {
	if err := t.guard(); err != nil {
		return false, err
	}
	ok, err := t.svc.DeleteWorkoutLog(ctx, id)
	if err != nil {
		return false, t.fail(err)
	}
	if ok {
		t.mu.Lock()
		t.workoutLogs = filter(t.workoutLogs, func(l *models.WorkoutLog) bool { return l.ID.String() != id })
		t.mu.Unlock()
		t.notify()
	}
	return ok, nil
}

// GetWorkoutLog reads a log from the store.
func (t *Tracker) GetWorkoutLog(ctx context.Context, id string) (*models.WorkoutLog, error) {
	if err := t.guard(); err != nil {
		return nil, err
	}
	l, err := t.svc.GetWorkoutLogByID(ctx, id)
	if err != nil {
		return nil, t.fail(err)
	}
	return l, nil
}

// ClearError resets the error without touching data.
func (t *Tracker) ClearError() {
	t.mu.Lock()
	t.errMsg = ""
	t.mu.Unlock()
	t.notify()
}

// State returns a deep copy of the current state.
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return State{
		Workouts:      cloneWorkouts(t.workouts),
		WorkoutLogs:   cloneLogs(t.workoutLogs),
		Loading:       t.loading,
		Error:         t.errMsg,
		IsInitialized: t.initialized,
	}
}

// Subscribe registers fn to receive a snapshot after every state change.
// The returned func removes the subscription.
func (t *Tracker) Subscribe(fn func(State)) func() {
	t.subMu.Lock()
	defer t.subMu.Unlock()
	id := t.nextSub
	t.nextSub++
	t.subscribers[id] = fn
	return func() {
		t.subMu.Lock()
		defer t.subMu.Unlock()
		delete(t.subscribers, id)
	}
}

// ResolveWorkoutID expands a unique id prefix against the mirrored workouts.
func (t *Tracker) ResolveWorkoutID(prefix string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, len(t.workouts))
	for i, w := range t.workouts {
		ids[i] = w.ID.String()
	}
	return resolve(ids, prefix)
}

// ResolveLogID expands a unique id prefix against the mirrored logs.
func (t *Tracker) ResolveLogID(prefix string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, len(t.workoutLogs))
	for i, l := range t.workoutLogs {
		ids[i] = l.ID.String()
	}
	return resolve(ids, prefix)
}

func resolve(ids []string, prefix string) (string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrNoMatch)
	}
	var match string
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if id == prefix {
			return id, nil
		}
		if match != "" {
			return "", fmt.Errorf("%w: %s", ErrAmbiguous, prefix)
		}
		match = id
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", ErrNoMatch, prefix)
	}
	return match, nil
}

// guard fails fast until Mount has initialized storage.
func (t *Tracker) guard() error {
	t.mu.RLock()
	ok := t.initialized
	t.mu.RUnlock()
	if !ok {
		return storage.ErrUninitialized
	}
	return nil
}

// fail records err as the user-visible error and returns it unchanged.
func (t *Tracker) fail(err error) error {
	logger.Error("tracker action failed", "err", err)
	t.mu.Lock()
	t.errMsg = err.Error()
	t.mu.Unlock()
	t.notify()
	return err
}

func (t *Tracker) replaceLog(l *models.WorkoutLog) {
	if l == nil {
		return
	}
	t.mu.Lock()
	for i := range t.workoutLogs {
		if t.workoutLogs[i].ID == l.ID {
			t.workoutLogs[i] = l.Clone()
		}
	}
	t.mu.Unlock()
	t.notify()
}

func (t *Tracker) notify() {
	t.subMu.Lock()
	subs := make([]func(State), 0, len(t.subscribers))
	for _, fn := range t.subscribers {
		subs = append(subs, fn)
	}
	t.subMu.Unlock()
	if len(subs) == 0 {
		return
	}

	snapshot := t.State()
	for _, fn := range subs {
		fn(snapshot)
	}
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0:0]
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func cloneWorkouts(in []*models.Workout) []*models.Workout {
	out := make([]*models.Workout, len(in))
	for i, w := range in {
		out[i] = w.Clone()
	}
	return out
}

func cloneLogs(in []*models.WorkoutLog) []*models.WorkoutLog {
	out := make([]*models.WorkoutLog, len(in))
	for i, l := range in {
		out[i] = l.Clone()
	}
	return out
}
