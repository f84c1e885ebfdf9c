// ABOUTME: Workout template and WorkoutLog execution models for strength tracking.
// ABOUTME: Logs carry a value copy of the template's exercises taken at start time.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// WorkoutSet is one unit of work within an exercise.
type WorkoutSet struct {
	Reps      *int     `json:"reps,omitempty" yaml:"reps,omitempty"`
	Weight    *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
	Duration  *int     `json:"duration,omitempty" yaml:"duration,omitempty"` // seconds
	Completed bool     `json:"completed" yaml:"completed"`
}

// WorkoutExercise is an ordered entry in a workout. ExerciseID references the
// catalog but is never validated against it.
type WorkoutExercise struct {
	ExerciseID   string       `json:"exerciseId" yaml:"exercise_id"`
	ExerciseName string       `json:"exerciseName" yaml:"exercise_name"`
	Sets         []WorkoutSet `json:"sets" yaml:"sets"`
}

// Workout is a reusable template of exercises and planned sets.
type Workout struct {
	ID          uuid.UUID         `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Exercises   []WorkoutExercise `json:"exercises" yaml:"exercises"`
	CreatedAt   time.Time         `json:"createdAt" yaml:"created_at"`
	CompletedAt *time.Time        `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
	Duration    *int              `json:"duration,omitempty" yaml:"duration,omitempty"`
	Notes       *string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewWorkout creates a new Workout with generated UUID and current timestamp.
func NewWorkout(name string, exercises []WorkoutExercise) *Workout {
	return &Workout{
		ID:        uuid.New(),
		Name:      name,
		Exercises: CloneExercises(exercises),
		CreatedAt: time.Now().UTC(),
	}
}

// WorkoutLog is one execution of a Workout.
type WorkoutLog struct {
	ID          uuid.UUID         `json:"id" yaml:"id"`
	WorkoutID   uuid.UUID         `json:"workoutId" yaml:"workout_id"`
	WorkoutName string            `json:"workoutName" yaml:"workout_name"`
	Exercises   []WorkoutExercise `json:"exercises" yaml:"exercises"`
	StartedAt   time.Time         `json:"startedAt" yaml:"started_at"`
	CompletedAt *time.Time        `json:"completedAt,omitempty" yaml:"completed_at,omitempty"`
	Duration    *int              `json:"duration,omitempty" yaml:"duration,omitempty"`
	Notes       *string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewWorkoutLog starts a log from a template. Every set is reset to not completed.
func NewWorkoutLog(w *Workout) *WorkoutLog {
	exercises := CloneExercises(w.Exercises)
	for i := range exercises {
		for j := range exercises[i].Sets {
			exercises[i].Sets[j].Completed = false
		}
	}
	return &WorkoutLog{
		ID:          uuid.New(),
		WorkoutID:   w.ID,
		WorkoutName: w.Name,
		Exercises:   exercises,
		StartedAt:   time.Now().UTC(),
	}
}

// WithStartedAt sets a custom start timestamp.
func (l *WorkoutLog) WithStartedAt(t time.Time) *WorkoutLog {
	l.StartedAt = t
	return l
}

// IsCompleted reports whether the log has been finished.
func (l *WorkoutLog) IsCompleted() bool {
	return l.CompletedAt != nil && l.Duration != nil
}

// Complete stamps CompletedAt and Duration together. Duration is the whole
// number of seconds between StartedAt and now.
func (l *WorkoutLog) Complete(now time.Time, notes string) {
	completedAt := now.UTC()
	duration := int(completedAt.Sub(l.StartedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}
	l.CompletedAt = &completedAt
	l.Duration = &duration
	l.Notes = &notes
}

// SetUpdate patches a single set. Nil fields are left unchanged.
type SetUpdate struct {
	Reps      *int
	Weight    *float64
	Duration  *int
	Completed *bool
}

// UpdateSet applies u to the set at the given exercise and set index.
func (l *WorkoutLog) UpdateSet(exerciseIdx, setIdx int, u SetUpdate) error {
	if exerciseIdx < 0 || exerciseIdx >= len(l.Exercises) {
		return fmt.Errorf("exercise index %d out of range (have %d)", exerciseIdx, len(l.Exercises))
	}
	sets := l.Exercises[exerciseIdx].Sets
	if setIdx < 0 || setIdx >= len(sets) {
		return fmt.Errorf("set index %d out of range (have %d)", setIdx, len(sets))
	}

	s := &sets[setIdx]
	if u.Reps != nil {
		s.Reps = intPtr(*u.Reps)
	}
	if u.Weight != nil {
		s.Weight = floatPtr(*u.Weight)
	}
	if u.Duration != nil {
		s.Duration = intPtr(*u.Duration)
	}
	if u.Completed != nil {
		s.Completed = *u.Completed
	}
	return nil
}

// WorkoutUpdate holds the mutable fields of a Workout. Nil fields are left unchanged.
type WorkoutUpdate struct {
	Name        *string
	Exercises   []WorkoutExercise // nil leaves exercises unchanged
	CompletedAt *time.Time
	Duration    *int
	Notes       *string
}

// Apply merges u into w.
func (u WorkoutUpdate) Apply(w *Workout) {
	if u.Name != nil {
		w.Name = *u.Name
	}
	if u.Exercises != nil {
		w.Exercises = CloneExercises(u.Exercises)
	}
	if u.CompletedAt != nil {
		t := *u.CompletedAt
		w.CompletedAt = &t
	}
	if u.Duration != nil {
		w.Duration = intPtr(*u.Duration)
	}
	if u.Notes != nil {
		n := *u.Notes
		w.Notes = &n
	}
}

// WorkoutLogUpdate holds the mutable fields of a WorkoutLog. Nil fields are left unchanged.
type WorkoutLogUpdate struct {
	WorkoutName *string
	Exercises   []WorkoutExercise // nil leaves exercises unchanged
	CompletedAt *time.Time
	Duration    *int
	Notes       *string
}

// Apply merges u into l.
func (u WorkoutLogUpdate) Apply(l *WorkoutLog) {
	if u.WorkoutName != nil {
		l.WorkoutName = *u.WorkoutName
	}
	if u.Exercises != nil {
		l.Exercises = CloneExercises(u.Exercises)
	}
	if u.CompletedAt != nil {
		t := *u.CompletedAt
		l.CompletedAt = &t
	}
	if u.Duration != nil {
		l.Duration = intPtr(*u.Duration)
	}
	if u.Notes != nil {
		n := *u.Notes
		l.Notes = &n
	}
}

// CloneExercises returns a deep copy of exercises. The result is never nil.
func CloneExercises(exercises []WorkoutExercise) []WorkoutExercise {
	out := make([]WorkoutExercise, len(exercises))
	for i, e := range exercises {
		sets := make([]WorkoutSet, len(e.Sets))
		for j, s := range e.Sets {
			sets[j] = s.clone()
		}
		out[i] = WorkoutExercise{
			ExerciseID:   e.ExerciseID,
			ExerciseName: e.ExerciseName,
			Sets:         sets,
		}
	}
	return out
}

// Clone returns a deep copy of w.
func (w *Workout) Clone() *Workout {
	c := *w
	c.Exercises = CloneExercises(w.Exercises)
	if w.CompletedAt != nil {
		t := *w.CompletedAt
		c.CompletedAt = &t
	}
	if w.Duration != nil {
		c.Duration = intPtr(*w.Duration)
	}
	if w.Notes != nil {
		n := *w.Notes
		c.Notes = &n
	}
	return &c
}

// Clone returns a deep copy of l.
func (l *WorkoutLog) Clone() *WorkoutLog {
	c := *l
	c.Exercises = CloneExercises(l.Exercises)
	if l.CompletedAt != nil {
		t := *l.CompletedAt
		c.CompletedAt = &t
	}
	if l.Duration != nil {
		c.Duration = intPtr(*l.Duration)
	}
	if l.Notes != nil {
		n := *l.Notes
		c.Notes = &n
	}
	return &c
}

func (s WorkoutSet) clone() WorkoutSet {
	c := WorkoutSet{Completed: s.Completed}
	if s.Reps != nil {
		c.Reps = intPtr(*s.Reps)
	}
	if s.Weight != nil {
		c.Weight = floatPtr(*s.Weight)
	}
	if s.Duration != nil {
		c.Duration = intPtr(*s.Duration)
	}
	return c
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
