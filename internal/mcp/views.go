// ABOUTME: JSON views of workouts and logs returned by MCP tools and resources.
// ABOUTME: Ids and timestamps are plain strings so inferred output schemas match.
package mcp

import (
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/workout"
)

type setView struct {
	Reps      *int     `json:"reps,omitempty"`
	Weight    *float64 `json:"weight,omitempty"`
	Duration  *int     `json:"duration,omitempty"`
	Completed bool     `json:"completed"`
}

type exerciseView struct {
	ExerciseID   string    `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	Sets         []setView `json:"sets"`
}

type workoutView struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	CreatedAt string         `json:"created_at"`
	Exercises []exerciseView `json:"exercises"`
}

type workoutSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Exercises int    `json:"exercises"`
	Sets      int    `json:"sets"`
	CreatedAt string `json:"created_at"`
}

type logView struct {
	ID              string         `json:"id"`
	WorkoutID       string         `json:"workout_id"`
	WorkoutName     string         `json:"workout_name"`
	StartedAt       string         `json:"started_at"`
	CompletedAt     string         `json:"completed_at,omitempty"`
	DurationSeconds *int           `json:"duration_seconds,omitempty"`
	Duration        string         `json:"duration,omitempty"`
	Notes           string         `json:"notes,omitempty"`
	Progress        int            `json:"progress"`
	Exercises       []exerciseView `json:"exercises"`
}

type logSummary struct {
	ID          string `json:"id"`
	WorkoutName string `json:"workout_name"`
	StartedAt   string `json:"started_at"`
	Status      string `json:"status"`
	Duration    string `json:"duration,omitempty"`
	Progress    int    `json:"progress"`
}

func viewExercises(exercises []models.WorkoutExercise) []exerciseView {
	out := make([]exerciseView, len(exercises))
	for i, e := range exercises {
		sets := make([]setView, len(e.Sets))
		for j, s := range e.Sets {
			sets[j] = setView{Reps: s.Reps, Weight: s.Weight, Duration: s.Duration, Completed: s.Completed}
		}
		out[i] = exerciseView{ExerciseID: e.ExerciseID, ExerciseName: e.ExerciseName, Sets: sets}
	}
	return out
}

func viewWorkout(w *models.Workout) workoutView {
	return workoutView{
		ID:        w.ID.String(),
		Name:      w.Name,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		Exercises: viewExercises(w.Exercises),
	}
}

func summarizeWorkout(w *models.Workout) workoutSummary {
	sets := 0
	for _, e := range w.Exercises {
		sets += len(e.Sets)
	}
	return workoutSummary{
		ID:        w.ID.String(),
		Name:      w.Name,
		Exercises: len(w.Exercises),
		Sets:      sets,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
}

func viewLog(l *models.WorkoutLog) logView {
	v := logView{
		ID:          l.ID.String(),
		WorkoutID:   l.WorkoutID.String(),
		WorkoutName: l.WorkoutName,
		StartedAt:   l.StartedAt.Format(time.RFC3339),
		Progress:    workout.CalculateWorkoutProgress(l),
		Exercises:   viewExercises(l.Exercises),
	}
	if l.CompletedAt != nil {
		v.CompletedAt = l.CompletedAt.Format(time.RFC3339)
	}
	if l.Duration != nil {
		d := *l.Duration
		v.DurationSeconds = &d
		v.Duration = workout.FormatDuration(d)
	}
	if l.Notes != nil {
		v.Notes = *l.Notes
	}
	return v
}

func summarizeLog(l *models.WorkoutLog) logSummary {
	s := logSummary{
		ID:          l.ID.String(),
		WorkoutName: l.WorkoutName,
		StartedAt:   l.StartedAt.Format(time.RFC3339),
		Status:      "in_progress",
		Progress:    workout.CalculateWorkoutProgress(l),
	}
	if l.IsCompleted() {
		s.Status = "completed"
		s.Duration = workout.FormatDuration(*l.Duration)
	}
	return s
}
