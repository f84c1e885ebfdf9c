// ABOUTME: Tests for the workout service lifecycle and lookups.
// ABOUTME: Runs against an in-memory badger store with a controllable clock.
package workout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/schema"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
}

func strPtr(s string) *string     { return &s }
func boolPtr(b bool) *bool        { return &b }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func newTestService(t *testing.T, clock *fakeClock) *Service {
	t.Helper()
	h := storage.NewHandle(func(ctx context.Context) (storage.DocStore, error) {
		return storage.OpenBadgerInMemory()
	})
	_, err := h.Initialize(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	if clock == nil {
		return NewService(h)
	}
	return NewService(h, WithClock(clock.Now))
}

func squatExercises() []models.WorkoutExercise {
	return []models.WorkoutExercise{
		{
			ExerciseID:   "Barbell_Squat",
			ExerciseName: "Barbell Squat",
			Sets: []models.WorkoutSet{
				{Reps: intPtr(5), Weight: floatPtr(100), Completed: true},
				{Reps: intPtr(5), Weight: floatPtr(100)},
			},
		},
		{
			ExerciseID:   "Plank",
			ExerciseName: "Plank",
			Sets:         []models.WorkoutSet{{Duration: intPtr(60)}},
		},
	}
}

func TestServiceRequiresInitializedHandle(t *testing.T) {
	h := storage.NewHandle(func(ctx context.Context) (storage.DocStore, error) {
		return storage.OpenBadgerInMemory()
	})
	s := NewService(h)

	_, err := s.CreateWorkout(context.Background(), "Legs", nil)
	assert.ErrorIs(t, err, storage.ErrUninitialized)
	_, err = s.GetWorkoutLogs(context.Background())
	assert.ErrorIs(t, err, storage.ErrUninitialized)
}

func TestCreateWorkout(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	before := time.Now().UTC().Truncate(time.Second)
	w, err := s.CreateWorkout(ctx, "Legs", squatExercises())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, w.ID)
	assert.False(t, w.CreatedAt.Before(before), "createdAt is not before the call")

	got, err := s.GetWorkoutByID(ctx, w.ID.String())
	require.NoError(t, err)
	assert.Equal(t, w, got, "round trip is lossless")

	w2, err := s.CreateWorkout(ctx, "Legs", nil)
	require.NoError(t, err)
	assert.NotEqual(t, w.ID, w2.ID)
}

func TestCreateWorkoutRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	_, err := s.CreateWorkout(ctx, "", nil)
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)

	bad := squatExercises()
	bad[0].Sets[0].Weight = floatPtr(10001)
	_, err = s.CreateWorkout(ctx, "Heavy", bad)
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)
}

func TestGetWorkoutsOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := newTestService(t, clock)

	var ids []uuid.UUID
	for _, name := range []string{"A", "B", "C"} {
		w, err := s.CreateWorkout(ctx, name, nil)
		require.NoError(t, err)
		ids = append(ids, w.ID)
		clock.Advance(time.Minute)
	}

	all, err := s.GetWorkouts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, w := range all {
		assert.Equal(t, ids[i], w.ID)
	}
}

func TestLookupsReturnNilWhenAbsent(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)
	missing := uuid.NewString()

	w, err := s.GetWorkoutByID(ctx, missing)
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = s.UpdateWorkout(ctx, missing, models.WorkoutUpdate{Name: strPtr("x")})
	require.NoError(t, err)
	assert.Nil(t, w)

	ok, err := s.DeleteWorkout(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)

	l, err := s.GetWorkoutLogByID(ctx, missing)
	require.NoError(t, err)
	assert.Nil(t, l)

	l, err = s.CompleteWorkout(ctx, missing, nil)
	require.NoError(t, err)
	assert.Nil(t, l)

	l, err = s.UpdateWorkoutLog(ctx, missing, models.WorkoutLogUpdate{Notes: strPtr("x")})
	require.NoError(t, err)
	assert.Nil(t, l)

	l, err = s.UpdateSet(ctx, missing, 0, 0, models.SetUpdate{})
	require.NoError(t, err)
	assert.Nil(t, l)

	ok, err = s.DeleteWorkoutLog(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateWorkout(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	w, err := s.CreateWorkout(ctx, "Legs", squatExercises())
	require.NoError(t, err)

	updated, err := s.UpdateWorkout(ctx, w.ID.String(), models.WorkoutUpdate{Name: strPtr("Legs v2")})
	require.NoError(t, err)
	assert.Equal(t, "Legs v2", updated.Name)
	assert.Equal(t, w.CreatedAt, updated.CreatedAt)
	assert.Equal(t, w.Exercises, updated.Exercises)

	_, err = s.UpdateWorkout(ctx, w.ID.String(), models.WorkoutUpdate{Name: strPtr("")})
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)
}

func TestStartWorkoutMissing(t *testing.T) {
	s := newTestService(t, nil)

	_, err := s.StartWorkout(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
	assert.EqualError(t, err, "Workout not found")
}

func TestStartWorkoutCopiesExercises(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	w, err := s.CreateWorkout(ctx, "Legs", squatExercises())
	require.NoError(t, err)

	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)
	assert.Equal(t, w.ID, l.WorkoutID)
	assert.Equal(t, "Legs", l.WorkoutName)
	assert.False(t, l.IsCompleted())
	assert.Nil(t, l.Notes)

	require.Len(t, l.Exercises, len(w.Exercises))
	for i, e := range l.Exercises {
		assert.Equal(t, w.Exercises[i].ExerciseID, e.ExerciseID)
		require.Len(t, e.Sets, len(w.Exercises[i].Sets))
		for j, set := range e.Sets {
			assert.False(t, set.Completed)
			assert.Equal(t, w.Exercises[i].Sets[j].Reps, set.Reps)
		}
	}

	*l.Exercises[0].Sets[0].Reps = 42
	stored, err := s.GetWorkoutByID(ctx, w.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 5, *stored.Exercises[0].Sets[0].Reps)
	assert.Equal(t, 5, *w.Exercises[0].Sets[0].Reps)
}

func TestLogIsIndependentOfTemplateEdits(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	w, err := s.CreateWorkout(ctx, "Legs", squatExercises())
	require.NoError(t, err)
	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)

	_, err = s.UpdateWorkout(ctx, w.ID.String(), models.WorkoutUpdate{
		Name:      strPtr("Renamed"),
		Exercises: []models.WorkoutExercise{},
	})
	require.NoError(t, err)

	got, err := s.GetWorkoutLogByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Legs", got.WorkoutName)
	assert.Len(t, got.Exercises, 2)
}

func TestCompleteWorkout(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := newTestService(t, clock)

	w, err := s.CreateWorkout(ctx, "Legs", squatExercises())
	require.NoError(t, err)
	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)

	clock.Advance(3661*time.Second + 500*time.Millisecond)
	done, err := s.CompleteWorkout(ctx, l.ID.String(), nil)
	require.NoError(t, err)
	require.True(t, done.IsCompleted())
	assert.Equal(t, 3661, *done.Duration)
	assert.Equal(t, clock.Now(), *done.CompletedAt)
	require.NotNil(t, done.Notes)
	assert.Equal(t, "", *done.Notes)

	stored, err := s.GetWorkoutLogByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, done, stored)
}

func TestCompleteWorkoutTwiceKeepsTiming(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := newTestService(t, clock)

	w, err := s.CreateWorkout(ctx, "Legs", nil)
	require.NoError(t, err)
	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)

	clock.Advance(10 * time.Minute)
	first, err := s.CompleteWorkout(ctx, l.ID.String(), strPtr("solid"))
	require.NoError(t, err)

	clock.Advance(time.Hour)
	second, err := s.CompleteWorkout(ctx, l.ID.String(), nil)
	require.NoError(t, err)
	require.True(t, second.IsCompleted())
	assert.Equal(t, *first.CompletedAt, *second.CompletedAt)
	assert.Equal(t, 600, *second.Duration)
	assert.Equal(t, "solid", *second.Notes)

	third, err := s.CompleteWorkout(ctx, l.ID.String(), strPtr("edited"))
	require.NoError(t, err)
	assert.Equal(t, 600, *third.Duration)
	assert.Equal(t, "edited", *third.Notes)
}

func TestCompleteWorkoutRejectsOverlongSession(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := newTestService(t, clock)

	w, err := s.CreateWorkout(ctx, "Legs", nil)
	require.NoError(t, err)
	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)

	clock.Advance(25 * time.Hour)
	done, err := s.CompleteWorkout(ctx, l.ID.String(), strPtr("forgot to stop"))
	assert.ErrorIs(t, err, ErrSessionTooLong)
	assert.Nil(t, done)

	stored, err := s.GetWorkoutLogByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.False(t, stored.IsCompleted())
	assert.Nil(t, stored.Notes)

	logs, err := s.GetWorkoutLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, logs, 1, "a refused completion leaves the collection readable")
}

func TestCompleteWorkoutAtMaximumDuration(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := newTestService(t, clock)

	w, err := s.CreateWorkout(ctx, "Legs", nil)
	require.NoError(t, err)
	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)

	clock.Advance(schema.MaxDuration * time.Second)
	done, err := s.CompleteWorkout(ctx, l.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, schema.MaxDuration, *done.Duration)
}

func TestReadsFailOnCorruptDocument(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	_, err := s.CreateWorkout(ctx, "Legs", nil)
	require.NoError(t, err)

	db, err := s.Handle().Instance()
	require.NoError(t, err)
	require.NoError(t, db.Store().Insert(ctx, schema.Workouts, "broken", []byte(`{"id":"broken","name":""}`)))

	workouts, err := s.GetWorkouts(ctx)
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)
	assert.Nil(t, workouts)
}

func TestUpdateWorkoutLog(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	w, err := s.CreateWorkout(ctx, "Legs", squatExercises())
	require.NoError(t, err)
	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)

	updated, err := s.UpdateWorkoutLog(ctx, l.ID.String(), models.WorkoutLogUpdate{Notes: strPtr("knees ok")})
	require.NoError(t, err)
	assert.Equal(t, "knees ok", *updated.Notes)
	assert.Equal(t, l.StartedAt, updated.StartedAt)

	now := time.Now().UTC()
	_, err = s.UpdateWorkoutLog(ctx, l.ID.String(), models.WorkoutLogUpdate{CompletedAt: &now})
	assert.ErrorIs(t, err, ErrInvalidUpdate)

	_, err = s.UpdateWorkoutLog(ctx, l.ID.String(), models.WorkoutLogUpdate{Notes: strPtr(string(make([]byte, schema.MaxNotesLength+1)))})
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)
}

func TestUpdateSetAndProgress(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	w, err := s.CreateWorkout(ctx, "Legs", squatExercises())
	require.NoError(t, err)
	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 0, CalculateWorkoutProgress(l))

	progress := []int{}
	coords := [][2]int{{0, 0}, {0, 1}, {1, 0}}
	for _, c := range coords {
		l, err = s.UpdateSet(ctx, l.ID.String(), c[0], c[1], models.SetUpdate{Completed: boolPtr(true), Reps: intPtr(6)})
		require.NoError(t, err)
		progress = append(progress, CalculateWorkoutProgress(l))
	}
	assert.Equal(t, []int{33, 67, 100}, progress)
	assert.Equal(t, 6, *l.Exercises[1].Sets[0].Reps)

	_, err = s.UpdateSet(ctx, l.ID.String(), 5, 0, models.SetUpdate{})
	assert.Error(t, err)

	_, err = s.UpdateSet(ctx, l.ID.String(), 0, 0, models.SetUpdate{Reps: intPtr(1001)})
	assert.ErrorIs(t, err, schema.ErrInvalidDocument)
}

func TestGetWorkoutLogsNewestFirst(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	s := newTestService(t, clock)

	w, err := s.CreateWorkout(ctx, "Legs", nil)
	require.NoError(t, err)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		l, err := s.StartWorkout(ctx, w.ID.String())
		require.NoError(t, err)
		ids = append(ids, l.ID)
		clock.Advance(time.Hour)
	}

	logs, err := s.GetWorkoutLogs(ctx)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, ids[2], logs[0].ID)
	assert.Equal(t, ids[0], logs[2].ID)
}

func TestDeleteWorkoutKeepsLogs(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, nil)

	w, err := s.CreateWorkout(ctx, "Legs", squatExercises())
	require.NoError(t, err)
	l, err := s.StartWorkout(ctx, w.ID.String())
	require.NoError(t, err)

	ok, err := s.DeleteWorkout(ctx, w.ID.String())
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.GetWorkoutLogByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, l, got)

	_, err = s.StartWorkout(ctx, w.ID.String())
	assert.ErrorIs(t, err, ErrWorkoutNotFound)

	ok, err = s.DeleteWorkoutLog(ctx, l.ID.String())
	require.NoError(t, err)
	assert.True(t, ok)
}
