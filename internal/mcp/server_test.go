// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Calls handlers directly against a tracker over an in-memory store.
package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/harperreed/liftlog/internal/tracker"
	"github.com/harperreed/liftlog/internal/workout"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) *Server {
	t.Helper()

	h := storage.NewHandle(func(ctx context.Context) (storage.DocStore, error) {
		return storage.OpenBadgerInMemory()
	})
	t.Cleanup(func() { _ = h.Close() })

	tr := tracker.New(workout.NewService(h))
	require.NoError(t, tr.Mount(context.Background()))

	c, err := catalog.Builtin()
	require.NoError(t, err)

	s, err := NewServer(tr, c, "test")
	require.NoError(t, err)
	return s
}

func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

func createLegDay(t *testing.T, s *Server) workoutView {
	t.Helper()
	_, out, err := s.handleCreateWorkout(context.Background(), &mcp.CallToolRequest{}, createWorkoutInput{
		Name: "Leg day",
		Exercises: []exerciseInput{
			{ExerciseID: "Barbell_Squat", Sets: []setInput{
				{Reps: intPtr(5), Weight: floatPtr(100)},
				{Reps: intPtr(5), Weight: floatPtr(100)},
			}},
			{ExerciseID: "custom-sled", ExerciseName: "Sled Push", Sets: []setInput{{Duration: intPtr(30)}}},
		},
	})
	require.NoError(t, err)
	return out.Workout
}

func TestNewServer(t *testing.T) {
	s := setupServer(t)
	assert.NotNil(t, s.mcpServer)
	assert.NotNil(t, s.tracker)

	_, err := NewServer(nil, s.catalog, "test")
	assert.Error(t, err)
	_, err = NewServer(s.tracker, nil, "test")
	assert.Error(t, err)
}

func TestHandleCreateWorkout(t *testing.T) {
	s := setupServer(t)
	w := createLegDay(t, s)

	assert.Equal(t, "Leg day", w.Name)
	require.Len(t, w.Exercises, 2)
	assert.Equal(t, "Barbell Squat", w.Exercises[0].ExerciseName, "name filled from catalog")
	assert.Equal(t, "Sled Push", w.Exercises[1].ExerciseName)
	assert.Len(t, s.tracker.State().Workouts, 1)

	tests := []struct {
		name  string
		input createWorkoutInput
	}{
		{"unknown exercise without name", createWorkoutInput{Name: "x", Exercises: []exerciseInput{{ExerciseID: "nope"}}}},
		{"empty name", createWorkoutInput{Name: ""}},
		{"reps out of range", createWorkoutInput{Name: "x", Exercises: []exerciseInput{
			{ExerciseID: "Plank", Sets: []setInput{{Reps: intPtr(5000)}}},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.handleCreateWorkout(context.Background(), &mcp.CallToolRequest{}, tt.input)
			assert.Error(t, err)
		})
	}
}

func TestHandleWorkoutLookups(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)
	w := createLegDay(t, s)

	_, list, err := s.handleListWorkouts(ctx, &mcp.CallToolRequest{}, listWorkoutsInput{})
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 3, list.Workouts[0].Sets)

	_, got, err := s.handleGetWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: w.ID[:8]})
	require.NoError(t, err)
	assert.Equal(t, w.ID, got.Workout.ID)

	_, renamed, err := s.handleRenameWorkout(ctx, &mcp.CallToolRequest{}, renameWorkoutInput{ID: w.ID[:8], Name: "Squat day"})
	require.NoError(t, err)
	assert.Equal(t, "Squat day", renamed.Workout.Name)

	_, _, err = s.handleGetWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: "ffffffff"})
	assert.Error(t, err)

	_, _, err = s.handleDeleteWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: w.ID})
	require.NoError(t, err)
	assert.Empty(t, s.tracker.State().Workouts)
}

func TestHandleWorkoutSession(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)
	w := createLegDay(t, s)

	_, started, err := s.handleStartWorkout(ctx, &mcp.CallToolRequest{}, startWorkoutInput{WorkoutID: w.ID[:8]})
	require.NoError(t, err)
	logID := started.Log.ID
	assert.Equal(t, 0, started.Log.Progress)
	assert.Empty(t, started.Log.CompletedAt)

	_, logged, err := s.handleLogSet(ctx, &mcp.CallToolRequest{}, logSetInput{LogID: logID[:8], ExerciseIndex: 0, SetIndex: 0, Reps: intPtr(6)})
	require.NoError(t, err)
	assert.Equal(t, 33, logged.Log.Progress)
	assert.Equal(t, 6, *logged.Log.Exercises[0].Sets[0].Reps)
	assert.Contains(t, logged.Message, "Barbell Squat")

	_, _, err = s.handleLogSet(ctx, &mcp.CallToolRequest{}, logSetInput{LogID: logID, ExerciseIndex: 4, SetIndex: 0})
	assert.Error(t, err)

	_, active, err := s.handleListWorkoutLogs(ctx, &mcp.CallToolRequest{}, listLogsInput{Status: "in_progress"})
	require.NoError(t, err)
	assert.Equal(t, 1, active.Count)

	_, done, err := s.handleCompleteWorkout(ctx, &mcp.CallToolRequest{}, completeWorkoutInput{LogID: logID, Notes: strPtr("heavy")})
	require.NoError(t, err)
	assert.NotEmpty(t, done.Log.CompletedAt)
	require.NotNil(t, done.Log.DurationSeconds)
	assert.Equal(t, "heavy", done.Log.Notes)

	_, completed, err := s.handleListWorkoutLogs(ctx, &mcp.CallToolRequest{}, listLogsInput{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, 1, completed.Count)

	_, _, err = s.handleListWorkoutLogs(ctx, &mcp.CallToolRequest{}, listLogsInput{Status: "paused"})
	assert.Error(t, err)

	_, got, err := s.handleGetWorkoutLog(ctx, &mcp.CallToolRequest{}, idInput{ID: logID})
	require.NoError(t, err)
	assert.Equal(t, "heavy", got.Log.Notes)

	_, _, err = s.handleDeleteWorkoutLog(ctx, &mcp.CallToolRequest{}, idInput{ID: logID})
	require.NoError(t, err)
	_, _, err = s.handleGetWorkoutLog(ctx, &mcp.CallToolRequest{}, idInput{ID: logID})
	assert.Error(t, err)
}

func TestHandleStartUnknownWorkout(t *testing.T) {
	s := setupServer(t)
	_, _, err := s.handleStartWorkout(context.Background(), &mcp.CallToolRequest{}, startWorkoutInput{WorkoutID: "deadbeef"})
	assert.Error(t, err)
}

func TestResolveSeesExternalWrites(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)

	// Written through the service, so the tracker mirror does not know about it.
	w, err := s.tracker.Service().CreateWorkout(ctx, "Elsewhere", nil)
	require.NoError(t, err)

	_, got, err := s.handleGetWorkout(ctx, &mcp.CallToolRequest{}, idInput{ID: w.ID.String()[:8]})
	require.NoError(t, err)
	assert.Equal(t, "Elsewhere", got.Workout.Name)
}

func TestHandleSearchExercises(t *testing.T) {
	s := setupServer(t)

	_, out, err := s.handleSearchExercises(context.Background(), &mcp.CallToolRequest{}, searchExercisesInput{Query: "bench"})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)

	_, out, err = s.handleSearchExercises(context.Background(), &mcp.CallToolRequest{}, searchExercisesInput{Category: "cardio"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "Jumping_Rope", out.Exercises[0].ID)

	_, out, err = s.handleSearchExercises(context.Background(), &mcp.CallToolRequest{}, searchExercisesInput{Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Count)
}

func readResource(t *testing.T, fn func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) map[string]interface{} {
	t.Helper()
	res, err := fn(context.Background(), &mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &out))
	return out
}

func TestResources(t *testing.T) {
	ctx := context.Background()
	s := setupServer(t)
	w := createLegDay(t, s)

	_, started, err := s.handleStartWorkout(ctx, &mcp.CallToolRequest{}, startWorkoutInput{WorkoutID: w.ID})
	require.NoError(t, err)
	_, second, err := s.handleStartWorkout(ctx, &mcp.CallToolRequest{}, startWorkoutInput{WorkoutID: w.ID})
	require.NoError(t, err)
	_, _, err = s.handleCompleteWorkout(ctx, &mcp.CallToolRequest{}, completeWorkoutInput{LogID: started.Log.ID})
	require.NoError(t, err)

	workouts := readResource(t, s.handleWorkoutsResource)
	assert.Equal(t, float64(1), workouts["count"])

	recent := readResource(t, s.handleRecentLogsResource)
	assert.Equal(t, float64(2), recent["count"])

	active := readResource(t, s.handleActiveLogsResource)
	require.Equal(t, float64(1), active["count"])
	first := active["active"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, second.Log.ID, first["id"])
}
