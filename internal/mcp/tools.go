// ABOUTME: MCP tool implementations for workouts, logs, and the exercise catalog.
// ABOUTME: Every write goes through the Tracker so its mirror stays current.
package mcp

import (
	"context"
	"fmt"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "create_workout",
		Description: "Create a workout template from catalog exercises and planned sets",
	}, s.handleCreateWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workouts",
		Description: "List workout templates, oldest first",
	}, s.handleListWorkouts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout",
		Description: "Get a workout template with its exercises and sets",
	}, s.handleGetWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "rename_workout",
		Description: "Rename a workout template",
	}, s.handleRenameWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout",
		Description: "Delete a workout template. Logs started from it are kept",
	}, s.handleDeleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "start_workout",
		Description: "Start a session from a workout template, returning the new log",
	}, s.handleStartWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_set",
		Description: "Record reps, weight, or duration for one set of a log and mark it completed",
	}, s.handleLogSet)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "complete_workout",
		Description: "Finish a workout log, stamping its duration",
	}, s.handleCompleteWorkout)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_workout_logs",
		Description: "List workout logs, newest first",
	}, s.handleListWorkoutLogs)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_workout_log",
		Description: "Get a workout log with every set and its progress",
	}, s.handleGetWorkoutLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_workout_log",
		Description: "Delete a workout log",
	}, s.handleDeleteWorkoutLog)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "search_exercises",
		Description: "Search the exercise catalog by name, muscle, equipment, or category",
	}, s.handleSearchExercises)
}

// Tool input/output types

type setInput struct {
	Reps     *int     `json:"reps,omitempty" jsonschema:"Planned reps (0-1000)"`
	Weight   *float64 `json:"weight,omitempty" jsonschema:"Planned weight (0-10000)"`
	Duration *int     `json:"duration,omitempty" jsonschema:"Planned duration in seconds (0-86400)"`
}

type exerciseInput struct {
	ExerciseID   string     `json:"exercise_id" jsonschema:"Catalog exercise ID, e.g. Barbell_Squat"`
	ExerciseName string     `json:"exercise_name,omitempty" jsonschema:"Display name, defaults to the catalog name"`
	Sets         []setInput `json:"sets,omitempty" jsonschema:"Planned sets in order"`
}

type createWorkoutInput struct {
	Name      string          `json:"name" jsonschema:"Workout name"`
	Exercises []exerciseInput `json:"exercises,omitempty" jsonschema:"Exercises in execution order"`
}

type workoutOutput struct {
	Workout workoutView `json:"workout"`
	Message string      `json:"message"`
}

type listWorkoutsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type listWorkoutsOutput struct {
	Workouts []workoutSummary `json:"workouts"`
	Count    int              `json:"count"`
}

type idInput struct {
	ID string `json:"id" jsonschema:"ID or unique ID prefix"`
}

type renameWorkoutInput struct {
	ID   string `json:"id" jsonschema:"Workout ID or unique prefix"`
	Name string `json:"name" jsonschema:"New name"`
}

type startWorkoutInput struct {
	WorkoutID string `json:"workout_id" jsonschema:"Workout ID or unique prefix"`
}

type logOutput struct {
	Log     logView `json:"log"`
	Message string  `json:"message"`
}

type logSetInput struct {
	LogID         string   `json:"log_id" jsonschema:"Workout log ID or unique prefix"`
	ExerciseIndex int      `json:"exercise_index" jsonschema:"Zero-based exercise position"`
	SetIndex      int      `json:"set_index" jsonschema:"Zero-based set position within the exercise"`
	Reps          *int     `json:"reps,omitempty" jsonschema:"Reps performed"`
	Weight        *float64 `json:"weight,omitempty" jsonschema:"Weight used"`
	Duration      *int     `json:"duration,omitempty" jsonschema:"Seconds performed"`
	Completed     *bool    `json:"completed,omitempty" jsonschema:"Completion flag (default true)"`
}

type completeWorkoutInput struct {
	LogID string  `json:"log_id" jsonschema:"Workout log ID or unique prefix"`
	Notes *string `json:"notes,omitempty" jsonschema:"Session notes"`
}

type listLogsInput struct {
	Limit  int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
	Status string `json:"status,omitempty" jsonschema:"Filter: in_progress or completed"`
}

type listLogsOutput struct {
	Logs  []logSummary `json:"logs"`
	Count int          `json:"count"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type searchExercisesInput struct {
	Query    string `json:"query,omitempty" jsonschema:"Search term"`
	Category string `json:"category,omitempty" jsonschema:"Restrict to a catalog category"`
	Limit    int    `json:"limit,omitempty" jsonschema:"Max results (default 20)"`
}

type exerciseSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Level          string   `json:"level"`
	PrimaryMuscles []string `json:"primary_muscles"`
}

type searchExercisesOutput struct {
	Exercises []exerciseSummary `json:"exercises"`
	Count     int               `json:"count"`
}

// Tool handlers

func (s *Server) handleCreateWorkout(ctx context.Context, req *mcp.CallToolRequest, input createWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	exercises := make([]models.WorkoutExercise, 0, len(input.Exercises))
	for _, in := range input.Exercises {
		name := in.ExerciseName
		if name == "" {
			e, ok := s.catalog.ByID(in.ExerciseID)
			if !ok {
				return nil, workoutOutput{}, fmt.Errorf("unknown exercise %q: give exercise_name or use a catalog id", in.ExerciseID)
			}
			name = e.Name
		}
		sets := make([]models.WorkoutSet, len(in.Sets))
		for i, set := range in.Sets {
			sets[i] = models.WorkoutSet{Reps: set.Reps, Weight: set.Weight, Duration: set.Duration}
		}
		exercises = append(exercises, models.WorkoutExercise{
			ExerciseID:   in.ExerciseID,
			ExerciseName: name,
			Sets:         sets,
		})
	}

	w, err := s.tracker.AddWorkout(ctx, input.Name, exercises)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}

	return nil, workoutOutput{
		Workout: viewWorkout(w),
		Message: fmt.Sprintf("Created workout %s (ID: %s)", w.Name, w.ID.String()[:8]),
	}, nil
}

func (s *Server) handleListWorkouts(ctx context.Context, req *mcp.CallToolRequest, input listWorkoutsInput) (*mcp.CallToolResult, listWorkoutsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	if err := s.tracker.LoadWorkouts(ctx); err != nil {
		return nil, listWorkoutsOutput{}, fmt.Errorf("failed to list workouts: %w", err)
	}

	workouts := s.tracker.State().Workouts
	out := listWorkoutsOutput{Workouts: []workoutSummary{}}
	for i, w := range workouts {
		if i >= input.Limit {
			break
		}
		out.Workouts = append(out.Workouts, summarizeWorkout(w))
	}
	out.Count = len(out.Workouts)
	return nil, out, nil
}

func (s *Server) handleGetWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, workoutOutput, error) {
	id, err := s.resolveWorkout(ctx, input.ID)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("workout not found: %w", err)
	}
	w, err := s.tracker.GetWorkout(ctx, id)
	if err != nil {
		return nil, workoutOutput{}, err
	}
	if w == nil {
		return nil, workoutOutput{}, fmt.Errorf("workout not found: %s", input.ID)
	}
	return nil, workoutOutput{Workout: viewWorkout(w), Message: w.Name}, nil
}

func (s *Server) handleRenameWorkout(ctx context.Context, req *mcp.CallToolRequest, input renameWorkoutInput) (*mcp.CallToolResult, workoutOutput, error) {
	id, err := s.resolveWorkout(ctx, input.ID)
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("workout not found: %w", err)
	}
	w, err := s.tracker.EditWorkout(ctx, id, models.WorkoutUpdate{Name: &input.Name})
	if err != nil {
		return nil, workoutOutput{}, fmt.Errorf("failed to rename workout: %w", err)
	}
	if w == nil {
		return nil, workoutOutput{}, fmt.Errorf("workout not found: %s", input.ID)
	}
	return nil, workoutOutput{
		Workout: viewWorkout(w),
		Message: fmt.Sprintf("Renamed workout to %s", w.Name),
	}, nil
}

func (s *Server) handleDeleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.resolveWorkout(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("workout not found: %w", err)
	}
	ok, err := s.tracker.RemoveWorkout(ctx, id)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout: %w", err)
	}
	if !ok {
		return nil, simpleOutput{}, fmt.Errorf("workout not found: %s", input.ID)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout: %s", id[:8])}, nil
}

func (s *Server) handleStartWorkout(ctx context.Context, req *mcp.CallToolRequest, input startWorkoutInput) (*mcp.CallToolResult, logOutput, error) {
	id, err := s.resolveWorkout(ctx, input.WorkoutID)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("workout not found: %w", err)
	}
	l, err := s.tracker.BeginWorkout(ctx, id)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to start workout: %w", err)
	}
	return nil, logOutput{
		Log:     viewLog(l),
		Message: fmt.Sprintf("Started %s (log ID: %s)", l.WorkoutName, l.ID.String()[:8]),
	}, nil
}

func (s *Server) handleLogSet(ctx context.Context, req *mcp.CallToolRequest, input logSetInput) (*mcp.CallToolResult, logOutput, error) {
	id, err := s.resolveLog(ctx, input.LogID)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("workout log not found: %w", err)
	}

	completed := true
	if input.Completed != nil {
		completed = *input.Completed
	}
	l, err := s.tracker.UpdateLogSet(ctx, id, input.ExerciseIndex, input.SetIndex, models.SetUpdate{
		Reps:      input.Reps,
		Weight:    input.Weight,
		Duration:  input.Duration,
		Completed: &completed,
	})
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to log set: %w", err)
	}
	if l == nil {
		return nil, logOutput{}, fmt.Errorf("workout log not found: %s", input.LogID)
	}

	v := viewLog(l)
	return nil, logOutput{
		Log:     v,
		Message: fmt.Sprintf("Logged set %d of %s (%d%% complete)", input.SetIndex+1, l.Exercises[input.ExerciseIndex].ExerciseName, v.Progress),
	}, nil
}

func (s *Server) handleCompleteWorkout(ctx context.Context, req *mcp.CallToolRequest, input completeWorkoutInput) (*mcp.CallToolResult, logOutput, error) {
	id, err := s.resolveLog(ctx, input.LogID)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("workout log not found: %w", err)
	}
	l, err := s.tracker.FinishWorkout(ctx, id, input.Notes)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("failed to complete workout: %w", err)
	}
	if l == nil {
		return nil, logOutput{}, fmt.Errorf("workout log not found: %s", input.LogID)
	}
	v := viewLog(l)
	return nil, logOutput{
		Log:     v,
		Message: fmt.Sprintf("Completed %s in %s", l.WorkoutName, v.Duration),
	}, nil
}

func (s *Server) handleListWorkoutLogs(ctx context.Context, req *mcp.CallToolRequest, input listLogsInput) (*mcp.CallToolResult, listLogsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	switch input.Status {
	case "", "in_progress", "completed":
	default:
		return nil, listLogsOutput{}, fmt.Errorf("unknown status %q (use in_progress or completed)", input.Status)
	}
	if err := s.tracker.LoadWorkoutLogs(ctx); err != nil {
		return nil, listLogsOutput{}, fmt.Errorf("failed to list workout logs: %w", err)
	}

	out := listLogsOutput{Logs: []logSummary{}}
	for _, l := range s.tracker.State().WorkoutLogs {
		if len(out.Logs) >= input.Limit {
			break
		}
		summary := summarizeLog(l)
		if input.Status != "" && summary.Status != input.Status {
			continue
		}
		out.Logs = append(out.Logs, summary)
	}
	out.Count = len(out.Logs)
	return nil, out, nil
}

func (s *Server) handleGetWorkoutLog(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, logOutput, error) {
	id, err := s.resolveLog(ctx, input.ID)
	if err != nil {
		return nil, logOutput{}, fmt.Errorf("workout log not found: %w", err)
	}
	l, err := s.tracker.GetWorkoutLog(ctx, id)
	if err != nil {
		return nil, logOutput{}, err
	}
	if l == nil {
		return nil, logOutput{}, fmt.Errorf("workout log not found: %s", input.ID)
	}
	return nil, logOutput{Log: viewLog(l), Message: l.WorkoutName}, nil
}

func (s *Server) handleDeleteWorkoutLog(ctx context.Context, req *mcp.CallToolRequest, input idInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := s.resolveLog(ctx, input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("workout log not found: %w", err)
	}
	ok, err := s.tracker.RemoveWorkoutLog(ctx, id)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to delete workout log: %w", err)
	}
	if !ok {
		return nil, simpleOutput{}, fmt.Errorf("workout log not found: %s", input.ID)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Deleted workout log: %s", id[:8])}, nil
}

func (s *Server) handleSearchExercises(ctx context.Context, req *mcp.CallToolRequest, input searchExercisesInput) (*mcp.CallToolResult, searchExercisesOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	results := s.catalog.Search(input.Query)
	out := searchExercisesOutput{Exercises: []exerciseSummary{}}
	for _, e := range results {
		if len(out.Exercises) >= input.Limit {
			break
		}
		if input.Category != "" && input.Category != "all" && e.Category != input.Category {
			continue
		}
		out.Exercises = append(out.Exercises, summarizeExercise(e))
	}
	out.Count = len(out.Exercises)
	return nil, out, nil
}

func summarizeExercise(e catalog.Exercise) exerciseSummary {
	return exerciseSummary{
		ID:             e.ID,
		Name:           e.Name,
		Category:       e.Category,
		Level:          e.Level,
		PrimaryMuscles: append([]string{}, e.PrimaryMuscles...),
	}
}
