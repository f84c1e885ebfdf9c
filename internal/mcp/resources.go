// ABOUTME: MCP resource implementations for liftlog.
// ABOUTME: Provides liftlog://workouts, liftlog://logs/recent, and liftlog://logs/active.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	workoutsURI   = "liftlog://workouts"
	recentLogsURI = "liftlog://logs/recent"
	activeLogsURI = "liftlog://logs/active"

	recentLogLimit = 10
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         workoutsURI,
		Name:        "Workout Templates",
		Description: "Every workout template with its exercises",
		MIMEType:    "application/json",
	}, s.handleWorkoutsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         recentLogsURI,
		Name:        "Recent Workout Logs",
		Description: "The 10 most recent workout logs with progress",
		MIMEType:    "application/json",
	}, s.handleRecentLogsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         activeLogsURI,
		Name:        "Active Workouts",
		Description: "Workout logs that have been started but not completed",
		MIMEType:    "application/json",
	}, s.handleActiveLogsResource)
}

// Resource handlers

func (s *Server) handleWorkoutsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.tracker.LoadWorkouts(ctx); err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}

	workouts := s.tracker.State().Workouts
	views := make([]workoutView, len(workouts))
	for i, w := range workouts {
		views[i] = viewWorkout(w)
	}

	return jsonResource(workoutsURI, map[string]interface{}{
		"workouts": views,
		"count":    len(views),
	})
}

func (s *Server) handleRecentLogsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.tracker.LoadWorkoutLogs(ctx); err != nil {
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}

	logs := s.tracker.State().WorkoutLogs
	if len(logs) > recentLogLimit {
		logs = logs[:recentLogLimit]
	}
	summaries := make([]logSummary, len(logs))
	for i, l := range logs {
		summaries[i] = summarizeLog(l)
	}

	return jsonResource(recentLogsURI, map[string]interface{}{
		"logs":  summaries,
		"count": len(summaries),
	})
}

func (s *Server) handleActiveLogsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	if err := s.tracker.LoadWorkoutLogs(ctx); err != nil {
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}

	active := []logView{}
	for _, l := range s.tracker.State().WorkoutLogs {
		if !l.IsCompleted() {
			active = append(active, viewLog(l))
		}
	}

	return jsonResource(activeLogsURI, map[string]interface{}{
		"generated_at": time.Now().Format(time.RFC3339),
		"active":       active,
		"count":        len(active),
	})
}

func jsonResource(uri string, result interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
