// ABOUTME: Renders liftlog snapshots as JSON, YAML, or Markdown.
// ABOUTME: JSON and YAML round-trip through Parse; Markdown is for reading.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/storage"
	"github.com/harperreed/liftlog/internal/workout"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
)

// ParseFormat accepts json, yaml/yml, or markdown/md.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (use json, yaml, or markdown)", s)
}

// Render encodes data in the given format.
func Render(data *storage.ExportData, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return JSON(data)
	case FormatYAML:
		return YAML(data)
	case FormatMarkdown:
		return []byte(Markdown(data, nil)), nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// JSON exports data as indented JSON.
func JSON(data *storage.ExportData) ([]byte, error) {
	return json.MarshalIndent(data, "", "  ")
}

// YAML exports data as YAML.
func YAML(data *storage.ExportData) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse decodes a JSON or YAML snapshot. JSON is tried first.
func Parse(raw []byte) (*storage.ExportData, error) {
	trimmed := bytes.TrimSpace(raw)
	var data storage.ExportData

	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &data); err != nil {
			return nil, fmt.Errorf("unmarshal JSON: %w", err)
		}
	} else if err := yaml.Unmarshal(trimmed, &data); err != nil {
		return nil, fmt.Errorf("unmarshal YAML: %w", err)
	}

	if data.Version == "" {
		return nil, fmt.Errorf("not a liftlog export: missing version")
	}
	return &data, nil
}

// Markdown renders workouts and a history table. A non-nil since drops logs
// started before it.
func Markdown(data *storage.ExportData, since *time.Time) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Liftlog Export - %s\n\n", data.ExportedAt.Format("2006-01-02")))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", data.ExportedAt.Format(time.RFC3339)))

	if len(data.Workouts) > 0 {
		sb.WriteString("## Workouts\n\n")
		for _, w := range data.Workouts {
			sb.WriteString(fmt.Sprintf("### %s\n\n", w.Name))
			sb.WriteString(fmt.Sprintf("Created %s\n\n", w.CreatedAt.Format("2006-01-02")))
			if len(w.Exercises) == 0 {
				sb.WriteString("_No exercises_\n\n")
				continue
			}
			sb.WriteString("| Exercise | Sets |\n")
			sb.WriteString("|----------|------|\n")
			for _, e := range w.Exercises {
				sb.WriteString(fmt.Sprintf("| %s | %s |\n", e.ExerciseName, describeSets(e.Sets)))
			}
			sb.WriteString("\n")
		}
	}

	logs := data.WorkoutLogs
	if since != nil {
		var filtered []*models.WorkoutLog
		for _, l := range logs {
			if !l.StartedAt.Before(*since) {
				filtered = append(filtered, l)
			}
		}
		logs = filtered
	}

	if len(logs) > 0 {
		sb.WriteString("## History\n\n")
		sb.WriteString("| Date | Workout | Duration | Progress | Notes |\n")
		sb.WriteString("|------|---------|----------|----------|-------|\n")
		for _, l := range logs {
			duration := "in progress"
			if l.Duration != nil {
				duration = workout.FormatDuration(*l.Duration)
			}
			notes := ""
			if l.Notes != nil {
				notes = *l.Notes
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d%% | %s |\n",
				l.StartedAt.Format("2006-01-02 15:04"),
				l.WorkoutName, duration, workout.CalculateWorkoutProgress(l), notes))
		}
	}

	return sb.String()
}

// describeSets summarizes sets as e.g. "3 × 5 @ 100" or "2 sets".
func describeSets(sets []models.WorkoutSet) string {
	if len(sets) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(sets))
	for _, s := range sets {
		parts = append(parts, DescribeSet(s))
	}
	return strings.Join(parts, ", ")
}

// DescribeSet renders one set compactly: "5 @ 100", "60s", or "-".
func DescribeSet(s models.WorkoutSet) string {
	var parts []string
	if s.Reps != nil {
		parts = append(parts, fmt.Sprintf("%d", *s.Reps))
	}
	if s.Weight != nil {
		parts = append(parts, fmt.Sprintf("@ %g", *s.Weight))
	}
	if s.Duration != nil {
		parts = append(parts, workout.FormatDuration(*s.Duration))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
