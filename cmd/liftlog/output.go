// ABOUTME: Shared helpers for CLI output, argument parsing, and id resolution.
// ABOUTME: Styled messages go to the command's writer so they can be captured.
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var faint = color.New(color.Faint)

func success(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ "+format+"\n", args...)
}

func warn(cmd *cobra.Command, format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "⚠ "+format+"\n", args...)
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

// parseTime accepts a date, a date with minutes, or RFC 3339. Values without
// a zone are read as local time.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time format: %s (use YYYY-MM-DD)", s)
}

func resolveWorkoutID(prefix string) (string, error) {
	id, err := trk.ResolveWorkoutID(prefix)
	if err != nil {
		return "", fmt.Errorf("workout %q: %w", prefix, err)
	}
	return id, nil
}

func resolveLogID(prefix string) (string, error) {
	id, err := trk.ResolveLogID(prefix)
	if err != nil {
		return "", fmt.Errorf("workout log %q: %w", prefix, err)
	}
	return id, nil
}
