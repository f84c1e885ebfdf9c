// ABOUTME: Pure helpers for rendering durations and computing log progress.
// ABOUTME: Neither touches storage.
package workout

import (
	"fmt"
	"math"

	"github.com/harperreed/liftlog/internal/models"
)

// FormatDuration renders seconds as "1h 1m 1s", dropping leading zero segments:
// 65 is "1m 5s" and 0 is "0s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// CalculateWorkoutProgress returns the rounded percentage of completed sets
// across all exercises, or 0 when the log has no sets.
func CalculateWorkoutProgress(l *models.WorkoutLog) int {
	total, completed := CountSets(l)
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// CountSets returns the total and completed set counts of a log.
func CountSets(l *models.WorkoutLog) (total, completed int) {
	for _, e := range l.Exercises {
		for _, s := range e.Sets {
			total++
			if s.Completed {
				completed++
			}
		}
	}
	return total, completed
}
