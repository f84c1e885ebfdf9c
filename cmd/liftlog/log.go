// ABOUTME: CLI commands for running workout sessions.
// ABOUTME: Supports start, set, complete, notes, list, show, and delete subcommands.
package main

import (
	"fmt"
	"strconv"

	"github.com/harperreed/liftlog/internal/models"
	"github.com/harperreed/liftlog/internal/workout"
	"github.com/spf13/cobra"
)

var (
	setReps      int
	setWeight    float64
	setDuration  int
	setUndo      bool
	logNotes     string
	logActive    bool
	logCompleted bool
	logLimit     int
)

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"l"},
	Short:   "Run and review workout sessions",
	Long: `Run a workout and keep a history of every session.

WORKFLOW:

  1. Start a session:   liftlog log start <workout-id>
  2. Check off sets:    liftlog log set <log-id> 1 1 --reps 5 --weight 100
  3. Finish it:         liftlog log complete <log-id> --notes "felt strong"

COMMANDS:

  start     Start a session from a workout
  set       Record or undo a set
  complete  Finish a session and stamp its duration
  notes     Replace a session's notes
  list      List sessions, newest first
  show      Show a session with every set
  delete    Delete a session`,
}

var logStartCmd = &cobra.Command{
	Use:   "start <workout-id>",
	Short: "Start a workout session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveWorkoutID(args[0])
		if err != nil {
			return err
		}
		l, err := trk.BeginWorkout(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to start workout: %w", err)
		}

		total, _ := workout.CountSets(l)
		success(cmd, "Started %s", l.WorkoutName)
		printf(cmd, "  Log ID: %s\n", shortID(l.ID))
		printf(cmd, "  Sets: %d\n", total)
		return nil
	},
}

var logSetCmd = &cobra.Command{
	Use:   "set <log-id> <exercise> <set>",
	Short: "Record a set",
	Long: `Record a set as completed, optionally with what you actually did.

Exercise and set numbers start at 1, as shown by 'liftlog log show'.

Examples:
  liftlog log set 9f8e 1 1                      # Mark as done
  liftlog log set 9f8e 1 2 --reps 4 --weight 95 # Done, with actuals
  liftlog log set 9f8e 2 1 --duration 45        # Timed set
  liftlog log set 9f8e 1 1 --undo               # Mark as not done`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveLogID(args[0])
		if err != nil {
			return err
		}
		exerciseIdx, err := parsePosition("exercise", args[1])
		if err != nil {
			return err
		}
		setIdx, err := parsePosition("set", args[2])
		if err != nil {
			return err
		}

		completed := !setUndo
		u := models.SetUpdate{Completed: &completed}
		if cmd.Flags().Changed("reps") {
			u.Reps = &setReps
		}
		if cmd.Flags().Changed("weight") {
			u.Weight = &setWeight
		}
		if cmd.Flags().Changed("duration") {
			u.Duration = &setDuration
		}

		l, err := trk.UpdateLogSet(cmd.Context(), id, exerciseIdx, setIdx, u)
		if err != nil {
			return fmt.Errorf("failed to record set: %w", err)
		}
		if l == nil {
			return fmt.Errorf("workout log not found: %s", args[0])
		}

		total, done := workout.CountSets(l)
		if completed {
			success(cmd, "Recorded %s set %d", l.Exercises[exerciseIdx].ExerciseName, setIdx+1)
		} else {
			success(cmd, "Cleared %s set %d", l.Exercises[exerciseIdx].ExerciseName, setIdx+1)
		}
		printf(cmd, "  Progress: %d%% (%d/%d sets)\n", workout.CalculateWorkoutProgress(l), done, total)
		return nil
	},
}

var logCompleteCmd = &cobra.Command{
	Use:   "complete <log-id>",
	Short: "Finish a workout session",
	Long: `Finish a session. The completion time and duration are stamped once;
completing again only replaces the notes when --notes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveLogID(args[0])
		if err != nil {
			return err
		}
		var notes *string
		if cmd.Flags().Changed("notes") {
			notes = &logNotes
		}

		l, err := trk.FinishWorkout(cmd.Context(), id, notes)
		if err != nil {
			return fmt.Errorf("failed to complete workout: %w", err)
		}
		if l == nil {
			return fmt.Errorf("workout log not found: %s", args[0])
		}

		total, done := workout.CountSets(l)
		success(cmd, "Completed %s", l.WorkoutName)
		printf(cmd, "  Duration: %s\n", workout.FormatDuration(*l.Duration))
		printf(cmd, "  Sets: %d/%d\n", done, total)
		return nil
	},
}

var logNotesCmd = &cobra.Command{
	Use:   "notes <log-id> <text>",
	Short: "Replace a session's notes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveLogID(args[0])
		if err != nil {
			return err
		}
		notes := args[1]
		l, err := trk.UpdateLog(cmd.Context(), id, models.WorkoutLogUpdate{Notes: &notes})
		if err != nil {
			return fmt.Errorf("failed to update notes: %w", err)
		}
		if l == nil {
			return fmt.Errorf("workout log not found: %s", args[0])
		}
		success(cmd, "Updated notes for %s", shortID(l.ID))
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workout sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if logActive && logCompleted {
			return fmt.Errorf("--active and --completed are mutually exclusive")
		}

		out := cmd.OutOrStdout()
		shown := 0
		for _, l := range trk.State().WorkoutLogs {
			if (logActive && l.IsCompleted()) || (logCompleted && !l.IsCompleted()) {
				continue
			}
			if logLimit > 0 && shown >= logLimit {
				break
			}
			status := "in progress"
			if l.IsCompleted() {
				status = workout.FormatDuration(*l.Duration)
			}
			fmt.Fprintf(out, "%s %s %s %s %3d%%\n",
				faint.Sprint(shortID(l.ID)),
				faint.Sprint(l.StartedAt.Local().Format("2006-01-02 15:04")),
				padRight(truncate(l.WorkoutName, 24), 24),
				padRight(status, 12),
				workout.CalculateWorkoutProgress(l))
			shown++
		}

		if shown == 0 {
			fmt.Fprintln(out, "No workout logs found.")
		}
		return nil
	},
}

var logShowCmd = &cobra.Command{
	Use:   "show <log-id>",
	Short: "Show session details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveLogID(args[0])
		if err != nil {
			return err
		}
		l, err := trk.GetWorkoutLog(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout log: %w", err)
		}
		if l == nil {
			return fmt.Errorf("workout log not found: %s", args[0])
		}

		total, done := workout.CountSets(l)
		printf(cmd, "Log: %s\n", shortID(l.ID))
		printf(cmd, "Workout: %s %s\n", l.WorkoutName, faint.Sprintf("(%s)", shortID(l.WorkoutID)))
		printf(cmd, "Started: %s\n", l.StartedAt.Local().Format("2006-01-02 15:04"))
		if l.IsCompleted() {
			printf(cmd, "Completed: %s\n", l.CompletedAt.Local().Format("2006-01-02 15:04"))
			printf(cmd, "Duration: %s\n", workout.FormatDuration(*l.Duration))
		} else {
			printf(cmd, "Status: in progress\n")
		}
		printf(cmd, "Progress: %d%% (%d/%d sets)\n", workout.CalculateWorkoutProgress(l), done, total)
		if l.Notes != nil && *l.Notes != "" {
			printf(cmd, "Notes: %s\n", *l.Notes)
		}
		printExercises(cmd, l.Exercises, true)
		return nil
	},
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete <log-id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveLogID(args[0])
		if err != nil {
			return err
		}
		ok, err := trk.RemoveWorkoutLog(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to delete workout log: %w", err)
		}
		if !ok {
			return fmt.Errorf("workout log not found: %s", args[0])
		}
		success(cmd, "Deleted workout log %s", id[:8])
		return nil
	},
}

// parsePosition turns a 1-based position into a 0-based index.
func parsePosition(what, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid %s number: %s", what, s)
	}
	return n - 1, nil
}

func init() {
	logSetCmd.Flags().IntVar(&setReps, "reps", 0, "reps performed")
	logSetCmd.Flags().Float64Var(&setWeight, "weight", 0, "weight used")
	logSetCmd.Flags().IntVar(&setDuration, "duration", 0, "seconds performed")
	logSetCmd.Flags().BoolVar(&setUndo, "undo", false, "mark the set as not completed")

	logCompleteCmd.Flags().StringVar(&logNotes, "notes", "", "session notes")

	logListCmd.Flags().BoolVar(&logActive, "active", false, "only sessions in progress")
	logListCmd.Flags().BoolVar(&logCompleted, "completed", false, "only completed sessions")
	logListCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "max sessions to show (0 for all)")

	logCmd.AddCommand(logStartCmd)
	logCmd.AddCommand(logSetCmd)
	logCmd.AddCommand(logCompleteCmd)
	logCmd.AddCommand(logNotesCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logDeleteCmd)

	rootCmd.AddCommand(logCmd)
}
