// ABOUTME: CLI commands for managing workout templates.
// ABOUTME: Supports create, list, show, rename, and delete subcommands.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harperreed/liftlog/internal/export"
	"github.com/harperreed/liftlog/internal/models"
	"github.com/spf13/cobra"
)

var workoutExercises []string

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workout templates",
	Long: `Plan reusable workouts made of exercises and their sets.

A workout is a template. Starting it with 'liftlog log start' copies its
exercises into a new log, so later edits never change past sessions.

WORKFLOW:

  1. Find exercises:    liftlog catalog search bench
  2. Create a workout:  liftlog workout create "Push" -e Barbell_Bench_Press_-_Medium_Grip:3x8@60
  3. Review it:         liftlog workout show 1a2b

COMMANDS:

  create   Create a workout from catalog exercises
  list     List workouts
  show     Show a workout with every planned set
  rename   Rename a workout
  delete   Delete a workout (its logs are kept)`,
}

var workoutCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new workout",
	Long: `Create a workout from one or more exercises.

Each --exercise takes a catalog ID with an optional plan:

  ID                  no planned sets
  ID:SETSxREPS        e.g. Barbell_Squat:3x5
  ID:SETSxREPS@WEIGHT e.g. Barbell_Squat:3x5@100
  ID:SETSxSECONDSs    e.g. Plank:3x60s

Examples:
  liftlog workout create "Leg day" -e Barbell_Squat:5x5@100 -e Plank:3x60s
  liftlog workout create "Pull" --exercise Pullups:4x8`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list := make([]models.WorkoutExercise, 0, len(workoutExercises))
		for _, spec := range workoutExercises {
			e, known, err := buildExercise(spec)
			if err != nil {
				return err
			}
			if !known {
				warn(cmd, "%s is not in the exercise catalog", e.ExerciseID)
			}
			list = append(list, e)
		}

		w, err := trk.AddWorkout(cmd.Context(), args[0], list)
		if err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		success(cmd, "Created workout %s", w.Name)
		printf(cmd, "  ID: %s\n", shortID(w.ID))
		printf(cmd, "  Exercises: %d\n", len(w.Exercises))
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		workouts := trk.State().Workouts
		if len(workouts) == 0 {
			printf(cmd, "No workouts found.\n")
			return nil
		}

		out := cmd.OutOrStdout()
		for _, w := range workouts {
			sets := 0
			for _, e := range w.Exercises {
				sets += len(e.Sets)
			}
			fmt.Fprintf(out, "%s %s %s %d exercises, %d sets\n",
				faint.Sprint(shortID(w.ID)),
				faint.Sprint(w.CreatedAt.Local().Format("2006-01-02")),
				padRight(truncate(w.Name, 30), 30),
				len(w.Exercises), sets)
		}
		return nil
	},
}

var workoutShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show workout details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveWorkoutID(args[0])
		if err != nil {
			return err
		}
		w, err := trk.GetWorkout(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get workout: %w", err)
		}
		if w == nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}

		printf(cmd, "Workout: %s\n", shortID(w.ID))
		printf(cmd, "Name: %s\n", w.Name)
		printf(cmd, "Created: %s\n", w.CreatedAt.Local().Format("2006-01-02 15:04"))
		printExercises(cmd, w.Exercises, false)
		return nil
	},
}

var workoutRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a workout",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveWorkoutID(args[0])
		if err != nil {
			return err
		}
		name := args[1]
		w, err := trk.EditWorkout(cmd.Context(), id, models.WorkoutUpdate{Name: &name})
		if err != nil {
			return fmt.Errorf("failed to rename workout: %w", err)
		}
		if w == nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}
		success(cmd, "Renamed workout %s to %s", shortID(w.ID), w.Name)
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout",
	Long: `Delete a workout template by ID or unique prefix.

Logs already started from the workout are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := resolveWorkoutID(args[0])
		if err != nil {
			return err
		}
		ok, err := trk.RemoveWorkout(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}
		if !ok {
			return fmt.Errorf("workout not found: %s", args[0])
		}
		success(cmd, "Deleted workout %s", id[:8])
		return nil
	},
}

// buildExercise parses an --exercise value and fills the display name from
// the catalog. Unknown ids are kept, named after the id.
func buildExercise(spec string) (models.WorkoutExercise, bool, error) {
	id, sets, err := parseExerciseSpec(spec)
	if err != nil {
		return models.WorkoutExercise{}, false, err
	}
	e := models.WorkoutExercise{ExerciseID: id, Sets: sets}
	if ex, ok := exercises.ByID(id); ok {
		e.ExerciseName = ex.Name
		return e, true, nil
	}
	e.ExerciseName = strings.ReplaceAll(id, "_", " ")
	return e, false, nil
}

// parseExerciseSpec splits "ID[:SETSx(REPS|SECONDSs)[@WEIGHT]]".
func parseExerciseSpec(spec string) (string, []models.WorkoutSet, error) {
	id, plan, hasPlan := strings.Cut(spec, ":")
	id = strings.TrimSpace(id)
	if id == "" {
		return "", nil, fmt.Errorf("invalid exercise %q: missing id", spec)
	}
	if !hasPlan {
		return id, []models.WorkoutSet{}, nil
	}

	plan = strings.ToLower(strings.ReplaceAll(plan, " ", ""))
	plan, weightStr, hasWeight := strings.Cut(plan, "@")
	countStr, amountStr, ok := strings.Cut(plan, "x")
	if !ok {
		return "", nil, fmt.Errorf("invalid exercise %q: expected SETSxREPS", spec)
	}

	count, err := strconv.Atoi(countStr)
	if err != nil || count < 1 {
		return "", nil, fmt.Errorf("invalid exercise %q: bad set count %q", spec, countStr)
	}

	timed := strings.HasSuffix(amountStr, "s")
	amount, err := strconv.Atoi(strings.TrimSuffix(amountStr, "s"))
	if err != nil || amount < 0 {
		return "", nil, fmt.Errorf("invalid exercise %q: bad reps %q", spec, amountStr)
	}

	var weight float64
	if hasWeight {
		weight, err = strconv.ParseFloat(weightStr, 64)
		if err != nil || weight < 0 {
			return "", nil, fmt.Errorf("invalid exercise %q: bad weight %q", spec, weightStr)
		}
	}

	sets := make([]models.WorkoutSet, count)
	for i := range sets {
		a := amount
		if timed {
			sets[i].Duration = &a
		} else {
			sets[i].Reps = &a
		}
		if hasWeight {
			w := weight
			sets[i].Weight = &w
		}
	}
	return id, sets, nil
}

// printExercises lists exercises with 1-based set numbers. Completion marks
// are shown for logs only.
func printExercises(cmd *cobra.Command, list []models.WorkoutExercise, marks bool) {
	if len(list) == 0 {
		printf(cmd, "\nNo exercises.\n")
		return
	}
	printf(cmd, "\nExercises:\n")
	for i, e := range list {
		printf(cmd, "  %d. %s %s\n", i+1, e.ExerciseName, faint.Sprintf("(%s)", e.ExerciseID))
		for j, s := range e.Sets {
			mark := ""
			if marks {
				mark = "[ ] "
				if s.Completed {
					mark = "[x] "
				}
			}
			printf(cmd, "     %sset %d: %s\n", mark, j+1, export.DescribeSet(s))
		}
	}
}

func init() {
	workoutCreateCmd.Flags().StringArrayVarP(&workoutExercises, "exercise", "e", nil, "exercise as ID[:SETSxREPS[@WEIGHT]] (repeatable)")

	workoutCmd.AddCommand(workoutCreateCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutShowCmd)
	workoutCmd.AddCommand(workoutRenameCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)

	rootCmd.AddCommand(workoutCmd)
}
