// ABOUTME: CLI commands for browsing the exercise catalog.
// ABOUTME: Supports search, show, and categories; none of them open the database.
package main

import (
	"fmt"
	"strings"

	"github.com/harperreed/liftlog/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	catalogCategory string
	catalogGroup    string
	catalogLimit    int
)

var catalogCmd = &cobra.Command{
	Use:         "catalog",
	Aliases:     []string{"c", "exercises"},
	Short:       "Browse the exercise catalog",
	Annotations: map[string]string{noStore: "true"},
	Long: `Browse the exercise catalog used to build workouts.

The built-in catalog can be replaced by pointing "catalog" in
~/.config/liftlog/config.json at a free-exercise-db style JSON file.

COMMANDS:

  search      Search by name, muscle, equipment, or category
  show        Show an exercise with its instructions
  categories  List categories, equipment, and muscles`,
}

var catalogSearchCmd = &cobra.Command{
	Use:   "search [term]",
	Short: "Search exercises",
	Long: `Search exercises by name, muscle, equipment, or category.

Examples:
  liftlog catalog search squat
  liftlog catalog search --group chest
  liftlog catalog search press --category strength`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		term := ""
		if len(args) == 1 {
			term = args[0]
		}
		results := searchCatalog(exercises, term, catalogCategory, catalogGroup)
		if len(results) == 0 {
			printf(cmd, "No exercises found.\n")
			return nil
		}

		out := cmd.OutOrStdout()
		for i, e := range results {
			if catalogLimit > 0 && i >= catalogLimit {
				fmt.Fprintf(out, "... and %d more\n", len(results)-catalogLimit)
				break
			}
			equipment := "none"
			if e.Equipment != nil {
				equipment = *e.Equipment
			}
			fmt.Fprintf(out, "%s %s %s\n",
				padRight(e.ID, 36),
				padRight(truncate(e.Name, 36), 36),
				faint.Sprintf("%s, %s", e.Category, equipment))
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show exercise details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ok := exercises.ByID(args[0])
		if !ok {
			return fmt.Errorf("exercise not found: %s", args[0])
		}

		printf(cmd, "%s\n", e.Name)
		printf(cmd, "ID: %s\n", e.ID)
		printf(cmd, "Category: %s\n", e.Category)
		printf(cmd, "Level: %s\n", e.Level)
		if e.Equipment != nil {
			printf(cmd, "Equipment: %s\n", *e.Equipment)
		}
		if e.Force != nil {
			printf(cmd, "Force: %s\n", *e.Force)
		}
		if e.Mechanic != nil {
			printf(cmd, "Mechanic: %s\n", *e.Mechanic)
		}
		printf(cmd, "Primary muscles: %s\n", strings.Join(e.PrimaryMuscles, ", "))
		if len(e.SecondaryMuscles) > 0 {
			printf(cmd, "Secondary muscles: %s\n", strings.Join(e.SecondaryMuscles, ", "))
		}
		if len(e.Instructions) > 0 {
			printf(cmd, "\nInstructions:\n")
			for i, step := range e.Instructions {
				printf(cmd, "  %d. %s\n", i+1, step)
			}
		}
		return nil
	},
}

var catalogCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories, equipment, and muscles",
	RunE: func(cmd *cobra.Command, args []string) error {
		printf(cmd, "Categories: %s\n", strings.Join(exercises.Categories(), ", "))
		printf(cmd, "Equipment: %s\n", strings.Join(exercises.EquipmentTypes(), ", "))
		printf(cmd, "Muscles: %s\n", strings.Join(exercises.MuscleGroups(), ", "))
		return nil
	},
}

// searchCatalog intersects a term search with optional category and
// body-region filters.
func searchCatalog(c *catalog.Catalog, term, category, group string) []catalog.Exercise {
	results := c.Search(term)
	if category != "" {
		inCategory := ids(c.ByCategory(category))
		results = keep(results, inCategory)
	}
	if group != "" {
		inGroup := ids(c.ByGroup(group))
		results = keep(results, inGroup)
	}
	return results
}

func ids(list []catalog.Exercise) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, e := range list {
		out[e.ID] = true
	}
	return out
}

func keep(list []catalog.Exercise, allowed map[string]bool) []catalog.Exercise {
	var out []catalog.Exercise
	for _, e := range list {
		if allowed[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func init() {
	catalogSearchCmd.Flags().StringVar(&catalogCategory, "category", "", "filter by category (strength, cardio, stretching, ...)")
	catalogSearchCmd.Flags().StringVarP(&catalogGroup, "group", "g", "", "filter by body region (chest, back, upper-legs, ...)")
	catalogSearchCmd.Flags().IntVarP(&catalogLimit, "limit", "n", 50, "max results (0 for all)")

	catalogCmd.AddCommand(catalogSearchCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogCategoriesCmd)

	rootCmd.AddCommand(catalogCmd)
}
