// ABOUTME: CLI commands for exporting and importing liftlog data.
// ABOUTME: Supports JSON, YAML, and Markdown export and JSON/YAML import.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/liftlog/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export workouts and logs",
	Long: `Export every workout and workout log.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also importable)
  markdown   Workout tables and session history

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include sessions since this date (markdown only)

EXAMPLES:

  liftlog export json -o backup.json
  liftlog export yaml
  liftlog export markdown --since 2025-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(args[0])
		if err != nil {
			return err
		}

		db, err := handle.Instance()
		if err != nil {
			return err
		}
		data, err := db.Dump(cmd.Context())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var out []byte
		if format == export.FormatMarkdown && exportSince != "" {
			since, err := parseTime(exportSince)
			if err != nil {
				return fmt.Errorf("invalid --since: %w", err)
			}
			out = []byte(export.Markdown(data, &since))
		} else {
			out, err = export.Render(data, format)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, out, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			success(cmd, "Exported %d workouts and %d logs to %s", len(data.Workouts), len(data.WorkoutLogs), exportOutput)
			return nil
		}
		printf(cmd, "%s\n", out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import workouts and logs from a backup",
	Long: `Import a JSON or YAML file written by 'liftlog export'.

Records whose ID already exists are replaced. Every record is validated
before it is written.

EXAMPLES:

  liftlog import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		data, err := export.Parse(raw)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		db, err := handle.Instance()
		if err != nil {
			return err
		}
		summary, err := db.Restore(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		success(cmd, "Imported %d workouts and %d logs from %s", summary.Workouts, summary.WorkoutLogs, args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include sessions since date (YYYY-MM-DD, markdown only)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
