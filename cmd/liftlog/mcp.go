// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server over the mounted tracker and exercise catalog.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/liftlog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants plan workouts and log sessions for you. The server
communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  {
    "mcpServers": {
      "liftlog": {
        "command": "liftlog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  create_workout      Create a workout from catalog exercises
  list_workouts       List workouts
  get_workout         Get a workout with every planned set
  rename_workout      Rename a workout
  delete_workout      Delete a workout
  start_workout       Start a session from a workout
  log_set             Record a set in a session
  complete_workout    Finish a session
  list_workout_logs   List sessions
  get_workout_log     Get a session with progress
  delete_workout_log  Delete a session
  search_exercises    Search the exercise catalog

AVAILABLE RESOURCES:

  liftlog://workouts      Every workout
  liftlog://logs/recent   The ten most recent sessions
  liftlog://logs/active   Sessions in progress`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(trk, exercises, version)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
