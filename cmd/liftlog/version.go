// ABOUTME: CLI command that prints the build version.
// ABOUTME: The version is set at build time with -ldflags "-X main.version=...".
package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the liftlog version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printf(cmd, "liftlog %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
