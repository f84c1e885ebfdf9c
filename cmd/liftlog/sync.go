// ABOUTME: CLI commands for Charm-based sync.
// ABOUTME: Supports link, unlink, status, now, and reset; sync needs the charm backend.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/harperreed/liftlog/internal/storage"
	"github.com/spf13/cobra"
)

var syncYes bool

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync liftlog data across devices",
	Long: `Sync workouts and logs across devices using Charm Cloud.

Sync requires the charm backend. Your data is E2E encrypted with your SSH
key before upload.

GETTING STARTED:

  1. Switch backends (copying existing data first):
     liftlog migrate --from badger --to charm
     liftlog config set backend charm

  2. Link each device to the same Charm account:
     liftlog sync link

  3. Check sync status:
     liftlog sync status

COMMANDS:

  link     Link this device to your Charm account
  unlink   Disconnect this device from Charm
  status   Show sync status and account info
  now      Sync immediately
  reset    Replace local data with the cloud copy (destructive)

With auto_sync enabled (the default) data syncs on open and after every write.`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm(cmd, "link"); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		success(cmd, "Device linked to Charm")

		if cs, err := charmStore(); err == nil {
			if err := cs.Sync(); err != nil {
				warn(cmd, "Initial sync failed: %v", err)
			} else {
				success(cmd, "Initial sync complete")
			}
		}
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local data.
You can link again later with 'liftlog sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runCharm(cmd, "unlink"); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}
		success(cmd, "Device unlinked from Charm")
		printf(cmd, "Your local data is preserved.\n")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		printf(cmd, "Backend: %s\n", cfg.GetBackend())
		cs, err := charmStore()
		if err != nil {
			warn(cmd, "Sync is off: %v", err)
			return nil
		}

		printf(cmd, "Server: %s\n", cfg.CharmHost)
		printf(cmd, "Auto-sync: %t\n", cfg.AutoSync)
		if cs.IsReadOnly() {
			warn(cmd, "Read-only: %v", storage.ErrReadOnly)
		}

		id, err := storage.CharmID()
		if err != nil {
			warn(cmd, "Not linked to Charm")
			printf(cmd, "\nRun 'liftlog sync link' to connect to Charm.\n")
			return nil
		}
		printf(cmd, "Charm ID: %s\n", id)

		st := trk.State()
		success(cmd, "Connected to Charm")
		printf(cmd, "  Workouts: %d\n", len(st.Workouts))
		printf(cmd, "  Logs: %d\n", len(st.WorkoutLogs))
		return nil
	},
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Sync immediately",
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := charmStore()
		if err != nil {
			return err
		}
		if err := cs.Sync(); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		success(cmd, "Synced with %s", cfg.CharmHost)
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local data and restore from cloud",
	Long: `Delete all local data and restore from Charm Cloud.

This is a destructive operation. Use it to fix sync conflicts or to reset a
device to the cloud state.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cs, err := charmStore()
		if err != nil {
			return err
		}

		if !syncYes {
			printf(cmd, "This will DELETE all local liftlog data and restore from cloud.\n")
			printf(cmd, "Continue? [y/N]: ")
			var confirm string
			_, _ = fmt.Fscanln(cmd.InOrStdin(), &confirm)
			if !strings.EqualFold(confirm, "y") {
				printf(cmd, "Canceled.\n")
				return nil
			}
		}

		if err := cs.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}
		success(cmd, "Local data reset and restored from cloud")
		return nil
	},
}

// charmStore returns the mounted Charm store, or an error naming the
// configured backend when it is something else.
func charmStore() (*storage.CharmStore, error) {
	if handle == nil {
		return nil, storage.ErrUninitialized
	}
	db, err := handle.Instance()
	if err != nil {
		return nil, err
	}
	cs, ok := db.Store().(*storage.CharmStore)
	if !ok {
		return nil, fmt.Errorf("sync requires the charm backend (current: %s)", cfg.GetBackend())
	}
	return cs, nil
}

func runCharm(cmd *cobra.Command, args ...string) error {
	c := exec.CommandContext(cmd.Context(), "charm", args...)
	c.Stdin = os.Stdin
	c.Stdout = cmd.OutOrStdout()
	c.Stderr = cmd.ErrOrStderr()
	return c.Run()
}

func init() {
	syncResetCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "skip the confirmation prompt")

	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncResetCmd)

	rootCmd.AddCommand(syncCmd)
}
