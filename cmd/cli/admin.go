package cli

// -----------------------------------------------------------------------------
// admin.go – lifecycle operations: halt and finish-pending-tasks
// (controller-only), snapshot, restore, stats
// -----------------------------------------------------------------------------

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func adminHaltHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	if err := sharedEngine.Halt(caller); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "engine halted")
	return nil
}

func adminFinishPendingTasksHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	limit := 1000
	if err := sharedEngine.FinishPendingTasks(context.Background(), caller, limit); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "pending flush tasks drained")
	return nil
}

func adminSnapshotHandler(cmd *cobra.Command, args []string) error {
	data := sharedEngine.Snapshot()
	if len(args) == 1 {
		if err := os.WriteFile(args[0], data, 0o600); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d bytes to %s\n", len(data), args[0])
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
	return nil
}

func adminRestoreHandler(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := sharedEngine.Restore(data); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "restored")
	return nil
}

func adminStatsHandler(cmd *cobra.Command, args []string) error {
	s := sharedEngine.StatsSnapshot()
	fmt.Fprintf(cmd.OutOrStdout(), "minted=%d burned=%d fees=%d transfers=%d\n", s.CyclesMinted, s.CyclesBurned, s.FeesCollected, s.TransferCount)
	return nil
}

var adminRootCmd = &cobra.Command{
	Use:               "admin",
	Short:             "Lifecycle operations (halt and finish-pending-tasks are controller-only)",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return ensureEngine() },
}

var adminHaltCmd = &cobra.Command{Use: "halt <controller>", Short: "Halt the engine", Args: cobra.ExactArgs(1), RunE: adminHaltHandler}
var adminFinishPendingTasksCmd = &cobra.Command{Use: "finish-pending-tasks <controller>", Short: "Drain any in-progress flush", Args: cobra.ExactArgs(1), RunE: adminFinishPendingTasksHandler}
var adminSnapshotCmd = &cobra.Command{Use: "snapshot [path]", Short: "Export a cross-upgrade snapshot", Args: cobra.MaximumNArgs(1), RunE: adminSnapshotHandler}
var adminRestoreCmd = &cobra.Command{Use: "restore <path>", Short: "Restore from a snapshot file", Args: cobra.ExactArgs(1), RunE: adminRestoreHandler}
var adminStatsCmd = &cobra.Command{Use: "stats", Short: "Show cumulative accounting counters", Args: cobra.NoArgs, RunE: adminStatsHandler}

func init() {
	adminRootCmd.AddCommand(adminHaltCmd, adminFinishPendingTasksCmd, adminSnapshotCmd, adminRestoreCmd, adminStatsCmd)
}

// AdminCmd exports the root command.
var AdminCmd = adminRootCmd

// RegisterAdmin attaches the admin command group to root.
func RegisterAdmin(root *cobra.Command) { root.AddCommand(AdminCmd) }
