package cli

// -----------------------------------------------------------------------------
// history.go – transaction lookup and paginated event reads
// -----------------------------------------------------------------------------

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func historyGetTransactionHandler(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid transaction id: %w", err)
	}
	tx, found, remote := sharedEngine.GetTransaction(context.Background(), id)
	if !found {
		if remote != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "not resolved locally; ask bucket %s\n", encodeAddr(*remote))
			return nil
		}
		return fmt.Errorf("transaction %d not found", id)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "id=%d timestamp_ms=%d cycles=%d fee=%d status=%s\n", id, tx.Timestamp, tx.Cycles, tx.Fee, tx.Status)
	return nil
}

func historyEventsHandler(cmd *cobra.Command, args []string) error {
	self, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	limit, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid limit: %w", err)
	}
	var offsetPtr *uint64
	if len(args) > 2 {
		offset, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid offset: %w", err)
		}
		offsetPtr = &offset
	}
	page := sharedEngine.Events(offsetPtr, limit, self)
	for _, tx := range page.Data {
		fmt.Fprintf(cmd.OutOrStdout(), "timestamp_ms=%d cycles=%d fee=%d status=%s\n", tx.Timestamp, tx.Cycles, tx.Fee, tx.Status)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "next_offset=%d", page.NextOffset)
	if page.NextCanister != nil {
		fmt.Fprintf(cmd.OutOrStdout(), " next_canister=%s", encodeAddr(*page.NextCanister))
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func historyBucketEventsHandler(cmd *cobra.Command, args []string) error {
	addr, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	limit, err := strconv.ParseUint(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid limit: %w", err)
	}
	var offsetPtr *uint64
	if len(args) > 2 {
		offset, err := strconv.ParseUint(args[2], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid offset: %w", err)
		}
		offsetPtr = &offset
	}
	page, err := sharedBackend.Events(addr, offsetPtr, limit)
	if err != nil {
		return err
	}
	for _, tx := range page.Data {
		fmt.Fprintf(cmd.OutOrStdout(), "timestamp_ms=%d cycles=%d fee=%d status=%s\n", tx.Timestamp, tx.Cycles, tx.Fee, tx.Status)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "next_offset=%d", page.NextOffset)
	if page.NextCanister != nil {
		fmt.Fprintf(cmd.OutOrStdout(), " next_canister=%s", encodeAddr(*page.NextCanister))
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

var historyRootCmd = &cobra.Command{
	Use:               "history",
	Short:             "Transaction lookup and paginated event reads",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return ensureEngine() },
}

var historyGetTransactionCmd = &cobra.Command{Use: "get-transaction <id>", Short: "Resolve a transaction by id", Args: cobra.ExactArgs(1), RunE: historyGetTransactionHandler}
var historyEventsCmd = &cobra.Command{Use: "events <self-addr> <limit> [offset]", Short: "Page through the head bucket", Args: cobra.RangeArgs(2, 3), RunE: historyEventsHandler}
var historyBucketEventsCmd = &cobra.Command{Use: "bucket-events <bucket-addr> <limit> [offset]", Short: "Page through a provisioned bucket directly", Args: cobra.RangeArgs(2, 3), RunE: historyBucketEventsHandler}

func init() {
	historyRootCmd.AddCommand(historyGetTransactionCmd, historyEventsCmd, historyBucketEventsCmd)
}

// HistoryCmd exports the root command.
var HistoryCmd = historyRootCmd

// RegisterHistory attaches the history command group to root.
func RegisterHistory(root *cobra.Command) { root.AddCommand(HistoryCmd) }
