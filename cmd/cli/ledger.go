package cli

// -----------------------------------------------------------------------------
// ledger.go – balance, allowance, approve, transfer, transfer-from, mint
// -----------------------------------------------------------------------------

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func ledgerBalanceHandler(cmd *cobra.Command, args []string) error {
	addr, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sharedEngine.Balance(addr))
	return nil
}

func ledgerAllowanceHandler(cmd *cobra.Command, args []string) error {
	owner, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	spender, err := decodeAddr(args[1])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sharedEngine.Allowance(owner, spender))
	return nil
}

func ledgerApproveHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	spender, err := decodeAddr(args[1])
	if err != nil {
		return err
	}
	amt, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	id, err := sharedEngine.Approve(context.Background(), caller, spender, amt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx %d: approved %d for %s to draw from %s\n", id, amt, args[1], args[0])
	return nil
}

func ledgerTransferHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	to, err := decodeAddr(args[1])
	if err != nil {
		return err
	}
	amt, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	id, err := sharedEngine.Transfer(context.Background(), caller, to, amt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx %d: transferred %d from %s to %s\n", id, amt, args[0], args[1])
	return nil
}

func ledgerTransferFromHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	owner, err := decodeAddr(args[1])
	if err != nil {
		return err
	}
	to, err := decodeAddr(args[2])
	if err != nil {
		return err
	}
	amt, err := parseAmount(args[3])
	if err != nil {
		return err
	}
	id, err := sharedEngine.TransferFrom(context.Background(), caller, owner, to, amt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx %d: %s pulled %d from %s to %s\n", id, args[0], amt, args[1], args[2])
	return nil
}

func ledgerMintHandler(cmd *cobra.Command, args []string) error {
	to, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	accepted, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	id, err := sharedEngine.Mint(context.Background(), to, accepted)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx %d: minted to %s from %d accepted cycles\n", id, args[0], accepted)
	return nil
}

var ledgerRootCmd = &cobra.Command{
	Use:               "ledger",
	Short:             "Cycle ledger balance, allowance and transfer operations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return ensureEngine() },
}

var ledgerBalanceCmd = &cobra.Command{Use: "balance <addr>", Short: "Show balance", Args: cobra.ExactArgs(1), RunE: ledgerBalanceHandler}
var ledgerAllowanceCmd = &cobra.Command{Use: "allowance <owner> <spender>", Short: "Show allowance", Args: cobra.ExactArgs(2), RunE: ledgerAllowanceHandler}
var ledgerApproveCmd = &cobra.Command{Use: "approve <caller> <spender> <amount>", Short: "Approve a spender", Args: cobra.ExactArgs(3), RunE: ledgerApproveHandler}
var ledgerTransferCmd = &cobra.Command{Use: "transfer <caller> <to> <amount>", Short: "Transfer cycles", Args: cobra.ExactArgs(3), RunE: ledgerTransferHandler}
var ledgerTransferFromCmd = &cobra.Command{Use: "transfer-from <caller> <owner> <to> <amount>", Short: "Transfer on behalf of owner", Args: cobra.ExactArgs(4), RunE: ledgerTransferFromHandler}
var ledgerMintCmd = &cobra.Command{Use: "mint <to> <accepted>", Short: "Mint from accepted cycles", Args: cobra.ExactArgs(2), RunE: ledgerMintHandler}

func init() {
	ledgerRootCmd.AddCommand(ledgerBalanceCmd, ledgerAllowanceCmd, ledgerApproveCmd, ledgerTransferCmd, ledgerTransferFromCmd, ledgerMintCmd)
}

// LedgerCmd exports the root command.
var LedgerCmd = ledgerRootCmd

// RegisterLedger attaches the ledger command group to root.
func RegisterLedger(root *cobra.Command) { root.AddCommand(LedgerCmd) }
