package cli

// -----------------------------------------------------------------------------
// wallet.go – outbound calls: wallet-call, burn, wallet-send, create-canister
// -----------------------------------------------------------------------------

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psychedelic/xtc-engine/core"
)

func walletCallHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	canister, err := decodeAddr(args[1])
	if err != nil {
		return err
	}
	method := args[2]
	cycles, err := parseAmount(args[3])
	if err != nil {
		return err
	}
	var payload []byte
	if len(args) > 4 {
		payload, err = hex.DecodeString(args[4])
		if err != nil {
			return fmt.Errorf("invalid payload hex: %w", err)
		}
	}
	result, id, err := sharedEngine.WalletCall(context.Background(), sharedPlatform, caller, canister, method, payload, cycles)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx %d: called %s on %s, result=%s\n", id, method, args[1], hex.EncodeToString(result))
	return nil
}

func walletBurnHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	canister, err := decodeAddr(args[1])
	if err != nil {
		return err
	}
	amt, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	id, err := sharedEngine.Burn(context.Background(), sharedPlatform, caller, canister, amt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx %d: burned %d from %s to %s\n", id, amt, args[0], args[1])
	return nil
}

func walletSendHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	canister, err := decodeAddr(args[1])
	if err != nil {
		return err
	}
	amt, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	id, err := sharedEngine.WalletSend(context.Background(), sharedPlatform, caller, canister, amt)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx %d: sent %d from %s to %s\n", id, amt, args[0], args[1])
	return nil
}

func walletCreateCanisterHandler(cmd *cobra.Command, args []string) error {
	caller, err := decodeAddr(args[0])
	if err != nil {
		return err
	}
	cycles, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	var controllerPtr *core.Address
	if len(args) > 2 {
		c, err := decodeAddr(args[2])
		if err != nil {
			return err
		}
		controllerPtr = &c
	}
	addr, id, err := sharedEngine.WalletCreateCanister(context.Background(), sharedPlatform, caller, cycles, controllerPtr)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "tx %d: created canister %s\n", id, encodeAddr(addr))
	return nil
}

var walletRootCmd = &cobra.Command{
	Use:               "wallet",
	Short:             "Outbound cycle wallet operations",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return ensureEngine() },
}

var walletCallCmd = &cobra.Command{Use: "call <caller> <canister> <method> <cycles> [payload-hex]", Short: "Call a canister with cycles attached", Args: cobra.RangeArgs(4, 5), RunE: walletCallHandler}
var walletBurnCmd = &cobra.Command{Use: "burn <caller> <canister> <amount>", Short: "Burn cycles to a token contract", Args: cobra.ExactArgs(3), RunE: walletBurnHandler}
var walletSendCmd = &cobra.Command{Use: "send <caller> <canister> <amount>", Short: "Send cycles with no payload", Args: cobra.ExactArgs(3), RunE: walletSendHandler}
var walletCreateCanisterCmd = &cobra.Command{Use: "create-canister <caller> <cycles> [controller]", Short: "Provision a new canister funded with cycles", Args: cobra.RangeArgs(2, 3), RunE: walletCreateCanisterHandler}

func init() {
	walletRootCmd.AddCommand(walletCallCmd, walletBurnCmd, walletSendCmd, walletCreateCanisterCmd)
}

// WalletCmd exports the root command.
var WalletCmd = walletRootCmd

// RegisterWallet attaches the wallet command group to root.
func RegisterWallet(root *cobra.Command) { root.AddCommand(WalletCmd) }
