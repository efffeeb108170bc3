package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/psychedelic/xtc-engine/cmd/cli"
)

func main() {
	rootCmd := &cobra.Command{Use: "xtc-engine", Short: "Cycles ledger engine for a sharded, message-passing token canister"}
	cli.RegisterLedger(rootCmd)
	cli.RegisterWallet(rootCmd)
	cli.RegisterHistory(rootCmd)
	cli.RegisterAdmin(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
