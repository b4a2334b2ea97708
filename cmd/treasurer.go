package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

var treasurerCmd = &cobra.Command{
	Use:   "treasurer",
	Short: "Grant or revoke the treasurer role (admin)",
}

var grantTreasurerCmd = &cobra.Command{
	Use:   "grant <address>",
	Short: "Grant the treasurer role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := changeTreasurer(cmd.Context(), args[0], true); err != nil {
			logx.Error("TREASURER CLI", err)
		}
	},
}

var revokeTreasurerCmd = &cobra.Command{
	Use:   "revoke <address>",
	Short: "Revoke the treasurer role",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := changeTreasurer(cmd.Context(), args[0], false); err != nil {
			logx.Error("TREASURER CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(treasurerCmd)
	treasurerCmd.AddCommand(grantTreasurerCmd)
	treasurerCmd.AddCommand(revokeTreasurerCmd)
}

func changeTreasurer(ctx context.Context, rawAddr string, grant bool) error {
	addr, err := parseAddressArg(rawAddr)
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}

	if grant {
		err = c.GrantTreasurer(ctx, addr)
	} else {
		err = c.RevokeTreasurer(ctx, addr)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Treasurer role updated for %s\n", addr)
	return nil
}
