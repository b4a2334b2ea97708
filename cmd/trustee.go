package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

var trusteeCmd = &cobra.Command{
	Use:   "trustee",
	Short: "Trustee registry commands",
	Long:  `Add, revoke and list the trustees whose approvals execute funding requests. Changes need an admin key.`,
}

var addTrusteeCmd = &cobra.Command{
	Use:   "add <address>",
	Short: "Add a trustee (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := changeTrustee(cmd.Context(), args[0], true); err != nil {
			logx.Error("TRUSTEE CLI", err)
		}
	},
}

var revokeTrusteeCmd = &cobra.Command{
	Use:   "revoke <address>",
	Short: "Revoke a trustee (admin)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := changeTrustee(cmd.Context(), args[0], false); err != nil {
			logx.Error("TRUSTEE CLI", err)
		}
	},
}

var listTrusteesCmd = &cobra.Command{
	Use:   "list",
	Short: "List trustees",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listTrustees(cmd.Context(), false); err != nil {
			logx.Error("TRUSTEE CLI", err)
		}
	},
}

var countTrusteesCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of trustees",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listTrustees(cmd.Context(), true); err != nil {
			logx.Error("TRUSTEE CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(trusteeCmd)
	trusteeCmd.AddCommand(addTrusteeCmd)
	trusteeCmd.AddCommand(revokeTrusteeCmd)
	trusteeCmd.AddCommand(listTrusteesCmd)
	trusteeCmd.AddCommand(countTrusteesCmd)
}

func changeTrustee(ctx context.Context, rawAddr string, add bool) error {
	addr, err := parseAddressArg(rawAddr)
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}

	if add {
		if err := c.AddTrustee(ctx, addr); err != nil {
			return err
		}
		fmt.Printf("Trustee %s added\n", addr)
		return nil
	}
	if err := c.RevokeTrustee(ctx, addr); err != nil {
		return err
	}
	fmt.Printf("Trustee %s revoked\n", addr)
	return nil
}

func listTrustees(ctx context.Context, countOnly bool) error {
	c, err := newClient(false)
	if err != nil {
		return err
	}
	resp, err := c.ListTrustees(ctx)
	if err != nil {
		return err
	}
	if countOnly {
		fmt.Println(resp.Count)
		return nil
	}
	for _, t := range resp.Trustees {
		fmt.Println(t)
	}
	return nil
}
