package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

var allocateCategory string

var allocateCmd = &cobra.Command{
	Use:   "allocate <recipient> <amount>",
	Short: "Allocate funds from a category (treasurer)",
	Long: `Allocate <amount> to <recipient> under --category. Allocations count
against the category and the pool supply and credit the recipient.

Examples:
  allocate 0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359 2_500 --category marketing --key keys/treasurer.key`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := allocate(cmd.Context(), args[0], args[1]); err != nil {
			logx.Error("POOL CLI", err)
		}
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit <amount>",
	Short: "Deposit into the reserve (admin or treasurer)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := deposit(cmd.Context(), args[0]); err != nil {
			logx.Error("POOL CLI", err)
		}
	},
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Show pool supply, category spend and reserve",
	Run: func(cmd *cobra.Command, args []string) {
		if err := showPool(cmd.Context()); err != nil {
			logx.Error("POOL CLI", err)
		}
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance <address>",
	Short: "Show the payout balance of an account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showBalance(cmd.Context(), args[0]); err != nil {
			logx.Error("POOL CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(poolCmd)
	rootCmd.AddCommand(balanceCmd)

	allocateCmd.Flags().StringVarP(&allocateCategory, "category", "c", "", "allocation category")
	_ = allocateCmd.MarkFlagRequired("category")
}

func allocate(ctx context.Context, rawRecipient, rawAmount string) error {
	recipient, err := parseAddressArg(rawRecipient)
	if err != nil {
		return err
	}
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}
	pool, err := c.AllocateFunds(ctx, recipient, amount, allocateCategory)
	if err != nil {
		return err
	}
	fmt.Printf("Allocated %s to %s from %s\n", amount, recipient, allocateCategory)
	return printJSON(pool)
}

func deposit(ctx context.Context, rawAmount string) error {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}
	pool, err := c.DepositReserve(ctx, amount)
	if err != nil {
		return err
	}
	fmt.Printf("Reserve is now %s\n", pool.ReserveFunds.Dec())
	return nil
}

func showPool(ctx context.Context) error {
	c, err := newClient(false)
	if err != nil {
		return err
	}
	pool, err := c.ViewPoolDetails(ctx)
	if err != nil {
		return err
	}
	return printJSON(pool)
}

func showBalance(ctx context.Context, rawAddr string) error {
	addr, err := parseAddressArg(rawAddr)
	if err != nil {
		return err
	}
	c, err := newClient(false)
	if err != nil {
		return err
	}
	account, err := c.GetAccount(ctx, addr)
	if err != nil {
		return err
	}
	fmt.Println(account.Balance.Dec())
	for _, role := range account.Roles {
		fmt.Println("role:", role)
	}
	return nil
}
