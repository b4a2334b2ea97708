package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/types"
)

var (
	fundingPurpose string
	fundingStatus  string
)

var fundingCmd = &cobra.Command{
	Use:   "funding",
	Short: "Funding request commands",
	Long: `Create, approve and inspect funding requests. A request executes once
enough trustees approve it and expires if it is not approved in time.`,
}

var requestFundingCmd = &cobra.Command{
	Use:   "request <recipient> <amount>",
	Short: "Create a funding request",
	Long: `Create a funding request paying <amount> to <recipient> once approved.

Examples:
  funding request 0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359 1_000 --purpose "course grants" --key keys/me.key`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := requestFunding(cmd.Context(), args[0], args[1]); err != nil {
			logx.Error("FUNDING CLI", err)
		}
	},
}

var approveFundingCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve a funding request (trustee)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := approveFunding(cmd.Context(), args[0]); err != nil {
			logx.Error("FUNDING CLI", err)
		}
	},
}

var getFundingCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a funding request",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := getFunding(cmd.Context(), args[0]); err != nil {
			logx.Error("FUNDING CLI", err)
		}
	},
}

var listFundingCmd = &cobra.Command{
	Use:   "list",
	Short: "List funding requests",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listFunding(cmd.Context(), fundingStatus); err != nil {
			logx.Error("FUNDING CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(fundingCmd)
	fundingCmd.AddCommand(requestFundingCmd)
	fundingCmd.AddCommand(approveFundingCmd)
	fundingCmd.AddCommand(getFundingCmd)
	fundingCmd.AddCommand(listFundingCmd)

	requestFundingCmd.Flags().StringVar(&fundingPurpose, "purpose", "", "what the funds are for")
	listFundingCmd.Flags().StringVarP(&fundingStatus, "status", "s", "", "filter: PENDING, PARTIALLY_APPROVED, EXECUTED or EXPIRED")
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func requestFunding(ctx context.Context, rawRecipient, rawAmount string) error {
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

	view, err := c.RequestFunding(ctx, recipient, amount, fundingPurpose)
	if err != nil {
		return err
	}
	fmt.Printf("Funding request %d created\n", view.ID)
	return printJSON(view)
}

func approveFunding(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}

	view, err := c.ApproveFundingRequest(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Request %d: %d/%d approvals, status %s\n", id, view.ApprovalCount, view.Required, view.Status)
	return nil
}

func getFunding(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	c, err := newClient(false)
	if err != nil {
		return err
	}
	view, err := c.GetFundingRequest(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(view)
}

func listFunding(ctx context.Context, rawStatus string) error {
	var status types.RequestStatus
	if rawStatus != "" {
		parsed, ok := types.ParseRequestStatus(rawStatus)
		if !ok {
			return fmt.Errorf("unknown status %q", rawStatus)
		}
		status = parsed
	}
	c, err := newClient(false)
	if err != nil {
		return err
	}
	views, err := c.ListFundingRequests(ctx, status)
	if err != nil {
		return err
	}
	for _, v := range views {
		fmt.Printf("%d\t%s\t%s\t%s\t%d/%d\n", v.ID, v.Status, v.Recipient, v.Amount.Dec(), v.ApprovalCount, v.Required)
	}
	return nil
}
