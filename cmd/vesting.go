package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abya-university/ABYA-Ecosystem-sub001/api"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

var vestingConfig struct {
	Start     string
	Cliff     time.Duration
	Duration  time.Duration
	Revocable bool
}

var vestingCmd = &cobra.Command{
	Use:   "vesting",
	Short: "Vesting schedule commands",
}

var createVestingCmd = &cobra.Command{
	Use:   "create <beneficiary> <total>",
	Short: "Lock reserve funds in a vesting schedule (admin or treasurer)",
	Long: `Create a linear vesting schedule. Nothing vests before start+cliff and
everything has vested at start+duration.

Examples:
  vesting create 0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359 12_000 --duration 8760h --cliff 720h --revocable --key keys/treasurer.key`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := createVesting(cmd.Context(), args[0], args[1]); err != nil {
			logx.Error("VESTING CLI", err)
		}
	},
}

var getVestingCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a vesting schedule",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := getVesting(cmd.Context(), args[0]); err != nil {
			logx.Error("VESTING CLI", err)
		}
	},
}

var releaseVestingCmd = &cobra.Command{
	Use:   "release <id>",
	Short: "Release vested tokens (beneficiary)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := releaseVesting(cmd.Context(), args[0]); err != nil {
			logx.Error("VESTING CLI", err)
		}
	},
}

var revokeVestingCmd = &cobra.Command{
	Use:   "revoke <id>",
	Short: "Revoke a revocable schedule (admin or treasurer)",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := revokeVesting(cmd.Context(), args[0]); err != nil {
			logx.Error("VESTING CLI", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(vestingCmd)
	vestingCmd.AddCommand(createVestingCmd)
	vestingCmd.AddCommand(getVestingCmd)
	vestingCmd.AddCommand(releaseVestingCmd)
	vestingCmd.AddCommand(revokeVestingCmd)

	createVestingCmd.Flags().StringVar(&vestingConfig.Start, "start", "", "start time in RFC 3339, default now")
	createVestingCmd.Flags().DurationVar(&vestingConfig.Cliff, "cliff", 0, "cliff after start")
	createVestingCmd.Flags().DurationVar(&vestingConfig.Duration, "duration", 0, "total vesting duration")
	createVestingCmd.Flags().BoolVar(&vestingConfig.Revocable, "revocable", false, "allow the schedule to be revoked")
	_ = createVestingCmd.MarkFlagRequired("duration")
}

func createVesting(ctx context.Context, rawBeneficiary, rawTotal string) error {
	beneficiary, err := parseAddressArg(rawBeneficiary)
	if err != nil {
		return err
	}
	total, err := parseAmount(rawTotal)
	if err != nil {
		return err
	}
	if vestingConfig.Start != "" {
		if _, err := time.Parse(time.RFC3339, vestingConfig.Start); err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}

	view, err := c.CreateVestingSchedule(ctx, api.VestingRequest{
		Beneficiary:     beneficiary.String(),
		Total:           total,
		Start:           vestingConfig.Start,
		CliffSeconds:    int64(vestingConfig.Cliff / time.Second),
		DurationSeconds: int64(vestingConfig.Duration / time.Second),
		Revocable:       vestingConfig.Revocable,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Vesting schedule %d created\n", view.ID)
	return printJSON(view)
}

func getVesting(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	c, err := newClient(false)
	if err != nil {
		return err
	}
	view, err := c.GetVestingSchedule(ctx, id)
	if err != nil {
		return err
	}
	return printJSON(view)
}

func releaseVesting(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}
	resp, err := c.ReleaseVested(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Released %s from schedule %d\n", resp.Amount.Dec(), id)
	return nil
}

func revokeVesting(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	c, err := newClient(true)
	if err != nil {
		return err
	}
	resp, err := c.RevokeVesting(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Schedule %d revoked, %s returned to reserve\n", id, resp.Amount.Dec())
	return nil
}
