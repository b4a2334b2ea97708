package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/abya-university/ABYA-Ecosystem-sub001/client"
	"github.com/abya-university/ABYA-Ecosystem-sub001/common"
	"github.com/abya-university/ABYA-Ecosystem-sub001/jsonx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/wallet"
)

var rootCmd = &cobra.Command{
	Use:   "treasury",
	Short: "ABYA treasury node CLI",
	Long: `Command line interface for running an ABYA treasury node and for
calling its API: trustee management, funding requests, allocations,
reserve deposits and vesting schedules.`,
}

var clientConfig struct {
	Endpoint string
	KeyFile  string
	Timeout  time.Duration
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&clientConfig.Endpoint, "endpoint", "e", "http://localhost:8080", "treasury node API endpoint")
	rootCmd.PersistentFlags().StringVarP(&clientConfig.KeyFile, "key", "k", "", "private key file used to sign requests")
	rootCmd.PersistentFlags().DurationVar(&clientConfig.Timeout, "timeout", 15*time.Second, "request timeout")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}

// newClient builds an API client; signing commands pass needKey
func newClient(needKey bool) (*client.TreasuryClient, error) {
	var signer *wallet.Wallet
	if clientConfig.KeyFile != "" {
		w, err := wallet.LoadWallet(clientConfig.KeyFile)
		if err != nil {
			return nil, err
		}
		signer = w
	} else if needKey {
		return nil, fmt.Errorf("--key is required for this command")
	}
	return client.NewClient(client.Config{Endpoint: clientConfig.Endpoint, Timeout: clientConfig.Timeout}, signer)
}

func printJSON(v interface{}) error {
	data, err := jsonx.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// parseAmount validates an amount locally before it is sent
func parseAmount(s string) (string, error) {
	raw := strings.ReplaceAll(s, "_", "")
	amount, err := uint256.FromDecimal(raw)
	if err != nil {
		return "", fmt.Errorf("could not parse amount %q: %w", s, err)
	}
	return amount.Dec(), nil
}

func parseAddressArg(s string) (common.Address, error) {
	addr, err := common.ParseAddress(s)
	if err != nil {
		return "", fmt.Errorf("invalid address: %w", err)
	}
	return addr, nil
}
