package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
	"github.com/abya-university/ABYA-Ecosystem-sub001/wallet"
)

var keygenOut string

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a secp256k1 account key",
	Long: `Generate a new account key, write it as hex to --out and print its
address. Existing files are never overwritten.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := generateKey(keygenOut); err != nil {
			logx.Error("KEYGEN", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(&keygenOut, "out", "o", "keys/account.key", "file to write the private key to")
}

func generateKey(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("key file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	w, err := wallet.NewWallet()
	if err != nil {
		return err
	}
	if err := w.Save(path); err != nil {
		return fmt.Errorf("failed to save key: %w", err)
	}
	fmt.Printf("Address: %s\nKey file: %s\n", w.Address, path)
	return nil
}
