// Package main provides the receiptsplit server and command line tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/receiptsplit/internal/config"
	"github.com/mmynk/receiptsplit/pkg/logging"
)

var (
	configFile string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "receiptsplit",
	Short: "Split shared receipts item by item",
	Long: `receiptsplit extracts line items from receipt photos and PDFs, lets a
group assign each item to the people who shared it, and computes who owes what
to the cent.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()
		loaded, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logging.Setup(cfg.Log.Level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: ./config.yaml or $HOME/.receiptsplit/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(sanitizeCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(settleCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(modelsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
