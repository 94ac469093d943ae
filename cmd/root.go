package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "kalshi-alpha",
	Short: "Prediction-market signal and execution engine",
	Long: `Automated trading-signal pipeline for a binary-outcome prediction
market exchange. Three concurrent signal producers (orderbook-void
detector, news/LLM analyzer, cross-venue arbitrageur) feed a fee-aware
Kelly sizer that logs intended trades in paper mode or submits signed
limit orders in live mode.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
