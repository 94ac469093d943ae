package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show portfolio balance and positions",
	Long: `Display the exchange cash balance and, optionally, open contract
positions.`,
	RunE: runBalance,
}

var showPositions bool

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().BoolVarP(&showPositions, "positions", "p", true, "Show open positions")
}

func runBalance(cmd *cobra.Command, args []string) error {
	client, err := newExchangeClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	balance, err := client.Balance(ctx)
	if err != nil {
		return fmt.Errorf("fetch balance: %w", err)
	}

	fmt.Printf("=== Portfolio ===\n\n")
	fmt.Printf("Cash balance: $%.2f\n", balance.USD())

	if showPositions {
		fmt.Printf("\n=== Open Positions ===\n\n")

		page, err := client.Positions(ctx, "")
		if err != nil {
			return fmt.Errorf("fetch positions: %w", err)
		}

		if len(page.MarketPositions) == 0 {
			fmt.Println("No open positions")
			return nil
		}

		for _, pos := range page.MarketPositions {
			side := "YES"
			count := pos.Position
			if count < 0 {
				side = "NO"
				count = -count
			}
			fmt.Printf("%-30s %s x%d exposure=$%.2f realized=$%.2f\n",
				pos.Ticker, side, count,
				float64(pos.MarketExposed)/100, float64(pos.RealizedPnl)/100)
		}
	}

	return nil
}
