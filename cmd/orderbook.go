package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"kalshi-alpha/internal/orderbook"
)

var orderbookCmd = &cobra.Command{
	Use:   "orderbook <ticker>",
	Short: "Show the orderbook for one contract",
	Long: `Fetch and display the top of book for a contract, including the
synthetic YES ask derived from the NO side and the resulting spread.`,
	Args: cobra.ExactArgs(1),
	RunE: runOrderbook,
}

var orderbookDepth int

func init() {
	rootCmd.AddCommand(orderbookCmd)

	orderbookCmd.Flags().IntVarP(&orderbookDepth, "depth", "d", 10, "Book depth to fetch")
}

func runOrderbook(cmd *cobra.Command, args []string) error {
	ticker := args[0]

	client, err := newExchangeClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	raw, err := client.Orderbook(ctx, ticker, orderbookDepth)
	if err != nil {
		return fmt.Errorf("fetch orderbook: %w", err)
	}

	fmt.Printf("=== %s ===\n\n", ticker)
	fmt.Println("YES bids:")
	printLevels(raw.Yes)
	fmt.Println("NO bids:")
	printLevels(raw.No)

	snap := orderbook.ParseSnapshot(ticker, raw, time.Now().UTC())
	if snap == nil {
		fmt.Println("\nBook is empty on both sides")
		return nil
	}

	fmt.Printf("\nbest YES bid:      %2d¢\n", snap.BestYesBid)
	fmt.Printf("best NO bid:       %2d¢\n", snap.BestNoBid)
	fmt.Printf("synthetic YES ask: %2d¢\n", snap.SyntheticYesAsk)
	fmt.Printf("spread:            %2d¢\n", snap.SpreadCents)
	if snap.Crossed() {
		fmt.Println("WARNING: book is crossed")
	}

	return nil
}

func printLevels(levels [][]int) {
	if len(levels) == 0 {
		fmt.Println("  (empty)")
		return
	}
	for _, level := range levels {
		if len(level) < 2 {
			continue
		}
		fmt.Printf("  %2d¢ x %d\n", level[0], level[1])
	}
}
