package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List open markets on the exchange",
	Long: `Fetch and display open markets with their current YES/NO prices.
Use --limit to bound the listing and --keyword to filter by ticker or
title substring.`,
	RunE: runMarkets,
}

var (
	marketsLimit   int
	marketsKeyword string
)

func init() {
	rootCmd.AddCommand(marketsCmd)

	marketsCmd.Flags().IntVarP(&marketsLimit, "limit", "l", 50, "Maximum markets to list")
	marketsCmd.Flags().StringVarP(&marketsKeyword, "keyword", "k", "", "Filter by ticker/title substring")
}

func runMarkets(cmd *cobra.Command, args []string) error {
	client, err := newExchangeClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	markets, err := client.OpenMarkets(ctx, marketsLimit)
	if err != nil {
		return fmt.Errorf("fetch open markets: %w", err)
	}

	shown := 0
	for _, m := range markets {
		if marketsKeyword != "" && !containsFold(m.Ticker, marketsKeyword) && !containsFold(m.Title, marketsKeyword) {
			continue
		}
		fmt.Printf("%-30s yes=%2d¢ no=%2d¢ vol=%-8d %s\n",
			m.Ticker, m.YesBid, m.NoBid, m.Volume, m.Title)
		shown++
	}

	fmt.Printf("\n%d markets shown\n", shown)
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
