package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List or cancel resting orders",
	Long: `List resting portfolio orders. Use --cancel <id> to cancel one order
or --cancel-all to cancel every resting order.`,
	RunE: runOrders,
}

var (
	cancelOrderID string
	cancelAll     bool
)

func init() {
	rootCmd.AddCommand(ordersCmd)

	ordersCmd.Flags().StringVar(&cancelOrderID, "cancel", "", "Cancel one order by ID")
	ordersCmd.Flags().BoolVar(&cancelAll, "cancel-all", false, "Cancel all resting orders")
}

func runOrders(cmd *cobra.Command, args []string) error {
	client, err := newExchangeClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cancelAll {
		err = client.CancelAllOrders(ctx)
		if err != nil {
			return fmt.Errorf("cancel all orders: %w", err)
		}
		fmt.Println("All resting orders cancelled")
		return nil
	}

	if cancelOrderID != "" {
		err = client.CancelOrder(ctx, cancelOrderID)
		if err != nil {
			return fmt.Errorf("cancel order %s: %w", cancelOrderID, err)
		}
		fmt.Printf("Order %s cancelled\n", cancelOrderID)
		return nil
	}

	page, err := client.Orders(ctx, "")
	if err != nil {
		return fmt.Errorf("fetch orders: %w", err)
	}

	if len(page.Orders) == 0 {
		fmt.Println("No resting orders")
		return nil
	}

	for _, order := range page.Orders {
		price := order.YesPrice
		if order.Side == "no" {
			price = order.NoPrice
		}
		fmt.Printf("%-24s %-30s %s %s x%d @ %2d¢ (%d remaining) %s\n",
			order.OrderID, order.Ticker, order.Action, order.Side,
			order.Count, price, order.Remaining, order.Status)
	}

	return nil
}
