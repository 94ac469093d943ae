package orderbook

import (
	"time"

	"kalshi-alpha/pkg/types"
)

// ParseSnapshot reduces a raw orderbook to its top-of-book view.
// Returns nil when both sides are empty.
//
// The synthetic YES ask comes from the NO side: to buy YES you can
// equivalently sell NO at the best NO bid, so the YES-equivalent price is
// (100 - best NO bid), or 100 when the NO side is empty.
func ParseSnapshot(ticker string, raw *types.RawOrderbook, now time.Time) *types.OrderbookSnapshot {
	if raw == nil || (len(raw.Yes) == 0 && len(raw.No) == 0) {
		return nil
	}

	bestYesBid := bestBid(raw.Yes)
	bestNoBid := bestBid(raw.No)

	syntheticYesAsk := 100
	if bestNoBid > 0 {
		syntheticYesAsk = 100 - bestNoBid
	}

	return &types.OrderbookSnapshot{
		Ticker:          ticker,
		BestYesBid:      bestYesBid,
		BestNoBid:       bestNoBid,
		SyntheticYesAsk: syntheticYesAsk,
		SpreadCents:     syntheticYesAsk - bestYesBid,
		Timestamp:       now,
	}
}

// bestBid extracts the best (highest) bid from a best-first price ladder
// of [price_cents, quantity] pairs. Malformed levels are skipped.
func bestBid(levels [][]int) int {
	for _, level := range levels {
		if len(level) >= 2 && level[0] > 0 {
			return level[0]
		}
	}
	return 0
}
