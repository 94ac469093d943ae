// Package testutil holds shared fixtures and mocks for the suite's tests:
// canned markets and orderbooks, an httptest exchange server, and
// in-memory fakes for the recorder and LLM backend.
package testutil

import (
	"time"

	"kalshi-alpha/pkg/types"
)

// TestMarket creates an open market with the given ticker and prices.
func TestMarket(ticker, title string, yesBid, noBid int) types.Market {
	return types.Market{
		Ticker:   ticker,
		Title:    title,
		Status:   "open",
		YesBid:   yesBid,
		NoBid:    noBid,
		YesPrice: yesBid,
		Volume:   1000,
	}
}

// TestOrderbook creates a raw orderbook with one level per side.
// A price of 0 leaves that side empty.
func TestOrderbook(yesBid, noBid int) *types.RawOrderbook {
	book := &types.RawOrderbook{}
	if yesBid > 0 {
		book.Yes = [][]int{{yesBid, 100}}
	}
	if noBid > 0 {
		book.No = [][]int{{noBid, 80}}
	}
	return book
}

// TestSignal creates a signal for the given probabilities; the side
// follows the sign of the edge.
func TestSignal(ticker string, implied, fair float64) types.Signal {
	side := types.SideYes
	edge := fair - implied
	if edge < 0 {
		side = types.SideNo
		edge = -edge
	}
	return types.Signal{
		ID:                "test-" + ticker,
		Source:            types.SourceOrderbook,
		Ticker:            ticker,
		Side:              side,
		ImpliedProb:       implied,
		EstimatedFairProb: fair,
		Edge:              edge,
		Confidence:        0.5,
		Rationale:         "test signal",
		Timestamp:         time.Now().UTC(),
	}
}
