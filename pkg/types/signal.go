// Package types holds the domain model shared by all suite components:
// contract sides, trading signals, orderbook snapshots, Kelly sizing
// results, trade orders, and the exchange wire types.
package types

import (
	"time"
)

// Side identifies a half of a binary contract.
// Buying YES at price p is equivalent to selling NO at (100 - p).
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Opposite returns the other half of the contract.
func (s Side) Opposite() Side {
	if s == SideYes {
		return SideNo
	}
	return SideYes
}

// SignalSource identifies which producer emitted a signal.
type SignalSource string

const (
	SourceOrderbook SignalSource = "orderbook"
	SourceNLP       SignalSource = "nlp"
	SourceArbitrage SignalSource = "arbitrage"
)

// Signal is an actionable opinion emitted by a signal producer.
//
// Invariant: for a YES signal EstimatedFairProb >= ImpliedProb; for a NO
// signal the inverse. Edge = |fair - implied|.
type Signal struct {
	ID                string       `json:"id"`
	Source            SignalSource `json:"source"`
	Ticker            string       `json:"ticker"`
	Side              Side         `json:"side"`
	ImpliedProb       float64      `json:"implied_prob"`        // 0-1, current market YES probability
	EstimatedFairProb float64      `json:"estimated_fair_prob"` // 0-1, producer's estimate of true YES probability
	Edge              float64      `json:"edge"`                // |fair - implied|
	Confidence        float64      `json:"confidence"`          // 0-1
	Rationale         string       `json:"rationale"`
	Timestamp         time.Time    `json:"timestamp"`
}

// OrderbookSnapshot is the top-of-book view of one contract at one instant.
// All prices are in cents. A zero bid means the side is empty.
type OrderbookSnapshot struct {
	Ticker          string    `json:"ticker"`
	BestYesBid      int       `json:"best_yes_bid"`
	BestNoBid       int       `json:"best_no_bid"`
	SyntheticYesAsk int       `json:"synthetic_yes_ask"` // 100 - best NO bid, or 100 when NO side empty
	SpreadCents     int       `json:"spread_cents"`      // synthetic YES ask - best YES bid
	Timestamp       time.Time `json:"timestamp"`
}

// Crossed reports whether the book is crossed (negative spread). Crossed
// books are malformed and must be discarded by callers.
func (s *OrderbookSnapshot) Crossed() bool {
	return s.SpreadCents < 0
}

// KellyResult is the output of the fee-adjusted Kelly sizing calculation.
type KellyResult struct {
	OptimalFraction float64 `json:"optimal_fraction"`  // raw f*, may be negative
	PositionSizeUSD float64 `json:"position_size_usd"` // >= 0, capped at max position
	NetEV           float64 `json:"net_ev"`            // expected value per dollar risked, after fees
	ShouldTrade     bool    `json:"should_trade"`
}

// TradeOrder is an intent to place a limit order, either live or paper.
type TradeOrder struct {
	ID              string      `json:"id"`
	Ticker          string      `json:"ticker"`
	Side            Side        `json:"side"`
	Contracts       int         `json:"contracts"`         // >= 1
	LimitPriceCents int         `json:"limit_price_cents"` // 1-99
	Signal          Signal      `json:"signal"`
	Kelly           KellyResult `json:"kelly"`
	Paper           bool        `json:"paper"`
	OrderID         string      `json:"order_id,omitempty"`         // set post-submission (live)
	FillPriceCents  int         `json:"fill_price_cents,omitempty"` // simulated fill (paper)
	Submitted       bool        `json:"submitted"`
	Timestamp       time.Time   `json:"timestamp"`
}
