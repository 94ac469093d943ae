// Package arbitrage compares the exchange's implied probabilities against
// an external reference venue and emits signals where the Kelly fraction
// on the observed edge clears the configured minimum. The external venue
// is treated as the fair-price oracle; that is a modeling choice, not a
// correctness claim.
package arbitrage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kalshi-alpha/internal/risk"
	"kalshi-alpha/pkg/types"
)

// MarketSource supplies the exchange's open markets. Satisfied by
// markets.Catalog.
type MarketSource interface {
	OpenMarkets(ctx context.Context) ([]types.Market, error)
}

// Scanner detects cross-venue mispricings.
type Scanner struct {
	markets  MarketSource
	external *ExternalClient
	edgeMin  float64 // minimum raw Kelly fraction to emit
	logger   *zap.Logger
}

// Config holds arbitrage scanner configuration.
type Config struct {
	Markets  MarketSource
	External *ExternalClient
	EdgeMin  float64
	Logger   *zap.Logger
}

// New creates a cross-venue arbitrage scanner.
func New(cfg *Config) *Scanner {
	return &Scanner{
		markets:  cfg.Markets,
		external: cfg.External,
		edgeMin:  cfg.EdgeMin,
		logger:   cfg.Logger,
	}
}

// Scan fetches both venues, matches pairs by title overlap, and emits one
// signal per pair whose Kelly fraction clears the minimum. Either venue
// failing ends the scan with whatever was gathered (usually nothing).
func (s *Scanner) Scan(ctx context.Context) []types.Signal {
	start := time.Now()
	defer func() {
		ScanDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	exchangeMarkets, err := s.markets.OpenMarkets(ctx)
	if err != nil {
		ScanErrorsTotal.Inc()
		s.logger.Warn("exchange-market-fetch-failed", zap.Error(err))
		return nil
	}

	externalMarkets, err := s.external.ActiveMarkets(ctx)
	if err != nil {
		ScanErrorsTotal.Inc()
		s.logger.Warn("external-market-fetch-failed", zap.Error(err))
		return nil
	}
	if len(externalMarkets) == 0 {
		s.logger.Info("no-external-markets")
		return nil
	}

	pairs := MatchPairs(exchangeMarkets, externalMarkets)
	PairsMatchedTotal.Add(float64(len(pairs)))

	var signals []types.Signal
	for _, pair := range pairs {
		signal := s.evaluatePair(pair)
		if signal != nil {
			signals = append(signals, *signal)
		}
	}

	SignalsEmittedTotal.Add(float64(len(signals)))
	s.logger.Info("arbitrage-scan-complete",
		zap.Int("pairs", len(pairs)),
		zap.Int("signals", len(signals)))

	return signals
}

// evaluatePair compares implied probabilities and applies the Kelly gate.
func (s *Scanner) evaluatePair(pair Pair) *types.Signal {
	exchangeProb := pair.Exchange.ImpliedYesProb()
	externalProb := pair.External.YesProb()

	edge := externalProb - exchangeProb

	var (
		side        types.Side
		p           float64
		marketPrice float64
	)
	switch {
	case edge > 0:
		side = types.SideYes
		p = externalProb
		marketPrice = exchangeProb
	case edge < 0:
		side = types.SideNo
		p = 1 - externalProb
		marketPrice = 1 - exchangeProb
		edge = -edge
	default:
		return nil
	}

	if marketPrice <= 0 || marketPrice >= 1 {
		return nil
	}

	b := 1/marketPrice - 1
	fStar := risk.Kelly(p, b)
	if fStar < s.edgeMin {
		return nil
	}

	confidence := fStar
	if confidence > 1.0 {
		confidence = 1.0
	}

	signal := &types.Signal{
		ID:                uuid.NewString(),
		Source:            types.SourceArbitrage,
		Ticker:            pair.Exchange.Ticker,
		Side:              side,
		ImpliedProb:       exchangeProb,
		EstimatedFairProb: externalProb,
		Edge:              edge,
		Confidence:        confidence,
		Rationale: fmt.Sprintf(
			"Cross-venue arb: exchange=%.2f vs external=%.2f, Kelly f*=%.3f",
			exchangeProb, externalProb, fStar),
		Timestamp: time.Now().UTC(),
	}

	s.logger.Debug("arb-signal",
		zap.String("ticker", signal.Ticker),
		zap.String("side", string(side)),
		zap.Float64("edge", edge),
		zap.Float64("kelly", fStar))

	return signal
}
