// Package orderbook implements the liquidity-void scanner: it walks the
// open-market pages, fetches each contract's book concurrently, and emits
// a YES-side signal wherever the gap between the best YES bid and the
// synthetic YES ask exceeds the configured threshold.
package orderbook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kalshi-alpha/internal/gateway"
	"kalshi-alpha/pkg/types"
)

const bookDepth = 10

// Exchange is the slice of the gateway the scanner depends on.
type Exchange interface {
	Markets(ctx context.Context, q gateway.MarketsQuery) (*types.MarketsPage, error)
	Orderbook(ctx context.Context, ticker string, depth int) (*types.RawOrderbook, error)
}

// Scanner scans open-market orderbooks for liquidity voids.
type Scanner struct {
	client      Exchange
	threshold   int // spread cutoff in cents
	marketLimit int // max markets scanned per cycle
	concurrency int // concurrent book fetches per page
	logger      *zap.Logger
}

// Config holds scanner configuration.
type Config struct {
	Client      Exchange
	Threshold   int
	MarketLimit int
	Concurrency int
	Logger      *zap.Logger
}

// New creates a liquidity-void scanner.
func New(cfg *Config) *Scanner {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 32
	}

	marketLimit := cfg.MarketLimit
	if marketLimit <= 0 {
		marketLimit = 200
	}

	return &Scanner{
		client:      cfg.Client,
		threshold:   cfg.Threshold,
		marketLimit: marketLimit,
		concurrency: concurrency,
		logger:      cfg.Logger,
	}
}

// Scan paginates through open markets and checks each book. Individual
// fetch failures are logged and dropped; a page-listing failure ends the
// scan with the signals gathered so far. Result order is not guaranteed.
func (s *Scanner) Scan(ctx context.Context) []types.Signal {
	start := time.Now()
	defer func() {
		ScanDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	var (
		signals []types.Signal
		cursor  string
		scanned int
	)

	for scanned < s.marketLimit {
		batch := s.marketLimit - scanned
		if batch > 100 {
			batch = 100
		}

		page, err := s.client.Markets(ctx, gateway.MarketsQuery{
			Status: "open",
			Limit:  batch,
			Cursor: cursor,
		})
		if err != nil {
			ScanErrorsTotal.Inc()
			s.logger.Warn("market-page-fetch-failed",
				zap.Error(err),
				zap.Int("scanned", scanned))
			break
		}
		if len(page.Markets) == 0 {
			break
		}

		signals = append(signals, s.scanPage(ctx, page.Markets)...)

		scanned += len(page.Markets)
		cursor = page.Cursor
		if cursor == "" {
			break
		}
	}

	SignalsEmittedTotal.Add(float64(len(signals)))
	s.logger.Info("orderbook-scan-complete",
		zap.Int("markets", scanned),
		zap.Int("signals", len(signals)))

	return signals
}

// scanPage fetches the books of one market page with bounded concurrency.
func (s *Scanner) scanPage(ctx context.Context, markets []types.Market) []types.Signal {
	var (
		mu      sync.Mutex
		signals []types.Signal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, market := range markets {
		ticker := market.Ticker
		g.Go(func() error {
			signal, err := s.scanMarket(gctx, ticker)
			if err != nil {
				MarketScanErrorsTotal.Inc()
				s.logger.Warn("orderbook-fetch-failed",
					zap.String("ticker", ticker),
					zap.Error(err))
				return nil // isolation: one bad market never aborts the page
			}
			if signal != nil {
				mu.Lock()
				signals = append(signals, *signal)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	return signals
}

// scanMarket checks a single contract for a liquidity void.
func (s *Scanner) scanMarket(ctx context.Context, ticker string) (*types.Signal, error) {
	raw, err := s.client.Orderbook(ctx, ticker, bookDepth)
	if err != nil {
		return nil, err
	}

	snap := ParseSnapshot(ticker, raw, time.Now().UTC())
	if snap == nil {
		return nil, nil
	}

	if snap.Crossed() {
		s.logger.Debug("crossed-book-discarded",
			zap.String("ticker", ticker),
			zap.Int("spread", snap.SpreadCents))
		return nil, nil
	}

	if snap.SpreadCents <= s.threshold {
		return nil, nil
	}

	implied := 0.5
	if snap.BestYesBid > 0 {
		implied = float64(snap.BestYesBid) / 100
	}
	fair := float64(snap.BestYesBid+snap.SyntheticYesAsk) / 200

	confidence := float64(snap.SpreadCents) / 10
	if confidence > 1.0 {
		confidence = 1.0
	}

	signal := &types.Signal{
		ID:                uuid.NewString(),
		Source:            types.SourceOrderbook,
		Ticker:            ticker,
		Side:              types.SideYes,
		ImpliedProb:       implied,
		EstimatedFairProb: fair,
		Edge:              fair - implied,
		Confidence:        confidence,
		Rationale: fmt.Sprintf(
			"Liquidity void: spread=%d¢ (YES bid=%d¢, synth ask=%d¢). Stink bid opportunity at %d¢.",
			snap.SpreadCents, snap.BestYesBid, snap.SyntheticYesAsk, snap.BestYesBid+1),
		Timestamp: snap.Timestamp,
	}

	s.logger.Debug("liquidity-void-detected",
		zap.String("ticker", ticker),
		zap.Int("spread", snap.SpreadCents),
		zap.Float64("edge", signal.Edge))

	return signal, nil
}
