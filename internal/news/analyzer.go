// Package news transforms primary-source feeds into ticker-scoped
// probability-shift signals: feed fetch, LLM classification, threshold
// filter, and keyword resolution against the open-market catalog.
package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"kalshi-alpha/pkg/types"
)

// headlineBytes is how much of a feed is quoted in the LLM prompt.
const headlineBytes = 500

const systemPrompt = `You are a quantitative analyst for a prediction-market trading desk.

Given a news headline or data release, you must:
1. Determine if it is relevant to any prediction-market contract on the exchange.
2. If relevant, output a JSON array of objects with these fields:
   - "ticker_keyword": a short keyword that would appear in the contract ticker
     (e.g. "CPI", "FED-RATE", "HURRICANE", "TEMP").
   - "side": "yes" or "no" - the direction the news pushes the probability.
   - "prob_shift": a float between -1.0 and 1.0 representing the estimated
     absolute shift in the YES probability (e.g. +0.15 means +15 pp).
   - "confidence": 0.0-1.0 how confident you are.
   - "rationale": one sentence.
3. If not relevant, return an empty JSON array: []

Return ONLY valid JSON. No markdown fences.`

// rawItem is one entry of the LLM's JSON-array response.
type rawItem struct {
	TickerKeyword string  `json:"ticker_keyword"`
	Side          string  `json:"side"`
	ProbShift     float64 `json:"prob_shift"`
	Confidence    float64 `json:"confidence"`
	Rationale     string  `json:"rationale"`
}

// Resolver maps a keyword to open markets. Satisfied by markets.Catalog.
type Resolver interface {
	MatchKeyword(ctx context.Context, keyword string) ([]types.Market, error)
}

// Analyzer runs the feed-to-signal pipeline once per cycle.
type Analyzer struct {
	completer Completer
	fetcher   *Fetcher
	resolver  Resolver
	feeds     map[string]string
	shiftMin  float64
	logger    *zap.Logger
}

// Config holds analyzer configuration.
type Config struct {
	Completer Completer
	Fetcher   *Fetcher
	Resolver  Resolver
	Feeds     map[string]string // defaults to DefaultFeeds when nil
	ShiftMin  float64
	Logger    *zap.Logger
}

// New creates a news analyzer.
func New(cfg *Config) *Analyzer {
	feeds := cfg.Feeds
	if feeds == nil {
		feeds = DefaultFeeds()
	}

	return &Analyzer{
		completer: cfg.Completer,
		fetcher:   cfg.Fetcher,
		resolver:  cfg.Resolver,
		feeds:     feeds,
		shiftMin:  cfg.ShiftMin,
		logger:    cfg.Logger,
	}
}

// Scan fetches all feeds, classifies each through the LLM, and emits one
// signal per matched ticker. Every failure mode drops only the affected
// feed or item.
func (a *Analyzer) Scan(ctx context.Context) []types.Signal {
	if a.completer == nil {
		a.logger.Info("news-analyzer-disabled", zap.String("reason", "no LLM backend configured"))
		return nil
	}

	feeds := a.fetcher.FetchAll(ctx, a.feeds)

	var signals []types.Signal
	for name, text := range feeds {
		signals = append(signals, a.analyzeFeed(ctx, name, text)...)
	}

	SignalsEmittedTotal.Add(float64(len(signals)))
	a.logger.Info("news-scan-complete",
		zap.Int("feeds", len(feeds)),
		zap.Int("signals", len(signals)))

	return signals
}

// analyzeFeed classifies one feed and resolves its items to tickers.
func (a *Analyzer) analyzeFeed(ctx context.Context, feedName, text string) []types.Signal {
	headline := truncate(text, headlineBytes)
	prompt := fmt.Sprintf("[%s] %s", feedName, headline)

	raw, err := a.completer.Complete(ctx, systemPrompt, prompt)
	if err != nil {
		LLMErrorsTotal.Inc()
		a.logger.Warn("llm-analysis-failed",
			zap.String("feed", feedName),
			zap.Error(err))
		return nil
	}

	items, err := parseItems(raw)
	if err != nil {
		LLMErrorsTotal.Inc()
		a.logger.Warn("llm-returned-non-json",
			zap.String("feed", feedName),
			zap.String("raw", truncate(raw, 200)))
		return nil
	}

	var signals []types.Signal
	for _, item := range items {
		if item.TickerKeyword == "" {
			continue
		}
		if abs(item.ProbShift) < a.shiftMin {
			a.logger.Debug("sub-threshold-shift",
				zap.String("keyword", item.TickerKeyword),
				zap.Float64("shift", item.ProbShift))
			continue
		}

		matched, err := a.resolver.MatchKeyword(ctx, item.TickerKeyword)
		if err != nil {
			a.logger.Warn("ticker-resolution-failed",
				zap.String("keyword", item.TickerKeyword),
				zap.Error(err))
			continue
		}
		if len(matched) == 0 {
			a.logger.Debug("no-matching-tickers",
				zap.String("keyword", item.TickerKeyword))
			continue
		}

		side := types.SideYes
		if item.ProbShift < 0 {
			side = types.SideNo
		}

		for _, market := range matched {
			signals = append(signals, types.Signal{
				ID:     uuid.NewString(),
				Source: types.SourceNLP,
				Ticker: market.Ticker,
				Side:   side,
				// Provisional midpoint; the risk layer sizes NLP signals
				// against this rather than the live book.
				ImpliedProb:       0.5,
				EstimatedFairProb: 0.5 + item.ProbShift,
				Edge:              abs(item.ProbShift),
				Confidence:        item.Confidence,
				Rationale:         fmt.Sprintf("[%s] %s", feedName, item.Rationale),
				Timestamp:         time.Now().UTC(),
			})
		}
	}

	return signals
}

// parseItems decodes the LLM response, accepting either a JSON array or a
// single JSON object (wrapped into a one-element slice).
func parseItems(raw string) ([]rawItem, error) {
	trimmed := strings.TrimSpace(raw)

	var items []rawItem
	if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
		return items, nil
	}

	var single rawItem
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		return []rawItem{single}, nil
	}

	return nil, &types.LLMError{Message: "response is not a JSON array"}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
