// Package storage persists executed trade decisions. Paper trades go to
// an append-only JSONL journal; live trades are echoed to the structured
// log for audit.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"kalshi-alpha/pkg/types"
)

const journalFileName = "paper_trades.jsonl"

// TradeRecord is one line in the journal.
type TradeRecord struct {
	Timestamp       string  `json:"timestamp"`
	Ticker          string  `json:"ticker"`
	Side            string  `json:"side"`
	Contracts       int     `json:"contracts"`
	LimitPriceCents int     `json:"limit_price_cents"`
	FillPriceCents  int     `json:"fill_price_cents"`
	KellyFStar      float64 `json:"kelly_f_star"`
	PositionUSD     float64 `json:"position_usd"`
	NetEV           float64 `json:"net_ev"`
	Source          string  `json:"source"`
	Rationale       string  `json:"rationale"`
	Paper           bool    `json:"paper"`
}

// Recorder persists one executed trade decision.
type Recorder interface {
	Record(order *types.TradeOrder) error
	Close() error
}

// Journal appends trade records to a JSONL file. Safe for concurrent use;
// a single mutex serializes writes so lines never interleave.
type Journal struct {
	mu     sync.Mutex
	file   *os.File
	logger *zap.Logger
}

// NewJournal opens (creating if needed) the journal file under dir.
func NewJournal(dir string, logger *zap.Logger) (*Journal, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	path := filepath.Join(dir, journalFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	logger.Info("journal-opened", zap.String("path", path))

	return &Journal{file: file, logger: logger}, nil
}

// Record appends one trade as a single JSON line.
func (j *Journal) Record(order *types.TradeOrder) error {
	record := recordFromOrder(order)

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal trade record: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	_, err = j.file.Write(append(line, '\n'))
	if err != nil {
		return fmt.Errorf("append trade record: %w", err)
	}

	TradesRecordedTotal.Inc()
	return nil
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	err := j.file.Sync()
	if err != nil {
		j.logger.Warn("journal-sync-failed", zap.Error(err))
	}
	return j.file.Close()
}

func recordFromOrder(order *types.TradeOrder) TradeRecord {
	return TradeRecord{
		Timestamp:       order.Timestamp.UTC().Format(time.RFC3339),
		Ticker:          order.Ticker,
		Side:            string(order.Side),
		Contracts:       order.Contracts,
		LimitPriceCents: order.LimitPriceCents,
		FillPriceCents:  order.FillPriceCents,
		KellyFStar:      order.Kelly.OptimalFraction,
		PositionUSD:     order.Kelly.PositionSizeUSD,
		NetEV:           order.Kelly.NetEV,
		Source:          string(order.Signal.Source),
		Rationale:       order.Signal.Rationale,
		Paper:           order.Paper,
	}
}

// LogRecorder echoes live trades to the structured log. Order state
// already lives on the exchange, so no local persistence is needed.
type LogRecorder struct {
	logger *zap.Logger
}

// NewLogRecorder creates a log-only recorder for live mode.
func NewLogRecorder(logger *zap.Logger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

// Record logs the trade at info level.
func (r *LogRecorder) Record(order *types.TradeOrder) error {
	r.logger.Info("trade-recorded",
		zap.String("ticker", order.Ticker),
		zap.String("side", string(order.Side)),
		zap.Int("contracts", order.Contracts),
		zap.Int("limit-price-cents", order.LimitPriceCents),
		zap.Float64("position-usd", order.Kelly.PositionSizeUSD),
		zap.String("order-id", order.OrderID),
		zap.String("source", string(order.Signal.Source)))
	TradesRecordedTotal.Inc()
	return nil
}

// Close is a no-op.
func (r *LogRecorder) Close() error { return nil }
