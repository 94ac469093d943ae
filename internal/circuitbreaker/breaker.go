// Package circuitbreaker halts live order submission when the exchange
// cash balance falls below a dynamic threshold derived from recent trade
// sizes. Hysteresis keeps the breaker from flapping around the threshold.
package circuitbreaker

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"kalshi-alpha/pkg/types"
)

const tradeWindowSize = 20

// BalanceFetcher reads the portfolio cash balance. Satisfied by
// gateway.Client and test mocks.
type BalanceFetcher interface {
	Balance(ctx context.Context) (*types.Balance, error)
}

// Breaker monitors the exchange balance and controls live execution.
type Breaker struct {
	enabled atomic.Bool

	checkInterval   time.Duration
	balances        BalanceFetcher
	logger          *zap.Logger
	tradeMultiplier float64 // multiplier on avg trade size
	minAbsolute     float64 // absolute minimum balance in USD
	hysteresisRatio float64 // re-enable at ratio * disable threshold

	mu               sync.RWMutex
	lastBalance      float64
	lastCheck        time.Time
	recentTrades     []float64
	disableThreshold float64
	enableThreshold  float64
}

// Config holds circuit breaker configuration.
type Config struct {
	CheckInterval   time.Duration
	TradeMultiplier float64
	MinAbsolute     float64
	HysteresisRatio float64
	Balances        BalanceFetcher
	Logger          *zap.Logger
}

// Status holds current breaker state for debugging and HTTP endpoints.
type Status struct {
	Enabled          bool
	LastBalance      float64
	LastCheck        time.Time
	DisableThreshold float64
	EnableThreshold  float64
	AvgTradeSize     float64
	RecentTradeCount int
}

// New creates a balance circuit breaker. It starts enabled.
func New(cfg *Config) (*Breaker, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Balances == nil {
		return nil, fmt.Errorf("balance fetcher cannot be nil")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.CheckInterval <= 0 {
		return nil, fmt.Errorf("check interval must be positive")
	}
	if cfg.TradeMultiplier <= 0 {
		return nil, fmt.Errorf("trade multiplier must be positive")
	}
	if cfg.MinAbsolute <= 0 {
		return nil, fmt.Errorf("min absolute must be positive")
	}
	if cfg.HysteresisRatio < 1.0 {
		return nil, fmt.Errorf("hysteresis ratio must be >= 1.0")
	}

	breaker := &Breaker{
		checkInterval:    cfg.CheckInterval,
		balances:         cfg.Balances,
		logger:           cfg.Logger,
		tradeMultiplier:  cfg.TradeMultiplier,
		minAbsolute:      cfg.MinAbsolute,
		hysteresisRatio:  cfg.HysteresisRatio,
		recentTrades:     make([]float64, 0, tradeWindowSize),
		disableThreshold: cfg.MinAbsolute,
		enableThreshold:  cfg.MinAbsolute * cfg.HysteresisRatio,
	}
	breaker.enabled.Store(true)

	BreakerEnabled.Set(1)
	BreakerDisableThreshold.Set(breaker.disableThreshold)
	BreakerEnableThreshold.Set(breaker.enableThreshold)
	BreakerAvgTradeSize.Set(0)

	return breaker, nil
}

// Allow reports whether live orders may be submitted. Lock-free, safe to
// call from hot paths.
func (b *Breaker) Allow() bool {
	return b.enabled.Load()
}

// RecordTrade adds one executed trade size to the rolling window and
// recalculates thresholds. Call after successful execution.
func (b *Breaker) RecordTrade(sizeUSD float64) {
	if sizeUSD <= 0 {
		b.logger.Warn("invalid-trade-size", zap.Float64("size", sizeUSD))
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.recentTrades = append(b.recentTrades, sizeUSD)
	if len(b.recentTrades) > tradeWindowSize {
		b.recentTrades = b.recentTrades[1:]
	}

	sum := 0.0
	for _, size := range b.recentTrades {
		sum += size
	}
	avgTradeSize := sum / float64(len(b.recentTrades))

	b.disableThreshold = math.Max(avgTradeSize*b.tradeMultiplier, b.minAbsolute)
	b.enableThreshold = b.disableThreshold * b.hysteresisRatio

	BreakerAvgTradeSize.Set(avgTradeSize)
	BreakerDisableThreshold.Set(b.disableThreshold)
	BreakerEnableThreshold.Set(b.enableThreshold)

	b.logger.Debug("thresholds-updated",
		zap.Float64("avg-trade-size", avgTradeSize),
		zap.Int("trade-count", len(b.recentTrades)),
		zap.Float64("disable-threshold", b.disableThreshold),
		zap.Float64("enable-threshold", b.enableThreshold))
}

// CheckBalance fetches the current balance and updates the enabled state
// with hysteresis.
func (b *Breaker) CheckBalance(ctx context.Context) error {
	start := time.Now()
	defer func() {
		BreakerCheckDuration.Observe(time.Since(start).Seconds())
	}()

	balance, err := b.balances.Balance(ctx)
	if err != nil {
		b.logger.Error("balance-check-failed", zap.Error(err))
		return fmt.Errorf("fetch balance: %w", err)
	}
	usd := balance.USD()

	b.mu.RLock()
	disableThreshold := b.disableThreshold
	enableThreshold := b.enableThreshold
	b.mu.RUnlock()

	currentlyEnabled := b.enabled.Load()

	b.mu.Lock()
	b.lastBalance = usd
	b.lastCheck = time.Now()
	b.mu.Unlock()

	BreakerBalance.Set(usd)

	shouldDisable := currentlyEnabled && usd < disableThreshold
	shouldEnable := !currentlyEnabled && usd >= enableThreshold

	switch {
	case shouldDisable:
		b.enabled.Store(false)
		BreakerEnabled.Set(0)
		BreakerStateChanges.Inc()
		b.logger.Warn("circuit-breaker-disabled",
			zap.Float64("balance", usd),
			zap.Float64("disable-threshold", disableThreshold),
			zap.Float64("enable-threshold", enableThreshold))
	case shouldEnable:
		b.enabled.Store(true)
		BreakerEnabled.Set(1)
		BreakerStateChanges.Inc()
		b.logger.Info("circuit-breaker-enabled",
			zap.Float64("balance", usd),
			zap.Float64("disable-threshold", disableThreshold),
			zap.Float64("enable-threshold", enableThreshold))
	default:
		b.logger.Debug("balance-checked",
			zap.Float64("balance", usd),
			zap.Bool("enabled", currentlyEnabled))
	}

	return nil
}

// Start checks the balance once, then launches the background monitoring
// loop. The loop runs until the context is cancelled.
func (b *Breaker) Start(ctx context.Context) {
	b.logger.Info("circuit-breaker-started",
		zap.Duration("check-interval", b.checkInterval),
		zap.Float64("trade-multiplier", b.tradeMultiplier),
		zap.Float64("min-absolute", b.minAbsolute),
		zap.Float64("hysteresis-ratio", b.hysteresisRatio))

	err := b.CheckBalance(ctx)
	if err != nil {
		b.logger.Error("initial-balance-check-failed", zap.Error(err))
	}

	go b.monitorLoop(ctx)
}

func (b *Breaker) monitorLoop(ctx context.Context) {
	ticker := time.NewTicker(b.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("circuit-breaker-stopped")
			return
		case <-ticker.C:
			err := b.CheckBalance(ctx)
			if err != nil {
				b.logger.Error("balance-check-error", zap.Error(err))
			}
		}
	}
}

// GetStatus returns the current breaker state.
func (b *Breaker) GetStatus() Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sum := 0.0
	for _, size := range b.recentTrades {
		sum += size
	}
	avgTradeSize := 0.0
	if len(b.recentTrades) > 0 {
		avgTradeSize = sum / float64(len(b.recentTrades))
	}

	return Status{
		Enabled:          b.enabled.Load(),
		LastBalance:      b.lastBalance,
		LastCheck:        b.lastCheck,
		DisableThreshold: b.disableThreshold,
		EnableThreshold:  b.enableThreshold,
		AvgTradeSize:     avgTradeSize,
		RecentTradeCount: len(b.recentTrades),
	}
}
