package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"kalshi-alpha/pkg/types"
)

// runCycle executes one scan-size-execute iteration: the three producers
// run concurrently, a panicking or failing producer contributes an empty
// list, and the combined signals go to the risk executor.
func (a *App) runCycle(ctx context.Context) {
	start := time.Now()
	CyclesTotal.Inc()

	a.logger.Info("cycle-starting", zap.Float64("bankroll-usd", a.bankrollUSD))

	var (
		voidSignals []types.Signal
		newsSignals []types.Signal
		arbSignals  []types.Signal
	)

	done := make(chan struct{}, 3)
	launch := func(name string, out *[]types.Signal, scan func(context.Context) []types.Signal) {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					ProducerPanicsTotal.Inc()
					a.logger.Error("producer-panicked",
						zap.String("producer", name),
						zap.Any("panic", r))
				}
				done <- struct{}{}
			}()
			*out = scan(ctx)
		}()
	}

	launch("orderbook", &voidSignals, a.voidScanner.Scan)
	launch("news", &newsSignals, a.newsAnalyzer.Scan)
	launch("arbitrage", &arbSignals, a.arbScanner.Scan)

	for i := 0; i < 3; i++ {
		<-done
	}

	signals := make([]types.Signal, 0, len(voidSignals)+len(newsSignals)+len(arbSignals))
	signals = append(signals, voidSignals...)
	signals = append(signals, newsSignals...)
	signals = append(signals, arbSignals...)

	SignalsCollectedTotal.Add(float64(len(signals)))

	orders := a.executor.ProcessSignals(ctx, signals, a.bankrollUSD)

	if a.breaker != nil {
		for _, order := range orders {
			a.breaker.RecordTrade(order.Kelly.PositionSizeUSD)
		}
	}

	CycleDurationSeconds.Observe(time.Since(start).Seconds())
	a.logger.Info("cycle-complete",
		zap.Int("orderbook-signals", len(voidSignals)),
		zap.Int("news-signals", len(newsSignals)),
		zap.Int("arbitrage-signals", len(arbSignals)),
		zap.Int("orders", len(orders)),
		zap.Duration("elapsed", time.Since(start)))
}
