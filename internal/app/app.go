// Package app wires the suite together and drives the scan-size-execute
// cycle: the three signal producers run concurrently, their signals are
// concatenated, and the risk executor commits the survivors.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"kalshi-alpha/internal/arbitrage"
	"kalshi-alpha/internal/circuitbreaker"
	"kalshi-alpha/internal/gateway"
	"kalshi-alpha/internal/news"
	"kalshi-alpha/internal/orderbook"
	"kalshi-alpha/internal/risk"
	"kalshi-alpha/internal/storage"
	"kalshi-alpha/pkg/config"
	"kalshi-alpha/pkg/healthprobe"
	"kalshi-alpha/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server

	exchange     *gateway.Client
	voidScanner  *orderbook.Scanner
	newsAnalyzer *news.Analyzer
	arbScanner   *arbitrage.Scanner
	executor     *risk.Executor
	recorder     storage.Recorder
	breaker      *circuitbreaker.Breaker // nil in paper mode

	bankrollUSD float64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// SingleCycle runs exactly one scan cycle and exits. For debugging.
	SingleCycle bool
}
