package orderbook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignalsEmittedTotal tracks liquidity-void signals emitted.
	SignalsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_scanner_signals_total",
		Help: "Total number of liquidity-void signals emitted",
	})

	// MarketScanErrorsTotal tracks per-market fetch failures.
	MarketScanErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_scanner_market_errors_total",
		Help: "Total number of per-market orderbook fetch failures",
	})

	// ScanErrorsTotal tracks page-level listing failures.
	ScanErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_scanner_page_errors_total",
		Help: "Total number of market page listing failures",
	})

	// ScanDurationSeconds tracks full-scan latency.
	ScanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderbook_scanner_scan_duration_seconds",
		Help:    "Duration of full orderbook scans",
		Buckets: prometheus.DefBuckets,
	})
)
