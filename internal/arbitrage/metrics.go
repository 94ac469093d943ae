package arbitrage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PairsMatchedTotal tracks cross-venue market pairs found by title overlap.
	PairsMatchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbitrage_pairs_matched_total",
		Help: "Total number of cross-venue market pairs matched",
	})

	// SignalsEmittedTotal tracks arbitrage signals emitted.
	SignalsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbitrage_signals_total",
		Help: "Total number of arbitrage signals emitted",
	})

	// ScanErrorsTotal tracks scans aborted by a venue fetch failure.
	ScanErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbitrage_scan_errors_total",
		Help: "Total number of arbitrage scans aborted on fetch failure",
	})

	// ScanDurationSeconds tracks full arbitrage scan latency.
	ScanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbitrage_scan_duration_seconds",
		Help:    "Duration of full arbitrage scans",
		Buckets: prometheus.DefBuckets,
	})
)
