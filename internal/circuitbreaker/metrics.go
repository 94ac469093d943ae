package circuitbreaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BreakerEnabled indicates whether live execution is allowed.
	BreakerEnabled = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_enabled",
		Help: "Whether the breaker allows live execution (1=enabled, 0=disabled)",
	})

	// BreakerBalance tracks the last checked balance in USD.
	BreakerBalance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_balance_usd",
		Help: "Last checked exchange cash balance in USD",
	})

	// BreakerDisableThreshold tracks the balance below which execution stops.
	BreakerDisableThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_disable_threshold_usd",
		Help: "Balance threshold below which live execution is disabled",
	})

	// BreakerEnableThreshold tracks the balance at which execution resumes.
	BreakerEnableThreshold = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_enable_threshold_usd",
		Help: "Balance threshold at which live execution re-enables",
	})

	// BreakerAvgTradeSize tracks the rolling average trade size.
	BreakerAvgTradeSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "circuit_breaker_avg_trade_size_usd",
		Help: "Rolling average trade size used for threshold calculation",
	})

	// BreakerStateChanges counts enable/disable transitions.
	BreakerStateChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "circuit_breaker_state_changes_total",
		Help: "Total number of breaker state transitions",
	})

	// BreakerCheckDuration tracks balance check latency.
	BreakerCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "circuit_breaker_check_duration_seconds",
		Help:    "Time taken to check the exchange balance",
		Buckets: prometheus.DefBuckets,
	})
)
