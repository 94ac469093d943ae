package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal counts completed scan cycles.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_cycles_total",
		Help: "Total number of scan cycles started",
	})

	// SignalsCollectedTotal counts signals gathered across all producers.
	SignalsCollectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_signals_collected_total",
		Help: "Total number of signals collected from all producers",
	})

	// ProducerPanicsTotal counts producer panics converted to empty lists.
	ProducerPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "app_producer_panics_total",
		Help: "Total number of recovered signal producer panics",
	})

	// CycleDurationSeconds tracks full cycle latency.
	CycleDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "app_cycle_duration_seconds",
		Help:    "Duration of full scan cycles",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
	})
)
