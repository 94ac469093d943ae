package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks all exchange API requests.
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exchange_gateway_requests_total",
		Help: "Total number of exchange API requests",
	})

	// RequestErrorsTotal tracks failed exchange API requests.
	RequestErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exchange_gateway_request_errors_total",
		Help: "Total number of failed exchange API requests",
	})

	// RateLimitRetriesTotal tracks 429 retry sleeps.
	RateLimitRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exchange_gateway_rate_limit_retries_total",
		Help: "Total number of rate-limit retries performed",
	})

	// OrdersSubmittedTotal tracks live orders accepted by the exchange.
	OrdersSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "exchange_gateway_orders_submitted_total",
		Help: "Total number of orders submitted to the exchange",
	})

	// RequestDurationSeconds tracks request latency.
	RequestDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "exchange_gateway_request_duration_seconds",
		Help:    "Duration of exchange API requests",
		Buckets: prometheus.DefBuckets,
	})
)
