package risk

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignalsSizedTotal tracks signals run through the Kelly sizer.
	SignalsSizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "risk_signals_sized_total",
		Help: "Total number of signals sized",
	})

	// OrdersCommittedTotal tracks committed orders, labeled by mode.
	OrdersCommittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "risk_orders_committed_total",
		Help: "Total number of orders committed",
	}, []string{"mode"})

	// OrderFailuresTotal tracks live submissions rejected by the exchange.
	OrderFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "risk_order_failures_total",
		Help: "Total number of failed live order submissions",
	})

	// OrdersBlockedTotal tracks orders vetoed by the balance circuit breaker.
	OrdersBlockedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "risk_orders_blocked_total",
		Help: "Total number of orders blocked by the circuit breaker",
	})
)
