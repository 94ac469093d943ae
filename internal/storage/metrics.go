package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TradesRecordedTotal tracks trades persisted to the journal or audit log.
var TradesRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "storage_trades_recorded_total",
	Help: "Total number of trade records persisted",
})
