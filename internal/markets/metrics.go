package markets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogCacheHitsTotal tracks catalog cache hits.
	CatalogCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "markets_catalog_cache_hits_total",
		Help: "Total number of open-market catalog cache hits",
	})

	// CatalogCacheMissesTotal tracks catalog cache misses.
	CatalogCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "markets_catalog_cache_misses_total",
		Help: "Total number of open-market catalog cache misses",
	})

	// CatalogRefreshesTotal tracks full listing refetches from the exchange.
	CatalogRefreshesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "markets_catalog_refreshes_total",
		Help: "Total number of open-market catalog refreshes",
	})
)
