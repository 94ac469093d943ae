// Package markets provides a cached catalog of open exchange markets.
// The news analyzer's ticker resolution and the arbitrage scanner both
// need the open-market list; the catalog keeps them from re-paginating
// the exchange inside a single cycle.
package markets

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"kalshi-alpha/pkg/cache"
	"kalshi-alpha/pkg/types"
)

const openMarketsKey = "catalog:open-markets"

// Lister is the slice of the gateway the catalog depends on.
type Lister interface {
	OpenMarkets(ctx context.Context, limit int) ([]types.Market, error)
}

// Catalog is a TTL-cached open-market listing.
type Catalog struct {
	client Lister
	cache  cache.Cache
	limit  int
	ttl    time.Duration
	logger *zap.Logger
}

// Config holds catalog configuration.
type Config struct {
	Client Lister
	Cache  cache.Cache
	Limit  int
	TTL    time.Duration
	Logger *zap.Logger
}

// New creates a market catalog. A zero TTL defaults to 30s, which keeps
// entries fresh across producers within one cycle but not across cycles.
func New(cfg *Config) *Catalog {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 30 * time.Second
	}

	return &Catalog{
		client: cfg.Client,
		cache:  cfg.Cache,
		limit:  cfg.Limit,
		ttl:    ttl,
		logger: cfg.Logger,
	}
}

// OpenMarkets returns the cached open-market list, fetching it from the
// exchange on a miss.
func (c *Catalog) OpenMarkets(ctx context.Context) ([]types.Market, error) {
	if c.cache != nil {
		if cached, ok := c.cache.Get(openMarketsKey); ok {
			if markets, ok := cached.([]types.Market); ok {
				CatalogCacheHitsTotal.Inc()
				return markets, nil
			}
		}
		CatalogCacheMissesTotal.Inc()
	}

	markets, err := c.client.OpenMarkets(ctx, c.limit)
	if err != nil {
		return nil, err
	}

	CatalogRefreshesTotal.Inc()
	c.logger.Debug("catalog-refreshed", zap.Int("markets", len(markets)))

	if c.cache != nil {
		c.cache.Set(openMarketsKey, markets, c.ttl)
	}

	return markets, nil
}

// MatchKeyword returns open markets whose ticker or title contains the
// keyword, case-insensitively.
func (c *Catalog) MatchKeyword(ctx context.Context, keyword string) ([]types.Market, error) {
	markets, err := c.OpenMarkets(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(keyword)
	var matched []types.Market
	for _, m := range markets {
		if strings.Contains(strings.ToLower(m.Ticker), needle) ||
			strings.Contains(strings.ToLower(m.Title), needle) {
			matched = append(matched, m)
		}
	}

	return matched, nil
}

// Invalidate drops the cached listing, forcing a refetch on next access.
func (c *Catalog) Invalidate() {
	if c.cache != nil {
		c.cache.Delete(openMarketsKey)
	}
}
