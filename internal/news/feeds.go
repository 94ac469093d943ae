package news

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// feedTruncateBytes bounds the text handed to the LLM pipeline.
const feedTruncateBytes = 6000

// DefaultFeeds are curated primary-source endpoints: weather alerts,
// economic releases, and central-bank announcements.
func DefaultFeeds() map[string]string {
	return map[string]string{
		"NOAA_ALERTS": "https://api.weather.gov/alerts/active?status=actual&limit=5",
		"BLS_CPI":     "https://api.bls.gov/publicAPI/v2/timeseries/data/CUUR0000SA0?latest=true",
		"FED_RSS":     "https://www.federalreserve.gov/feeds/press_all.xml",
	}
}

// Fetcher downloads raw feed text.
type Fetcher struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewFetcher creates a feed fetcher.
func NewFetcher(logger *zap.Logger) *Fetcher {
	client := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "*/*")

	return &Fetcher{http: client, logger: logger}
}

// Fetch returns the feed body truncated to feedTruncateBytes. Any failure
// returns an empty string; the pipeline proceeds with remaining feeds.
func (f *Fetcher) Fetch(ctx context.Context, name, url string) string {
	resp, err := f.http.R().SetContext(ctx).Get(url)
	if err != nil {
		FeedFetchErrorsTotal.Inc()
		f.logger.Warn("feed-fetch-failed",
			zap.String("feed", name),
			zap.String("url", url),
			zap.Error(err))
		return ""
	}
	if resp.IsError() {
		FeedFetchErrorsTotal.Inc()
		f.logger.Warn("feed-fetch-failed",
			zap.String("feed", name),
			zap.Int("status", resp.StatusCode()))
		return ""
	}

	FeedFetchesTotal.Inc()

	return truncate(resp.String(), feedTruncateBytes)
}

// FetchAll fetches every configured feed, dropping the empty ones.
func (f *Fetcher) FetchAll(ctx context.Context, feeds map[string]string) map[string]string {
	results := make(map[string]string, len(feeds))
	for name, url := range feeds {
		text := f.Fetch(ctx, name, url)
		if text != "" {
			results[name] = text
		}
	}
	return results
}
