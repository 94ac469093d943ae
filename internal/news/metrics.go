package news

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedFetchesTotal tracks successful feed downloads.
	FeedFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_feed_fetches_total",
		Help: "Total number of successful feed fetches",
	})

	// FeedFetchErrorsTotal tracks failed feed downloads.
	FeedFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_feed_fetch_errors_total",
		Help: "Total number of failed feed fetches",
	})

	// LLMErrorsTotal tracks provider failures and non-JSON responses.
	LLMErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_llm_errors_total",
		Help: "Total number of LLM failures or malformed responses",
	})

	// SignalsEmittedTotal tracks news signals emitted.
	SignalsEmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "news_signals_total",
		Help: "Total number of news-driven signals emitted",
	})
)
