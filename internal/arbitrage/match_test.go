package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalshi-alpha/pkg/types"
)

func TestTitleTokens(t *testing.T) {
	tokens := titleTokens("Will inflation exceed 3.5% in 2024?")

	assert.Contains(t, tokens, "will")
	assert.Contains(t, tokens, "inflation")
	assert.Contains(t, tokens, "exceed")
	assert.Contains(t, tokens, "2024") // trailing "?" stripped
	assert.Contains(t, tokens, "3.5%")
	assert.NotContains(t, tokens, "in", "short words dropped")
	assert.NotContains(t, tokens, "2024?")
}

func TestMatchPairsRequiresThreeSharedTokens(t *testing.T) {
	exchange := []types.Market{
		{Ticker: "CPI-24", Title: "Will inflation exceed three percent this year"},
		{Ticker: "RAIN-NYC", Title: "Rain in NYC tomorrow"},
	}
	external := []ExternalMarket{
		{Question: "Will annual inflation exceed three percent"},
		{Question: "Will it snow in Chicago"},
	}

	pairs := MatchPairs(exchange, external)

	require.Len(t, pairs, 1)
	assert.Equal(t, "CPI-24", pairs[0].Exchange.Ticker)
	assert.Equal(t, "Will annual inflation exceed three percent", pairs[0].External.Question)
}

func TestMatchPairsFirstMatchWins(t *testing.T) {
	exchange := []types.Market{
		{Ticker: "FED", Title: "Will the Federal Reserve raise interest rates"},
	}
	external := []ExternalMarket{
		{Question: "Will the Federal Reserve raise interest rates in September"},
		{Question: "Will the Federal Reserve raise interest rates in December"},
	}

	pairs := MatchPairs(exchange, external)

	require.Len(t, pairs, 1)
	assert.Contains(t, pairs[0].External.Question, "September")
}

func TestMatchPairsSkipsEmptyTitles(t *testing.T) {
	exchange := []types.Market{{Ticker: "X", Title: ""}}
	external := []ExternalMarket{{Question: "Will something happen eventually somewhere"}}

	assert.Empty(t, MatchPairs(exchange, external))
}

func TestMatchPairsCaseInsensitive(t *testing.T) {
	exchange := []types.Market{
		{Ticker: "BTC", Title: "BITCOIN ABOVE 100K DECEMBER"},
	}
	external := []ExternalMarket{
		{Question: "bitcoin above 100k december close"},
	}

	assert.Len(t, MatchPairs(exchange, external), 1)
}
