package arbitrage

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalMarketDecodesPriceVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"numeric outcome prices", `{"question":"q","outcomePrices":[0.62,0.38]}`, 0.62},
		{"string outcome prices", `{"question":"q","outcomePrices":["0.62","0.38"]}`, 0.62},
		{"double-encoded outcome prices", `{"question":"q","outcomePrices":"[\"0.62\", \"0.38\"]"}`, 0.62},
		{"yes_price fallback", `{"question":"q","yes_price":0.55}`, 0.55},
		{"last trade fallback", `{"question":"q","lastTradePrice":0.47}`, 0.47},
		{"midpoint default", `{"question":"q"}`, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var market ExternalMarket
			require.NoError(t, json.Unmarshal([]byte(tt.body), &market))
			assert.InDelta(t, tt.want, market.YesProb(), 1e-9)
		})
	}
}

func TestExternalMarketDisplayTitle(t *testing.T) {
	withQuestion := ExternalMarket{Question: "Will it rain", Title: "rain-market"}
	assert.Equal(t, "Will it rain", withQuestion.DisplayTitle())

	titleOnly := ExternalMarket{Title: "rain-market"}
	assert.Equal(t, "rain-market", titleOnly.DisplayTitle())
}
