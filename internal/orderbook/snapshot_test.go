package orderbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kalshi-alpha/pkg/types"
)

func TestParseSnapshot(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name string
		raw  *types.RawOrderbook
		want *types.OrderbookSnapshot
	}{
		{
			name: "both sides populated",
			raw:  &types.RawOrderbook{Yes: [][]int{{40, 100}}, No: [][]int{{55, 80}}},
			want: &types.OrderbookSnapshot{
				Ticker:          "CPI-24",
				BestYesBid:      40,
				BestNoBid:       55,
				SyntheticYesAsk: 45,
				SpreadCents:     5,
				Timestamp:       now,
			},
		},
		{
			name: "empty NO side defaults ask to 100",
			raw:  &types.RawOrderbook{Yes: [][]int{{30, 10}}},
			want: &types.OrderbookSnapshot{
				Ticker:          "CPI-24",
				BestYesBid:      30,
				BestNoBid:       0,
				SyntheticYesAsk: 100,
				SpreadCents:     70,
				Timestamp:       now,
			},
		},
		{
			name: "empty YES side",
			raw:  &types.RawOrderbook{No: [][]int{{60, 20}}},
			want: &types.OrderbookSnapshot{
				Ticker:          "CPI-24",
				BestYesBid:      0,
				BestNoBid:       60,
				SyntheticYesAsk: 40,
				SpreadCents:     40,
				Timestamp:       now,
			},
		},
		{
			name: "both sides empty",
			raw:  &types.RawOrderbook{},
			want: nil,
		},
		{
			name: "nil book",
			raw:  nil,
			want: nil,
		},
		{
			name: "malformed leading level is skipped",
			raw:  &types.RawOrderbook{Yes: [][]int{{40}, {38, 50}}, No: [][]int{{55, 80}}},
			want: &types.OrderbookSnapshot{
				Ticker:          "CPI-24",
				BestYesBid:      38,
				BestNoBid:       55,
				SyntheticYesAsk: 45,
				SpreadCents:     7,
				Timestamp:       now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSnapshot("CPI-24", tt.raw, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCrossedBookDetection(t *testing.T) {
	// YES bid 60, NO bid 60 -> synthetic ask 40 -> spread -20.
	snap := ParseSnapshot("X", &types.RawOrderbook{
		Yes: [][]int{{60, 10}},
		No:  [][]int{{60, 10}},
	}, time.Now())

	require.NotNil(t, snap)
	assert.Equal(t, -20, snap.SpreadCents)
	assert.True(t, snap.Crossed())
}
