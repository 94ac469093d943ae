package app

import (
	"bufio"
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kalshi-alpha/internal/storage"
	"kalshi-alpha/internal/testutil"
	"kalshi-alpha/pkg/config"
	"kalshi-alpha/pkg/types"
)

func testConfig(t *testing.T, exchangeURL, externalURL string) *config.Config {
	t.Helper()

	return &config.Config{
		LogDir:   t.TempDir(),
		HTTPPort: "0",

		ExchangeBaseURL: exchangeURL,
		AccessKey:       "test-key-id",
		PrivateKeyB64:   base64.StdEncoding.EncodeToString(make([]byte, 32)),
		ExchangeRPS:     1000,
		ExchangeBurst:   1000,

		ExternalVenueURL: externalURL,

		PaperTrading:         true,
		FeeRate:              0.07,
		SpreadThresholdCents: 3,
		KellyEdgeMin:         0.05,
		NLPProbShiftMin:      0.10,
		MaxPositionUSD:       500,
		KellyFraction:        0.25,

		CycleInterval:   time.Minute,
		ScanMarketLimit: 100,
		ScanConcurrency: 8,

		BreakerCheckInterval:   30 * time.Second,
		BreakerTradeMultiplier: 3.0,
		BreakerMinAbsolute:     50.0,
		BreakerHysteresis:      1.5,
	}
}

func newEmptyExternalVenue(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	return server
}

func readPaperTrades(t *testing.T, dir string) []storage.TradeRecord {
	t.Helper()

	file, err := os.Open(filepath.Join(dir, "paper_trades.jsonl"))
	require.NoError(t, err)
	defer file.Close()

	var records []storage.TradeRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record storage.TradeRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
		records = append(records, record)
	}
	require.NoError(t, scanner.Err())

	return records
}

func TestPaperCycleJournalsVoidTrade(t *testing.T) {
	exchange := testutil.NewMockExchange([]types.Market{
		testutil.TestMarket("CPI-24", "Will inflation exceed three percent", 30, 50),
	})
	t.Cleanup(exchange.Close)

	// 20 cent spread: YES bid 30, synthetic ask 100-50=50. The midpoint
	// fair value 0.40 against an entry at 0.30 clears the Kelly gate.
	exchange.SetOrderbook("CPI-24", testutil.TestOrderbook(30, 50))

	external := newEmptyExternalVenue(t)
	cfg := testConfig(t, exchange.URL, external.URL)

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	a.runCycle(context.Background())
	require.NoError(t, a.recorder.Close())

	require.Empty(t, exchange.SubmittedOrders(), "paper mode must not submit orders")

	records := readPaperTrades(t, cfg.LogDir)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "CPI-24", record.Ticker)
	assert.Equal(t, "yes", record.Side)
	assert.Equal(t, "orderbook", record.Source)
	assert.True(t, record.Paper)
	assert.Equal(t, 30, record.LimitPriceCents)
	assert.Equal(t, 30, record.FillPriceCents)
	assert.Greater(t, record.PositionUSD, 0.0)
}

func TestShutdownPreservesJournaledTrades(t *testing.T) {
	exchange := testutil.NewMockExchange([]types.Market{
		testutil.TestMarket("CPI-24", "Will inflation exceed three percent", 30, 50),
	})
	t.Cleanup(exchange.Close)
	exchange.SetOrderbook("CPI-24", testutil.TestOrderbook(30, 50))

	external := newEmptyExternalVenue(t)
	cfg := testConfig(t, exchange.URL, external.URL)

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	a.runCycle(context.Background())
	require.NoError(t, a.Shutdown())

	records := readPaperTrades(t, cfg.LogDir)
	require.Len(t, records, 1)
	assert.Equal(t, "CPI-24", records[0].Ticker)
}

func TestPaperCycleSkipsTightMarkets(t *testing.T) {
	exchange := testutil.NewMockExchange([]types.Market{
		testutil.TestMarket("TIGHT", "Tightly quoted market question here", 49, 49),
	})
	t.Cleanup(exchange.Close)

	// 2 cent spread, at or under the 3 cent threshold: no signal.
	exchange.SetOrderbook("TIGHT", testutil.TestOrderbook(49, 49))

	external := newEmptyExternalVenue(t)
	cfg := testConfig(t, exchange.URL, external.URL)

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	a.runCycle(context.Background())
	require.NoError(t, a.recorder.Close())

	_, err = os.Stat(filepath.Join(cfg.LogDir, "paper_trades.jsonl"))
	require.NoError(t, err)
	assert.Empty(t, readPaperTrades(t, cfg.LogDir))
}

func TestPaperBankrollIsSimulated(t *testing.T) {
	exchange := testutil.NewMockExchange(nil)
	t.Cleanup(exchange.Close)
	external := newEmptyExternalVenue(t)

	cfg := testConfig(t, exchange.URL, external.URL)

	a, err := New(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.InDelta(t, cfg.MaxPositionUSD*10, a.bankrollUSD, 1e-9)
	assert.Nil(t, a.breaker, "paper mode runs without the balance breaker")
}
