package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kalshi-alpha/internal/circuitbreaker"
	"kalshi-alpha/pkg/healthprobe"
	"kalshi-alpha/pkg/types"
)

type staticBalances struct {
	cents int64
}

func (s *staticBalances) Balance(ctx context.Context) (*types.Balance, error) {
	return &types.Balance{BalanceCents: s.cents}, nil
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestServerRoutes(t *testing.T) {
	checker := healthprobe.New()
	checker.SetReady(true)

	server := New(&Config{
		Port:          "0",
		Logger:        zap.NewNop(),
		HealthChecker: checker,
	})
	handler := server.server.Handler

	assert.Equal(t, http.StatusOK, get(t, handler, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, handler, "/ready").Code)
	assert.Equal(t, http.StatusOK, get(t, handler, "/metrics").Code)

	// No breaker wired: the status route is absent.
	assert.Equal(t, http.StatusNotFound, get(t, handler, "/api/breaker").Code)
}

func TestBreakerStatusEndpoint(t *testing.T) {
	breaker, err := circuitbreaker.New(&circuitbreaker.Config{
		CheckInterval:   time.Minute,
		TradeMultiplier: 3.0,
		MinAbsolute:     50.0,
		HysteresisRatio: 1.5,
		Balances:        &staticBalances{cents: 100000},
		Logger:          zap.NewNop(),
	})
	require.NoError(t, err)
	breaker.RecordTrade(100)

	server := New(&Config{
		Port:          "0",
		Logger:        zap.NewNop(),
		HealthChecker: healthprobe.New(),
		Breaker:       breaker,
	})

	rec := get(t, server.server.Handler, "/api/breaker")
	require.Equal(t, http.StatusOK, rec.Code)

	var body BreakerStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Enabled)
	assert.InDelta(t, 300.0, body.DisableThreshold, 1e-9)
	assert.InDelta(t, 450.0, body.EnableThreshold, 1e-9)
	assert.Equal(t, 1, body.RecentTradeCount)
}
