package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kalshi-alpha/internal/circuitbreaker"
)

// BreakerHandler exposes the balance circuit breaker state.
type BreakerHandler struct {
	breaker *circuitbreaker.Breaker
	logger  *zap.Logger
}

// NewBreakerHandler creates a breaker status handler.
func NewBreakerHandler(breaker *circuitbreaker.Breaker, logger *zap.Logger) *BreakerHandler {
	return &BreakerHandler{breaker: breaker, logger: logger}
}

// BreakerStatusResponse is the body of GET /api/breaker.
type BreakerStatusResponse struct {
	Enabled          bool    `json:"enabled"`
	LastBalanceUSD   float64 `json:"last_balance_usd"`
	LastCheck        string  `json:"last_check,omitempty"`
	DisableThreshold float64 `json:"disable_threshold_usd"`
	EnableThreshold  float64 `json:"enable_threshold_usd"`
	AvgTradeSizeUSD  float64 `json:"avg_trade_size_usd"`
	RecentTradeCount int     `json:"recent_trade_count"`
}

// HandleStatus handles GET /api/breaker.
func (h *BreakerHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := h.breaker.GetStatus()

	resp := BreakerStatusResponse{
		Enabled:          status.Enabled,
		LastBalanceUSD:   status.LastBalance,
		DisableThreshold: status.DisableThreshold,
		EnableThreshold:  status.EnableThreshold,
		AvgTradeSizeUSD:  status.AvgTradeSize,
		RecentTradeCount: status.RecentTradeCount,
	}
	if !status.LastCheck.IsZero() {
		resp.LastCheck = status.LastCheck.UTC().Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(resp)
	if err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}
