package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"kalshi-alpha/pkg/types"
)

// MockExchange is an httptest server that simulates the exchange REST API
// for the endpoints the suite consumes.
type MockExchange struct {
	*httptest.Server

	mu         sync.RWMutex
	markets    []types.Market
	orderbooks map[string]*types.RawOrderbook
	balance    int64
	orders     []types.OrderRequest
}

// NewMockExchange creates a mock exchange serving the given markets.
func NewMockExchange(markets []types.Market) *MockExchange {
	mock := &MockExchange{
		markets:    markets,
		orderbooks: make(map[string]*types.RawOrderbook),
		balance:    100000, // $1000.00
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /markets", mock.handleMarkets)
	mux.HandleFunc("GET /markets/{ticker}/orderbook", mock.handleOrderbook)
	mux.HandleFunc("GET /portfolio/balance", mock.handleBalance)
	mux.HandleFunc("POST /portfolio/orders", mock.handleCreateOrder)

	mock.Server = httptest.NewServer(mux)
	return mock
}

// SetOrderbook installs a book for one ticker.
func (m *MockExchange) SetOrderbook(ticker string, book *types.RawOrderbook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orderbooks[ticker] = book
}

// SetBalance sets the cash balance in cents.
func (m *MockExchange) SetBalance(cents int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balance = cents
}

// SubmittedOrders returns a copy of every order received.
func (m *MockExchange) SubmittedOrders() []types.OrderRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]types.OrderRequest(nil), m.orders...)
}

func (m *MockExchange) handleMarkets(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	writeJSON(w, types.MarketsPage{Markets: m.markets})
}

func (m *MockExchange) handleOrderbook(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ticker := r.PathValue("ticker")
	book, ok := m.orderbooks[ticker]
	if !ok {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, map[string]*types.RawOrderbook{"orderbook": book})
}

func (m *MockExchange) handleBalance(w http.ResponseWriter, r *http.Request) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	writeJSON(w, types.Balance{BalanceCents: m.balance})
}

func (m *MockExchange) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req types.OrderRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.orders = append(m.orders, req)
	orderID := "mock-order-" + strings.ToLower(req.Ticker)
	m.mu.Unlock()

	writeJSON(w, types.OrderConfirmation{Order: types.Order{
		OrderID: orderID,
		Ticker:  req.Ticker,
		Side:    req.Side,
		Status:  "resting",
		Count:   req.Count,
	}})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// MockRecorder is an in-memory trade recorder.
type MockRecorder struct {
	mu     sync.Mutex
	Trades []types.TradeOrder
}

// Record appends the order in memory.
func (m *MockRecorder) Record(order *types.TradeOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Trades = append(m.Trades, *order)
	return nil
}

// Close is a no-op.
func (m *MockRecorder) Close() error { return nil }

// MockCompleter returns a fixed LLM response for every prompt.
type MockCompleter struct {
	Response string
	Err      error

	mu      sync.Mutex
	Prompts []string
}

// Complete records the prompt and returns the canned response.
func (m *MockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, userPrompt)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
