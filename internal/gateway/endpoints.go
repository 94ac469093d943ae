package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"kalshi-alpha/pkg/types"
)

// maxPageSize is the largest page the exchange serves per /markets request.
const maxPageSize = 100

// MarketsQuery filters a paginated /markets listing.
type MarketsQuery struct {
	Status       string
	EventTicker  string
	SeriesTicker string
	Limit        int
	Cursor       string
}

// Markets fetches one page of markets. An empty returned cursor marks the
// terminal page; consecutive pages with the same filter never overlap.
func (c *Client) Markets(ctx context.Context, q MarketsQuery) (*types.MarketsPage, error) {
	query := url.Values{}
	limit := q.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	query.Set("limit", strconv.Itoa(limit))
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.EventTicker != "" {
		query.Set("event_ticker", q.EventTicker)
	}
	if q.SeriesTicker != "" {
		query.Set("series_ticker", q.SeriesTicker)
	}
	if q.Cursor != "" {
		query.Set("cursor", q.Cursor)
	}

	data, err := c.request(ctx, http.MethodGet, "/markets", query, nil)
	if err != nil {
		return nil, err
	}

	var page types.MarketsPage
	err = decode(data, &page)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// OpenMarkets paginates through open markets up to limit entries.
// limit <= 0 fetches everything.
func (c *Client) OpenMarkets(ctx context.Context, limit int) ([]types.Market, error) {
	var (
		markets []types.Market
		cursor  string
	)

	for {
		batch := maxPageSize
		if limit > 0 {
			remaining := limit - len(markets)
			if remaining <= 0 {
				break
			}
			if remaining < batch {
				batch = remaining
			}
		}

		page, err := c.Markets(ctx, MarketsQuery{Status: "open", Limit: batch, Cursor: cursor})
		if err != nil {
			return markets, err
		}
		markets = append(markets, page.Markets...)

		cursor = page.Cursor
		if cursor == "" || len(page.Markets) == 0 {
			break
		}
	}

	return markets, nil
}

// Market fetches a single market by ticker.
func (c *Client) Market(ctx context.Context, ticker string) (*types.Market, error) {
	data, err := c.request(ctx, http.MethodGet, "/markets/"+ticker, nil, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Market types.Market `json:"market"`
	}
	err = decode(data, &wrapper)
	if err != nil {
		return nil, err
	}

	return &wrapper.Market, nil
}

// Orderbook fetches the orderbook for a contract at the given depth.
func (c *Client) Orderbook(ctx context.Context, ticker string, depth int) (*types.RawOrderbook, error) {
	query := url.Values{}
	query.Set("depth", strconv.Itoa(depth))

	data, err := c.request(ctx, http.MethodGet, "/markets/"+ticker+"/orderbook", query, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Orderbook types.RawOrderbook `json:"orderbook"`
	}
	err = decode(data, &wrapper)
	if err != nil {
		return nil, err
	}

	return &wrapper.Orderbook, nil
}

// Events fetches one page of events.
func (c *Client) Events(ctx context.Context, limit int, cursor string) (*types.EventsPage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	data, err := c.request(ctx, http.MethodGet, "/events", query, nil)
	if err != nil {
		return nil, err
	}

	var page types.EventsPage
	err = decode(data, &page)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// Event fetches a single event, with its nested markets, by ticker.
func (c *Client) Event(ctx context.Context, eventTicker string) (*types.Event, error) {
	data, err := c.request(ctx, http.MethodGet, "/events/"+eventTicker, nil, nil)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Event types.Event `json:"event"`
	}
	err = decode(data, &wrapper)
	if err != nil {
		return nil, err
	}

	return &wrapper.Event, nil
}

// Balance reads the portfolio cash balance.
func (c *Client) Balance(ctx context.Context) (*types.Balance, error) {
	data, err := c.request(ctx, http.MethodGet, "/portfolio/balance", nil, nil)
	if err != nil {
		return nil, err
	}

	var balance types.Balance
	err = decode(data, &balance)
	if err != nil {
		return nil, err
	}

	return &balance, nil
}

// Positions fetches one page of open positions.
func (c *Client) Positions(ctx context.Context, cursor string) (*types.PositionsPage, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	data, err := c.request(ctx, http.MethodGet, "/portfolio/positions", query, nil)
	if err != nil {
		return nil, err
	}

	var page types.PositionsPage
	err = decode(data, &page)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// Fills fetches one page of trade fills.
func (c *Client) Fills(ctx context.Context, cursor string) (*types.FillsPage, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	data, err := c.request(ctx, http.MethodGet, "/portfolio/fills", query, nil)
	if err != nil {
		return nil, err
	}

	var page types.FillsPage
	err = decode(data, &page)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// Orders fetches one page of portfolio orders.
func (c *Client) Orders(ctx context.Context, cursor string) (*types.OrdersPage, error) {
	query := url.Values{}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	data, err := c.request(ctx, http.MethodGet, "/portfolio/orders", query, nil)
	if err != nil {
		return nil, err
	}

	var page types.OrdersPage
	err = decode(data, &page)
	if err != nil {
		return nil, err
	}

	return &page, nil
}

// CreateOrder submits a limit order. Prices are in cents, 1-99.
func (c *Client) CreateOrder(ctx context.Context, order *types.OrderRequest) (*types.OrderConfirmation, error) {
	data, err := c.request(ctx, http.MethodPost, "/portfolio/orders", nil, order)
	if err != nil {
		return nil, err
	}

	OrdersSubmittedTotal.Inc()

	var confirmation types.OrderConfirmation
	err = decode(data, &confirmation)
	if err != nil {
		return nil, err
	}

	return &confirmation, nil
}

// CancelOrder cancels one resting order by ID.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.request(ctx, http.MethodDelete, "/portfolio/orders/"+orderID, nil, nil)
	return err
}

// CancelAllOrders cancels every resting order.
func (c *Client) CancelAllOrders(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodDelete, "/portfolio/orders", nil, nil)
	return err
}
