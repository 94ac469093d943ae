package types

// Exchange wire types. Decoding is always into these structs; unknown
// fields are ignored, and missing required fields are surfaced as parse
// APIErrors by the gateway.

// Market is one binary contract as returned by GET /markets.
// All prices are integer cents.
type Market struct {
	Ticker       string `json:"ticker"`
	EventTicker  string `json:"event_ticker"`
	SeriesTicker string `json:"series_ticker"`
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Status       string `json:"status"`
	YesBid       int    `json:"yes_bid"`
	YesAsk       int    `json:"yes_ask"`
	NoBid        int    `json:"no_bid"`
	NoAsk        int    `json:"no_ask"`
	YesPrice     int    `json:"yes_price"`
	LastPrice    int    `json:"last_price"`
	Volume       int64  `json:"volume"`
	OpenInterest int64  `json:"open_interest"`
}

// ImpliedYesProb derives the market's YES probability from its price
// fields: yes_price when present, last_price otherwise, midpoint default
// when both are absent.
func (m *Market) ImpliedYesProb() float64 {
	price := m.YesPrice
	if price == 0 {
		price = m.LastPrice
	}
	if price == 0 {
		price = 50
	}
	return float64(price) / 100
}

// MarketsPage is one page of a paginated /markets listing. An empty
// cursor marks the terminal page.
type MarketsPage struct {
	Markets []Market `json:"markets"`
	Cursor  string   `json:"cursor"`
}

// Event groups related markets under one event ticker.
type Event struct {
	EventTicker  string   `json:"event_ticker"`
	SeriesTicker string   `json:"series_ticker"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Markets      []Market `json:"markets,omitempty"`
}

// EventsPage is one page of a paginated /events listing.
type EventsPage struct {
	Events []Event `json:"events"`
	Cursor string  `json:"cursor"`
}

// RawOrderbook is the wire shape of GET /markets/{ticker}/orderbook.
// Each side is a list of [price_cents, quantity] pairs sorted best-first.
type RawOrderbook struct {
	Yes [][]int `json:"yes"`
	No  [][]int `json:"no"`
}

// Balance is the portfolio cash balance in cents.
type Balance struct {
	BalanceCents int64 `json:"balance"`
}

// USD converts the balance to dollars.
func (b *Balance) USD() float64 {
	return float64(b.BalanceCents) / 100
}

// Position is one open contract position.
type Position struct {
	Ticker        string `json:"ticker"`
	Position      int    `json:"position"` // signed contract count, positive = YES
	MarketExposed int64  `json:"market_exposure"`
	RealizedPnl   int64  `json:"realized_pnl"`
	TotalTraded   int64  `json:"total_traded"`
}

// PositionsPage is one page of portfolio positions.
type PositionsPage struct {
	MarketPositions []Position `json:"market_positions"`
	Cursor          string     `json:"cursor"`
}

// Fill is one executed trade.
type Fill struct {
	TradeID   string `json:"trade_id"`
	Ticker    string `json:"ticker"`
	OrderID   string `json:"order_id"`
	Side      Side   `json:"side"`
	Action    string `json:"action"`
	Count     int    `json:"count"`
	YesPrice  int    `json:"yes_price"`
	NoPrice   int    `json:"no_price"`
	IsTaker   bool   `json:"is_taker"`
	CreatedAt string `json:"created_time"`
}

// FillsPage is one page of portfolio fills.
type FillsPage struct {
	Fills  []Fill `json:"fills"`
	Cursor string `json:"cursor"`
}

// Order is one resting or historical exchange order.
type Order struct {
	OrderID   string `json:"order_id"`
	Ticker    string `json:"ticker"`
	Side      Side   `json:"side"`
	Action    string `json:"action"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	YesPrice  int    `json:"yes_price"`
	NoPrice   int    `json:"no_price"`
	Count     int    `json:"count"`
	Remaining int    `json:"remaining_count"`
	CreatedAt string `json:"created_time"`
}

// OrdersPage is one page of portfolio orders.
type OrdersPage struct {
	Orders []Order `json:"orders"`
	Cursor string  `json:"cursor"`
}

// OrderRequest is the body of POST /portfolio/orders. Exactly one of
// YesPrice / NoPrice is set, matching the side being bought.
type OrderRequest struct {
	Ticker   string `json:"ticker"`
	Action   string `json:"action"` // always "buy" in this suite
	Side     Side   `json:"side"`
	Type     string `json:"type"` // always "limit"
	Count    int    `json:"count"`
	YesPrice *int   `json:"yes_price,omitempty"`
	NoPrice  *int   `json:"no_price,omitempty"`
}

// OrderConfirmation is the response to a successful order submission.
type OrderConfirmation struct {
	Order Order `json:"order"`
}
