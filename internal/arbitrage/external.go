package arbitrage

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"kalshi-alpha/pkg/types"
)

// ExternalMarket is one market on the reference venue. Field names vary
// across venue API versions, so probability extraction tries several.
type ExternalMarket struct {
	Question       string
	Title          string
	OutcomePrices  []float64
	YesPrice       *float64
	LastTradePrice *float64
}

// UnmarshalJSON tolerates outcome prices encoded as numbers, as strings,
// or as one JSON-encoded string holding an array.
func (m *ExternalMarket) UnmarshalJSON(data []byte) error {
	var wire struct {
		Question       string          `json:"question"`
		Title          string          `json:"title"`
		OutcomePrices  json.RawMessage `json:"outcomePrices"`
		YesPrice       *float64        `json:"yes_price"`
		LastTradePrice *float64        `json:"lastTradePrice"`
	}

	err := json.Unmarshal(data, &wire)
	if err != nil {
		return err
	}

	m.Question = wire.Question
	m.Title = wire.Title
	m.YesPrice = wire.YesPrice
	m.LastTradePrice = wire.LastTradePrice
	m.OutcomePrices = parseOutcomePrices(wire.OutcomePrices)

	return nil
}

func parseOutcomePrices(raw json.RawMessage) []float64 {
	if len(raw) == 0 {
		return nil
	}

	var numbers []float64
	if json.Unmarshal(raw, &numbers) == nil {
		return numbers
	}

	var strs []string
	if json.Unmarshal(raw, &strs) == nil {
		return parseFloats(strs)
	}

	// Some venue responses double-encode: "[\"0.62\", \"0.38\"]".
	var encoded string
	if json.Unmarshal(raw, &encoded) == nil {
		if json.Unmarshal([]byte(encoded), &strs) == nil {
			return parseFloats(strs)
		}
	}

	return nil
}

func parseFloats(strs []string) []float64 {
	out := make([]float64, 0, len(strs))
	for _, s := range strs {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		out = append(out, v)
	}
	return out
}

// DisplayTitle returns the market's question, falling back to its title.
func (m *ExternalMarket) DisplayTitle() string {
	if m.Question != "" {
		return m.Question
	}
	return m.Title
}

// YesProb extracts the venue's YES probability, trying outcomePrices[0],
// yes_price, then lastTradePrice, defaulting to the midpoint.
func (m *ExternalMarket) YesProb() float64 {
	if len(m.OutcomePrices) > 0 {
		return m.OutcomePrices[0]
	}
	if m.YesPrice != nil {
		return *m.YesPrice
	}
	if m.LastTradePrice != nil {
		return *m.LastTradePrice
	}
	return 0.5
}

// ExternalClient fetches active markets from the reference venue.
type ExternalClient struct {
	http *resty.Client
}

// NewExternalClient creates a reference-venue client.
func NewExternalClient(baseURL string) *ExternalClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")

	return &ExternalClient{http: client}
}

// ActiveMarkets fetches up to 100 active venue markets. The venue returns
// either a bare array or a paginated wrapper.
func (c *ExternalClient) ActiveMarkets(ctx context.Context) ([]ExternalMarket, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("active", "true").
		SetQueryParam("limit", "100").
		Get("/markets")
	if err != nil {
		return nil, &types.TransportError{Op: "fetch external markets", Err: err}
	}
	if resp.IsError() {
		return nil, &types.APIError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("external venue: %s", resp.Status()),
			Body:    resp.String(),
		}
	}

	body := resp.Body()

	var markets []ExternalMarket
	if json.Unmarshal(body, &markets) == nil {
		return markets, nil
	}

	var wrapper struct {
		Data    []ExternalMarket `json:"data"`
		Markets []ExternalMarket `json:"markets"`
	}
	err = json.Unmarshal(body, &wrapper)
	if err != nil {
		return nil, &types.APIError{Status: resp.StatusCode(), Message: "parse external markets", Body: string(body[:min(len(body), 500)])}
	}

	if wrapper.Data != nil {
		return wrapper.Data, nil
	}
	return wrapper.Markets, nil
}
