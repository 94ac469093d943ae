// Package gateway implements the signed REST client for the exchange:
//   - GET  /markets, /markets/{ticker}, /markets/{ticker}/orderbook
//   - GET  /events, /events/{ticker}
//   - GET  /portfolio/balance, /positions, /fills, /orders
//   - POST /portfolio/orders, DELETE /portfolio/orders[/{id}]
//
// Every request carries fresh Ed25519 auth headers, is paced by a shared
// token bucket, and is retried on HTTP 429 honoring Retry-After.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"kalshi-alpha/pkg/types"
)

const (
	defaultRetryAfter = 2 * time.Second
	defaultMaxRetries = 3
)

// Client is the authenticated exchange REST client. One Client owns one
// connection pool; components hold their own Client or share this one
// read-only.
type Client struct {
	baseURL    string
	basePath   string // path prefix included in the signed payload
	httpClient *http.Client
	signer     *Signer
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger

	// sleep is swapped out in tests to observe retry backoff.
	sleep func(ctx context.Context, d time.Duration) error
}

// Config holds gateway client configuration.
type Config struct {
	BaseURL    string
	Signer     *Signer
	RPS        float64
	Burst      int
	Timeout    time.Duration
	MaxRetries int
	Logger     *zap.Logger
}

// NewClient creates an exchange client.
func NewClient(cfg *Config) (*Client, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, &types.ConfigError{Field: "exchange base URL", Message: err.Error()}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}

	rps := cfg.RPS
	if rps == 0 {
		rps = 10
	}

	burst := cfg.Burst
	if burst == 0 {
		burst = 20
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		basePath:   parsed.Path,
		httpClient: &http.Client{Timeout: timeout},
		signer:     cfg.Signer,
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		maxRetries: maxRetries,
		logger:     cfg.Logger,
		sleep:      sleepCtx,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// request performs one signed request with rate pacing and 429 retry.
// A nil byte slice is returned for 204 responses.
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return nil, &types.TransportError{Op: "rate wait", Err: err}
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
	}

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}
	signPath := c.basePath + path

	for attempt := 0; ; attempt++ {
		start := time.Now()

		respBody, status, reqErr := c.do(ctx, method, requestURL, signPath, payload)
		RequestDurationSeconds.Observe(time.Since(start).Seconds())
		RequestsTotal.Inc()

		if reqErr != nil {
			RequestErrorsTotal.Inc()
			return nil, reqErr
		}

		if status == http.StatusTooManyRequests {
			if attempt >= c.maxRetries {
				RequestErrorsTotal.Inc()
				return nil, &types.RateLimited{Path: path, Retries: c.maxRetries}
			}

			wait := retryAfter(respBody.header)
			RateLimitRetriesTotal.Inc()
			c.logger.Warn("rate-limited",
				zap.String("path", path),
				zap.Duration("retry-after", wait),
				zap.Int("attempt", attempt+1))

			err = c.sleep(ctx, wait)
			if err != nil {
				return nil, &types.TransportError{Op: "retry backoff", Err: err}
			}
			continue
		}

		if status == http.StatusUnauthorized {
			RequestErrorsTotal.Inc()
			return nil, &types.AuthError{Message: fmt.Sprintf("unauthorized on %s %s", method, path)}
		}

		if status >= http.StatusBadRequest {
			RequestErrorsTotal.Inc()
			return nil, apiError(status, respBody.data)
		}

		if status == http.StatusNoContent {
			return nil, nil
		}

		return respBody.data, nil
	}
}

type response struct {
	data   []byte
	header http.Header
}

// do executes a single HTTP attempt with freshly signed headers.
func (c *Client) do(ctx context.Context, method, requestURL, signPath string, payload []byte) (response, int, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return response{}, 0, &types.TransportError{Op: "build request", Err: err}
	}

	for key, value := range c.signer.Headers(method, signPath) {
		req.Header.Set(key, value)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response{}, 0, &types.TransportError{Op: method + " " + signPath, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return response{}, 0, &types.TransportError{Op: "read response", Err: err}
	}

	return response{data: data, header: resp.Header}, resp.StatusCode, nil
}

func retryAfter(header http.Header) time.Duration {
	value := header.Get("Retry-After")
	if value == "" {
		return defaultRetryAfter
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}

	return time.Duration(seconds) * time.Second
}

func apiError(status int, body []byte) error {
	var wire struct {
		Message string `json:"message"`
		Error   struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	message := ""
	if json.Unmarshal(body, &wire) == nil {
		message = wire.Message
		if message == "" {
			message = wire.Error.Message
		}
	}
	if message == "" {
		message = truncate(string(body), 200)
	}

	return &types.APIError{Status: status, Message: message, Body: string(body)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// decode unmarshals a response into a typed record. Unknown fields are
// ignored; a malformed document surfaces as a parse APIError.
func decode[T any](data []byte, out *T) error {
	err := json.Unmarshal(data, out)
	if err != nil {
		return &types.APIError{
			Status:  http.StatusOK,
			Message: fmt.Sprintf("parse response: %v", err),
			Body:    truncate(string(data), 500),
		}
	}
	return nil
}
