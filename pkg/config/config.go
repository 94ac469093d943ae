// Package config loads the immutable suite configuration from the
// environment once at startup. No component reads the process environment
// after LoadFromEnv returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"kalshi-alpha/pkg/types"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	LogDir   string
	HTTPPort string

	// Exchange API
	ExchangeBaseURL string
	AccessKey       string // signing principal (key identifier)
	PrivateKeyB64   string // base64 Ed25519 key (PEM or raw 32-byte seed)
	PrivateKeyPath  string // alternatively, path to a PEM file
	ExchangeRPS     float64
	ExchangeBurst   int

	// LLM backend
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// External reference venue
	ExternalVenueURL string

	// Execution parameters
	PaperTrading         bool
	FeeRate              float64 // exchange fee on profit
	SpreadThresholdCents int     // orderbook-void cutoff
	KellyEdgeMin         float64 // sizing gate on raw f*
	NLPProbShiftMin      float64 // minimum |prob_shift| for NLP signals
	MaxPositionUSD       float64 // per-order cap
	KellyFraction        float64 // fractional-Kelly safety factor

	// Orchestration
	CycleInterval   time.Duration
	ScanMarketLimit int // markets scanned per cycle by the orderbook scanner
	ScanConcurrency int // concurrent orderbook fetches per page

	// Balance circuit breaker (live mode only)
	BreakerCheckInterval   time.Duration
	BreakerTradeMultiplier float64
	BreakerMinAbsolute     float64
	BreakerHysteresis      float64
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		LogDir:   getEnvOrDefault("LOG_DIR", "./logs"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Exchange defaults
		ExchangeBaseURL: getEnvOrDefault("EXCHANGE_BASE_URL", "https://api.elections.kalshi.com/trade-api/v2"),
		AccessKey:       os.Getenv("EXCHANGE_ACCESS_KEY"),
		PrivateKeyB64:   os.Getenv("EXCHANGE_PRIVATE_KEY_B64"),
		PrivateKeyPath:  os.Getenv("EXCHANGE_PRIVATE_KEY_PATH"),
		ExchangeRPS:     getFloat64OrDefault("EXCHANGE_RPS", 10.0),
		ExchangeBurst:   getIntOrDefault("EXCHANGE_BURST", 20),

		// LLM defaults
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o"),
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),

		// External venue defaults
		ExternalVenueURL: getEnvOrDefault("EXTERNAL_VENUE_URL", "https://clob.polymarket.com"),

		// Execution defaults
		PaperTrading:         getBoolOrDefault("PAPER_TRADING", true),
		FeeRate:              getFloat64OrDefault("FEE_RATE", 0.07),
		SpreadThresholdCents: getIntOrDefault("SPREAD_THRESHOLD_CENTS", 3),
		KellyEdgeMin:         getFloat64OrDefault("KELLY_EDGE_MIN", 0.05),
		NLPProbShiftMin:      getFloat64OrDefault("NLP_PROB_SHIFT_MIN", 0.10),
		MaxPositionUSD:       getFloat64OrDefault("MAX_POSITION_USD", 500.0),
		KellyFraction:        getFloat64OrDefault("KELLY_FRACTION", 0.25),

		// Orchestration defaults
		CycleInterval:   getDurationOrDefault("CYCLE_INTERVAL", 60*time.Second),
		ScanMarketLimit: getIntOrDefault("SCAN_MARKET_LIMIT", 200),
		ScanConcurrency: getIntOrDefault("SCAN_CONCURRENCY", 32),

		// Circuit breaker defaults
		BreakerCheckInterval:   getDurationOrDefault("BREAKER_CHECK_INTERVAL", 30*time.Second),
		BreakerTradeMultiplier: getFloat64OrDefault("BREAKER_TRADE_MULTIPLIER", 3.0),
		BreakerMinAbsolute:     getFloat64OrDefault("BREAKER_MIN_ABSOLUTE_USD", 50.0),
		BreakerHysteresis:      getFloat64OrDefault("BREAKER_HYSTERESIS_RATIO", 1.5),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.ExchangeBaseURL == "" {
		return &types.ConfigError{Field: "EXCHANGE_BASE_URL", Message: "cannot be empty"}
	}

	if c.AccessKey == "" {
		return &types.ConfigError{Field: "EXCHANGE_ACCESS_KEY", Message: "required"}
	}

	if c.PrivateKeyB64 == "" && c.PrivateKeyPath == "" {
		return &types.ConfigError{
			Field:   "EXCHANGE_PRIVATE_KEY_B64",
			Message: "provide EXCHANGE_PRIVATE_KEY_B64 or EXCHANGE_PRIVATE_KEY_PATH",
		}
	}

	if c.FeeRate < 0 || c.FeeRate >= 1.0 {
		return &types.ConfigError{
			Field:   "FEE_RATE",
			Message: fmt.Sprintf("must be in [0, 1), got %f", c.FeeRate),
		}
	}

	if c.KellyFraction <= 0 || c.KellyFraction > 1.0 {
		return &types.ConfigError{
			Field:   "KELLY_FRACTION",
			Message: fmt.Sprintf("must be in (0, 1], got %f", c.KellyFraction),
		}
	}

	if c.MaxPositionUSD <= 0 {
		return &types.ConfigError{
			Field:   "MAX_POSITION_USD",
			Message: fmt.Sprintf("must be positive, got %f", c.MaxPositionUSD),
		}
	}

	if c.SpreadThresholdCents < 0 {
		return &types.ConfigError{
			Field:   "SPREAD_THRESHOLD_CENTS",
			Message: fmt.Sprintf("must be non-negative, got %d", c.SpreadThresholdCents),
		}
	}

	if c.ScanConcurrency <= 0 {
		return &types.ConfigError{
			Field:   "SCAN_CONCURRENCY",
			Message: fmt.Sprintf("must be positive, got %d", c.ScanConcurrency),
		}
	}

	if c.CycleInterval <= 0 {
		return &types.ConfigError{
			Field:   "CYCLE_INTERVAL",
			Message: fmt.Sprintf("must be positive, got %v", c.CycleInterval),
		}
	}

	return nil
}

// Mode returns "paper" or "live" for logging.
func (c *Config) Mode() string {
	if c.PaperTrading {
		return "paper"
	}
	return "live"
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
