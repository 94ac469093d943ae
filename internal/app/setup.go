package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"kalshi-alpha/internal/arbitrage"
	"kalshi-alpha/internal/circuitbreaker"
	"kalshi-alpha/internal/gateway"
	"kalshi-alpha/internal/markets"
	"kalshi-alpha/internal/news"
	"kalshi-alpha/internal/orderbook"
	"kalshi-alpha/internal/risk"
	"kalshi-alpha/internal/storage"
	"kalshi-alpha/pkg/cache"
	"kalshi-alpha/pkg/config"
	"kalshi-alpha/pkg/healthprobe"
	"kalshi-alpha/pkg/httpserver"
)

// New creates a new application instance. Live mode reads the bankroll
// from the exchange once here; it is not refreshed between cycles.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	exchange, err := setupExchange(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup exchange client: %w", err)
	}

	marketCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	catalog := markets.New(&markets.Config{
		Client: exchange,
		Cache:  marketCache,
		Limit:  cfg.ScanMarketLimit,
		Logger: logger,
	})

	voidScanner := orderbook.New(&orderbook.Config{
		Client:      exchange,
		Threshold:   cfg.SpreadThresholdCents,
		MarketLimit: cfg.ScanMarketLimit,
		Concurrency: cfg.ScanConcurrency,
		Logger:      logger,
	})

	newsAnalyzer := setupNewsAnalyzer(cfg, logger, catalog)

	arbScanner := arbitrage.New(&arbitrage.Config{
		Markets:  catalog,
		External: arbitrage.NewExternalClient(cfg.ExternalVenueURL),
		EdgeMin:  cfg.KellyEdgeMin,
		Logger:   logger,
	})

	recorder, err := setupRecorder(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup recorder: %w", err)
	}

	var breaker *circuitbreaker.Breaker
	if !cfg.PaperTrading {
		breaker, err = circuitbreaker.New(&circuitbreaker.Config{
			CheckInterval:   cfg.BreakerCheckInterval,
			TradeMultiplier: cfg.BreakerTradeMultiplier,
			MinAbsolute:     cfg.BreakerMinAbsolute,
			HysteresisRatio: cfg.BreakerHysteresis,
			Balances:        exchange,
			Logger:          logger,
		})
		if err != nil {
			cancel()
			return nil, fmt.Errorf("create circuit breaker: %w", err)
		}
	}

	executor := risk.New(&risk.Config{
		Placer:         exchange,
		Recorder:       recorder,
		Gate:           gate(breaker),
		Paper:          cfg.PaperTrading,
		FeeRate:        cfg.FeeRate,
		KellyFraction:  cfg.KellyFraction,
		KellyEdgeMin:   cfg.KellyEdgeMin,
		MaxPositionUSD: cfg.MaxPositionUSD,
		Logger:         logger,
	})

	bankroll, err := resolveBankroll(ctx, cfg, exchange, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("resolve bankroll: %w", err)
	}

	healthChecker := healthprobe.New()
	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Breaker:       breaker,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		exchange:      exchange,
		voidScanner:   voidScanner,
		newsAnalyzer:  newsAnalyzer,
		arbScanner:    arbScanner,
		executor:      executor,
		recorder:      recorder,
		breaker:       breaker,
		bankrollUSD:   bankroll,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// gate avoids storing a typed nil inside the risk.Gate interface.
func gate(breaker *circuitbreaker.Breaker) risk.Gate {
	if breaker == nil {
		return nil
	}
	return breaker
}

func setupExchange(cfg *config.Config, logger *zap.Logger) (*gateway.Client, error) {
	signer, err := gateway.NewSigner(cfg.AccessKey, cfg.PrivateKeyB64, cfg.PrivateKeyPath)
	if err != nil {
		return nil, err
	}

	return gateway.NewClient(&gateway.Config{
		BaseURL: cfg.ExchangeBaseURL,
		Signer:  signer,
		RPS:     cfg.ExchangeRPS,
		Burst:   cfg.ExchangeBurst,
		Logger:  logger,
	})
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupNewsAnalyzer(cfg *config.Config, logger *zap.Logger, catalog *markets.Catalog) *news.Analyzer {
	var completer news.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = news.NewOpenAIClient(&news.OpenAIConfig{
			BaseURL: cfg.OpenAIBaseURL,
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
		})
	}

	return news.New(&news.Config{
		Completer: completer,
		Fetcher:   news.NewFetcher(logger),
		Resolver:  catalog,
		ShiftMin:  cfg.NLPProbShiftMin,
		Logger:    logger,
	})
}

func setupRecorder(cfg *config.Config, logger *zap.Logger) (storage.Recorder, error) {
	if cfg.PaperTrading {
		journal, err := storage.NewJournal(cfg.LogDir, logger)
		if err != nil {
			return nil, fmt.Errorf("create trade journal: %w", err)
		}
		return journal, nil
	}

	return storage.NewLogRecorder(logger), nil
}

// resolveBankroll determines the sizing bankroll. Paper mode uses a fixed
// simulated bankroll; live mode reads the exchange balance once.
func resolveBankroll(ctx context.Context, cfg *config.Config, exchange *gateway.Client, logger *zap.Logger) (float64, error) {
	if cfg.PaperTrading {
		bankroll := cfg.MaxPositionUSD * 10
		logger.Info("paper-bankroll", zap.Float64("usd", bankroll))
		return bankroll, nil
	}

	balance, err := exchange.Balance(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}

	logger.Info("live-bankroll", zap.Float64("usd", balance.USD()))
	return balance.USD(), nil
}
