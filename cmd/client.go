package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"kalshi-alpha/internal/gateway"
	"kalshi-alpha/pkg/config"
)

// newExchangeClient builds a signed gateway client for one-shot commands.
// These commands log to stderr only; the file sink is reserved for the
// long-running engine.
func newExchangeClient() (*gateway.Client, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	signer, err := gateway.NewSigner(cfg.AccessKey, cfg.PrivateKeyB64, cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}

	client, err := gateway.NewClient(&gateway.Config{
		BaseURL: cfg.ExchangeBaseURL,
		Signer:  signer,
		RPS:     cfg.ExchangeRPS,
		Burst:   cfg.ExchangeBurst,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create exchange client: %w", err)
	}

	return client, nil
}
