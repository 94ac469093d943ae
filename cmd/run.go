package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"kalshi-alpha/internal/app"
	"kalshi-alpha/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the signal-and-execution engine",
	Long: `Starts the scan cycle, which each interval will:
1. Scan open-market orderbooks for liquidity voids
2. Classify primary-source news feeds through the LLM
3. Compare exchange prices against the external reference venue
4. Size the combined signals under fee-adjusted Kelly and commit orders

Paper mode (the default) appends intended trades to a JSONL journal.
Use --once to run a single cycle and exit.`,
	RunE: runEngine,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("once", false, "Run a single scan cycle and exit")
}

func runEngine(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	once, _ := cmd.Flags().GetBool("once")

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run(&app.Options{SingleCycle: once})
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
