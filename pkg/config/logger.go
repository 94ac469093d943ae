package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger writing JSON to stdout and to
// {logdir}/suite.log. Valid levels: debug, info, warn, error.
func NewLogger(levelStr, logDir string) (*zap.Logger, error) {
	if levelStr == "" {
		levelStr = "info"
	}

	var level zapcore.Level
	err := level.UnmarshalText([]byte(levelStr))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelStr, err)
	}

	outputs := []string{"stdout"}
	if logDir != "" {
		err = os.MkdirAll(logDir, 0o755)
		if err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		outputs = append(outputs, filepath.Join(logDir, "suite.log"))
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "json"
	cfg.OutputPaths = outputs
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return logger, nil
}
