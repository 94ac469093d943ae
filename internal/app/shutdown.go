package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	err := a.httpServer.Shutdown(shutdownCtx)
	if err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	// A cycle may still be committing trades; the recorder closes only
	// after the cycle loop has drained.
	a.wg.Wait()

	err = a.recorder.Close()
	if err != nil {
		a.logger.Error("recorder-close-error", zap.Error(err))
	}

	a.logger.Info("application-shutdown-complete")
	return nil
}
