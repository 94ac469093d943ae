package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run(opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}

	a.logger.Info("application-starting",
		zap.String("mode", a.cfg.Mode()),
		zap.Duration("cycle-interval", a.cfg.CycleInterval),
		zap.Float64("bankroll-usd", a.bankrollUSD),
		zap.String("log-level", a.cfg.LogLevel))

	a.wg.Add(1)
	go a.runHTTPServer()

	if a.breaker != nil {
		a.breaker.Start(a.ctx)
	}

	a.healthChecker.SetReady(true)
	a.logger.Info("application-ready", zap.String("http-addr", ":"+a.cfg.HTTPPort))

	a.wg.Add(1)
	go a.runCycleLoop(opts.SingleCycle)

	return a.waitForShutdown()
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

// runCycleLoop runs scan cycles until cancellation. The first cycle
// starts immediately rather than one interval in.
func (a *App) runCycleLoop(singleCycle bool) {
	defer a.wg.Done()

	for {
		a.runCycle(a.ctx)
		a.healthChecker.CycleCompleted()

		if singleCycle {
			a.logger.Info("single-cycle-complete")
			a.cancel()
			return
		}

		select {
		case <-a.ctx.Done():
			a.logger.Info("cycle-loop-stopped")
			return
		case <-time.After(a.cfg.CycleInterval):
		}
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
