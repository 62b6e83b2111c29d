package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"FinLens/pkg/config"
	xhttp "FinLens/pkg/http"
	applogger "FinLens/pkg/logger"
)

// App encapsulates the HTTP service lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	httpServer *xhttp.Server
	closers    []io.Closer
}

// New creates a new App instance. closers are released after the server stops.
func New(cfg *config.Config, logger *applogger.Logger, httpServer *xhttp.Server, closers ...io.Closer) *App {
	if logger == nil {
		logger = applogger.Nop()
	}
	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		closers:    closers,
	}
}

// Run starts the application and blocks until interrupted or the listener fails.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("finlens started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("cache", a.cfg.Cache.Backend),
	)

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-a.httpServer.Errors():
	}

	a.shutdown()
	return runErr
}

// shutdown gracefully stops all services.
func (a *App) shutdown() {
	a.logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
}
