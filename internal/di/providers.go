package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"FinLens/internal/domain/repository"
	"FinLens/internal/handler/api"
	icache "FinLens/internal/service/cache"
	"FinLens/internal/service/ratelimit"
	"FinLens/internal/service/yahoo"
	"FinLens/internal/usecase"
	"FinLens/pkg/config"
	xhttp "FinLens/pkg/http"
	applogger "FinLens/pkg/logger"
	"FinLens/pkg/metrics"
	"FinLens/pkg/server"
)

// ProvideLogger builds the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache returns the raw payload cache, or nil when caching is off.
// An unreachable Redis is logged, not fatal: every cache error falls back to upstream.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (icache.BytesCache, func(), error) {
	bc, err := icache.New(cfg.Cache.Backend, icache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cache: %w", err)
	}

	cleanup := func() {}
	if rc, ok := bc.(*icache.RedisCache); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			l.Warn("redis ping failed", applogger.String("addr", cfg.Cache.Redis.Addr), applogger.Error(err))
		}
	}
	if c, ok := bc.(io.Closer); ok {
		cleanup = func() {
			if err := c.Close(); err != nil {
				l.Warn("cache close error", applogger.Error(err))
			}
		}
	}
	l.Info("cache ready", applogger.String("backend", cfg.Cache.Backend), applogger.Duration("ttl_ms", cfg.Cache.TTL))
	return bc, cleanup, nil
}

// ProvideMarketData creates the Yahoo Finance gateway.
func ProvideMarketData(cfg *config.Config, bc icache.BytesCache, m repository.Metrics, l *applogger.Logger) repository.MarketData {
	return yahoo.New(
		yahoo.WithChartURL(cfg.Yahoo.ChartURL),
		yahoo.WithSummaryURL(cfg.Yahoo.SummaryURL),
		yahoo.WithUserAgent(cfg.Yahoo.UserAgent),
		yahoo.WithTimeout(cfg.Yahoo.Timeout),
		yahoo.WithRateLimit(cfg.Yahoo.RatePerSec, cfg.Yahoo.Burst),
		yahoo.WithCache(bc, cfg.Cache.TTL),
		yahoo.WithMetrics(m),
		yahoo.WithLogger(l.With(applogger.String("component", "yahoo"))),
	)
}

// ProvideAnalyzer creates the analysis use case.
func ProvideAnalyzer(market repository.MarketData, m repository.Metrics, l *applogger.Logger) *usecase.Analyzer {
	return usecase.NewAnalyzer(market,
		usecase.WithMetrics(m),
		usecase.WithLogger(l.With(applogger.String("component", "analyzer"))),
	)
}

// ProvideRateLimiter returns the inbound limiter, or nil when disabled.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(int(cfg.RateLimit.Capacity), cfg.RateLimit.RefillPerSec)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(l *applogger.Logger, a *usecase.Analyzer, rl *ratelimit.Limiter) xhttp.Handler {
	return api.NewAnalysisEchoHandler(l, a, rl)
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h xhttp.Handler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(h,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(metricsPath),
		xhttp.WithLogger(l, cfg.Server.SlowThreshold),
	)
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, srv *xhttp.Server) *server.App {
	return server.New(cfg, l, srv)
}
