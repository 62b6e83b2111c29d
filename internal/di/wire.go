//go:build wireinject
// +build wireinject

package di

import (
	"FinLens/internal/usecase"
	"FinLens/pkg/config"
	"FinLens/pkg/server"

	"github.com/google/wire"
)

var coreSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideCache,
	ProvideMarketData,
	ProvideAnalyzer,
)

// InitializeApp wires up the HTTP service.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		coreSet,
		ProvideRateLimiter,
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeAnalyzer wires the pipeline alone, for the report CLI.
func InitializeAnalyzer(cfg *config.Config) (*usecase.Analyzer, func(), error) {
	wire.Build(coreSet)
	return nil, nil, nil
}
