package repository

import (
	"context"
	"errors"

	"FinLens/internal/domain/models"
)

// ErrNotFound is returned by a MarketData implementation when the symbol has no data.
var ErrNotFound = errors.New("market data: not found")

// MarketData is the gateway to the quote provider.
type MarketData interface {
	GetProfile(ctx context.Context, symbol string) (models.CompanyProfile, error)
	GetHistory(ctx context.Context, symbol string, period string) (models.PriceSeries, error)
}

type Metrics interface {
	RecordFetch(kind, outcome string)
	RecordMetric(name string, status models.MetricStatus)
	RecordLatency(op string, seconds float64)
}
