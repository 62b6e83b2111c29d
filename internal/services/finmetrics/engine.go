// Package finmetrics computes descriptive metrics for one company from its
// daily closes, a benchmark index and its fundamentals. Every function is
// pure: same inputs, same outputs, no shared state.
package finmetrics

import (
	"fmt"

	"FinLens/internal/domain/models"
)

const (
	// TradingDaysPerYear annualizes daily statistics.
	TradingDaysPerYear = 252
	// ShortWindow and LongWindow are the moving-average lengths of the trend signal.
	ShortWindow = 50
	LongWindow  = 200
	// MinBetaRows is the minimum number of aligned closes beta is estimated from.
	MinBetaRows = 3
	// BenchmarkSymbol is the market index beta is measured against.
	BenchmarkSymbol = "^GSPC"
	// LookbackPeriod is the history window requested from the gateway.
	LookbackPeriod = "5y"
)

// Horizons are the trailing windows, in years, of the annualized return.
var Horizons = []int{1, 3, 5}

// Inputs is everything one analysis is computed from.
type Inputs struct {
	Series  models.PriceSeries
	Profile models.CompanyProfile
	// Benchmark is ignored when BenchmarkErr is set.
	Benchmark    models.PriceSeries
	BenchmarkErr error
}

// Compute evaluates every metric independently. A failure in one never
// prevents the others from being computed.
func Compute(in Inputs) models.MetricsResult {
	res := models.MetricsResult{
		Horizons:        append([]int(nil), Horizons...),
		BenchmarkSymbol: BenchmarkSymbol,
	}

	for _, h := range Horizons {
		v, err := CAGR(in.Series, h)
		res.CAGR = append(res.CAGR, models.HorizonReturn{Years: h, Metric: models.MetricOf(v, err)})
	}

	res.Volatility = models.MetricOf(Volatility(in.Series))

	if in.BenchmarkErr != nil {
		res.Beta = models.NotAvailable(fmt.Errorf("benchmark %s unavailable (%v): %w",
			BenchmarkSymbol, in.BenchmarkErr, models.ErrMissingField))
	} else {
		res.Beta = models.MetricOf(Beta(in.Series, in.Benchmark))
	}

	res.ZScore = AltmanZ(in.Profile)
	res.Trend = Trend(in.Series)
	res.Ratios = SupplementaryRatios(in.Profile)
	return res
}
