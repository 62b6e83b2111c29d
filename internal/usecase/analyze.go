package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"FinLens/internal/domain/models"
	domrepo "FinLens/internal/domain/repository"
	domsvc "FinLens/internal/domain/service"
	"FinLens/internal/services/finmetrics"
	xlogger "FinLens/pkg/logger"
	"FinLens/pkg/util"

	"github.com/google/uuid"
)

// Analyzer runs the fetch-then-compute pipeline for one ticker.
type Analyzer struct {
	market  domrepo.MarketData
	metrics domrepo.Metrics
	logger  *xlogger.Logger
	timeout time.Duration
	now     func() time.Time
}

var _ domsvc.Analyzer = (*Analyzer)(nil)

type AnalyzerOption func(*Analyzer)

func WithMetrics(m domrepo.Metrics) AnalyzerOption {
	return func(a *Analyzer) { a.metrics = m }
}

func WithLogger(l *xlogger.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithTimeout bounds the whole pipeline, upstream calls included.
func WithTimeout(d time.Duration) AnalyzerOption {
	return func(a *Analyzer) { a.timeout = d }
}

func NewAnalyzer(market domrepo.MarketData, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		market:  market,
		logger:  xlogger.Nop(),
		timeout: 30 * time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze fetches the profile, the history and the benchmark in that order,
// then computes every metric. An unknown ticker aborts with
// models.ErrInvalidTicker before any further call. A failed profile or
// benchmark fetch only makes the metrics that need it unavailable.
func (a *Analyzer) Analyze(ctx context.Context, ticker string) (*models.Analysis, error) {
	start := a.now()
	symbol := util.NormalizeTicker(ticker)
	if symbol == "" {
		return nil, fmt.Errorf("empty ticker: %w", models.ErrInvalidTicker)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	profile, profileErr := a.market.GetProfile(ctx, symbol)
	if errors.Is(profileErr, domrepo.ErrNotFound) {
		return nil, tickerError(symbol, "profile", profileErr)
	}

	history, err := a.market.GetHistory(ctx, symbol, finmetrics.LookbackPeriod)
	if err := tickerError(symbol, "history", err); err != nil {
		return nil, err
	}
	if history.Empty() {
		return nil, fmt.Errorf("%s: no price history: %w", symbol, models.ErrInvalidTicker)
	}
	if profileErr != nil {
		// Fundamentals become missing fields; price metrics still compute.
		a.logger.Warn("profile unavailable",
			xlogger.String("symbol", symbol),
			xlogger.Error(profileErr),
		)
		profile = models.CompanyProfile{Symbol: symbol}
	}

	bench, benchErr := a.market.GetHistory(ctx, finmetrics.BenchmarkSymbol, finmetrics.LookbackPeriod)
	if benchErr != nil {
		a.logger.Warn("benchmark unavailable",
			xlogger.String("symbol", symbol),
			xlogger.String("benchmark", finmetrics.BenchmarkSymbol),
			xlogger.Error(benchErr),
		)
	}

	res := finmetrics.Compute(finmetrics.Inputs{
		Series:       history,
		Profile:      profile,
		Benchmark:    bench,
		BenchmarkErr: benchErr,
	})
	a.recordAvailability(res)

	out := &models.Analysis{
		ID:          uuid.NewString(),
		Ticker:      symbol,
		GeneratedAt: a.now().UTC(),
		Profile:     profile,
		Summary:     history.Summary(),
		Metrics:     res,
		Series:      history,
	}
	if a.metrics != nil {
		a.metrics.RecordLatency("analyze", a.now().Sub(start).Seconds())
	}
	a.logger.Info("analysis computed",
		xlogger.String("symbol", symbol),
		xlogger.String("id", out.ID),
		xlogger.Int("points", history.Len()),
		xlogger.Strings("unavailable", unavailable(res)),
		xlogger.Duration("duration_ms", a.now().Sub(start)),
	)
	return out, nil
}

// History returns the daily closes of ticker over period for charting.
func (a *Analyzer) History(ctx context.Context, ticker, period string) (models.PriceSeries, error) {
	symbol := util.NormalizeTicker(ticker)
	if symbol == "" {
		return models.PriceSeries{}, fmt.Errorf("empty ticker: %w", models.ErrInvalidTicker)
	}
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	s, err := a.market.GetHistory(ctx, symbol, period)
	if err := tickerError(symbol, "history", err); err != nil {
		return models.PriceSeries{}, err
	}
	if s.Empty() {
		return models.PriceSeries{}, fmt.Errorf("%s: no price history: %w", symbol, models.ErrInvalidTicker)
	}
	return s, nil
}

func tickerError(symbol, what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domrepo.ErrNotFound):
		return fmt.Errorf("%s %s: %v: %w", symbol, what, err, models.ErrInvalidTicker)
	default:
		return fmt.Errorf("%s %s: %w", symbol, what, err)
	}
}

type metricStatus struct {
	name   string
	status models.MetricStatus
}

func statuses(res models.MetricsResult) []metricStatus {
	out := make([]metricStatus, 0, len(res.CAGR)+9)
	for _, h := range res.CAGR {
		out = append(out, metricStatus{"cagr_" + strconv.Itoa(h.Years) + "y", h.Status})
	}
	return append(out,
		metricStatus{"volatility", res.Volatility.Status},
		metricStatus{"beta", res.Beta.Status},
		metricStatus{"z_score", res.ZScore.Score.Status},
		metricStatus{"trend", res.Trend.Status},
		metricStatus{"roe", res.Ratios.ROE.Status},
		metricStatus{"roa", res.Ratios.ROA.Status},
		metricStatus{"net_margin", res.Ratios.NetMargin.Status},
		metricStatus{"debt_to_ebitda", res.Ratios.DebtToEBITDA.Status},
		metricStatus{"free_cash_flow", res.Ratios.FreeCashFlow.Status},
	)
}

// unavailable lists the metric names that could not be computed.
func unavailable(res models.MetricsResult) []string {
	var out []string
	for _, m := range statuses(res) {
		if m.status != models.StatusOK {
			out = append(out, m.name)
		}
	}
	return out
}

func (a *Analyzer) recordAvailability(res models.MetricsResult) {
	if a.metrics == nil {
		return
	}
	for _, m := range statuses(res) {
		a.metrics.RecordMetric(m.name, m.status)
	}
}
