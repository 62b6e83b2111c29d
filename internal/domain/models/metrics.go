package models

import (
	"time"

	"github.com/guregu/null/v6"
)

type MetricStatus string

const (
	StatusOK           MetricStatus = "ok"
	StatusNotAvailable MetricStatus = "not_available"
)

type Reason string

const (
	ReasonMissingField        Reason = "missing_field"
	ReasonDegenerateInput     Reason = "degenerate_input"
	ReasonInsufficientHistory Reason = "insufficient_history"
	ReasonUnknown             Reason = "unknown"
)

// Availability tells whether a computed value can be shown and, if not, why.
type Availability struct {
	Status MetricStatus `json:"status"`
	Reason Reason       `json:"reason,omitempty"`
	Detail string       `json:"detail,omitempty"`
}

func (a Availability) Available() bool { return a.Status == StatusOK }

// Metric is a single numeric result. Value is null whenever Status is not_available.
type Metric struct {
	Value null.Float `json:"value"`
	Availability
}

// Available builds an ok metric.
func Available(v float64) Metric {
	return Metric{Value: null.FloatFrom(v), Availability: Availability{Status: StatusOK}}
}

// NotAvailable builds an unavailable metric from the error that prevented it.
func NotAvailable(err error) Metric {
	return Metric{Availability: unavailable(err)}
}

// MetricOf wraps a (value, error) pair produced by the engine.
func MetricOf(v float64, err error) Metric {
	if err != nil {
		return NotAvailable(err)
	}
	return Available(v)
}

func unavailable(err error) Availability {
	a := Availability{Status: StatusNotAvailable, Reason: ReasonFor(err)}
	if err != nil {
		a.Detail = err.Error()
	}
	return a
}

// HorizonReturn is the annualized return over a trailing horizon in years.
type HorizonReturn struct {
	Years int `json:"years"`
	Metric
}

type Signal string

const (
	SignalBuy  Signal = "Buy"
	SignalSell Signal = "Sell"
	SignalHold Signal = "Hold"
)

// Trend is the moving-average crossover reading for the latest session.
type Trend struct {
	Signal Signal `json:"signal,omitempty"`
	MA50   Metric `json:"ma50"`
	MA200  Metric `json:"ma200"`
	Availability
}

// TrendOf builds a Trend from the two averages, or an unavailable one.
func TrendOf(signal Signal, ma50, ma200 float64) Trend {
	return Trend{
		Signal:       signal,
		MA50:         Available(ma50),
		MA200:        Available(ma200),
		Availability: Availability{Status: StatusOK},
	}
}

func TrendNotAvailable(err error) Trend {
	return Trend{
		MA50:         NotAvailable(err),
		MA200:        NotAvailable(err),
		Availability: unavailable(err),
	}
}

type ZoneName string

const (
	ZoneSafe     ZoneName = "safe"
	ZoneGrey     ZoneName = "grey"
	ZoneDistress ZoneName = "distress"
)

// ZScore is the Altman Z-Score together with its five ratios.
type ZScore struct {
	Score               Metric   `json:"score"`
	DistressProbability Metric   `json:"distress_probability"`
	Zone                ZoneName `json:"zone,omitempty"`
	X1                  Metric   `json:"x1_working_capital_to_assets"`
	X2                  Metric   `json:"x2_retained_earnings_to_assets"`
	X3                  Metric   `json:"x3_ebit_to_assets"`
	X4                  Metric   `json:"x4_market_cap_to_debt"`
	X5                  Metric   `json:"x5_revenue_to_assets"`
}

type Ratios struct {
	ROE          Metric `json:"roe"`
	ROA          Metric `json:"roa"`
	NetMargin    Metric `json:"net_margin"`
	DebtToEBITDA Metric `json:"debt_to_ebitda"`
	FreeCashFlow Metric `json:"free_cash_flow"`
}

// MetricsResult holds every derived metric for one request.
type MetricsResult struct {
	Horizons        []int           `json:"horizons"`
	CAGR            []HorizonReturn `json:"cagr"`
	Volatility      Metric          `json:"volatility"`
	Beta            Metric          `json:"beta"`
	BenchmarkSymbol string          `json:"benchmark_symbol"`
	ZScore          ZScore          `json:"z_score"`
	Trend           Trend           `json:"trend"`
	Ratios          Ratios          `json:"ratios"`
}

// Analysis is the full report for a ticker. It is built per request and never stored.
type Analysis struct {
	ID          string         `json:"id"`
	Ticker      string         `json:"ticker"`
	GeneratedAt time.Time      `json:"generated_at"`
	Profile     CompanyProfile `json:"profile"`
	Summary     SeriesSummary  `json:"summary"`
	Metrics     MetricsResult  `json:"metrics"`
	Series      PriceSeries    `json:"-"`
}
