// Package render turns an Analysis into human-readable reports.
package render

import (
	"math"
	"strconv"
	"strings"

	"FinLens/internal/domain/models"

	"github.com/dustin/go-humanize"
	"github.com/guregu/null/v6"
)

const NA = "N/A"

// Percent renders a fraction as "12.34%".
func Percent(m models.Metric) string {
	if !m.Available() || !m.Value.Valid {
		return NA
	}
	return strconv.FormatFloat(m.Value.Float64*100, 'f', 2, 64) + "%"
}

// Fixed renders a metric with prec decimals.
func Fixed(m models.Metric, prec int) string {
	if !m.Available() || !m.Value.Valid {
		return NA
	}
	return strconv.FormatFloat(m.Value.Float64, 'f', prec, 64)
}

// Grouped renders a whole amount with thousands separators, e.g. 2,660,000,000.
func Grouped(v null.Float) string {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return NA
	}
	r := math.Round(v.Float64)
	if math.Abs(r) >= math.MaxInt64 {
		return humanize.Commaf(r)
	}
	return humanize.Comma(int64(r))
}

// Plain renders an optional number with prec decimals.
func Plain(v null.Float, prec int) string {
	if !v.Valid {
		return NA
	}
	return strconv.FormatFloat(v.Float64, 'f', prec, 64)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NA
	}
	return s
}

// reasonOf explains an unavailable metric in a short parenthetical.
func reasonOf(a models.Availability) string {
	if a.Available() {
		return ""
	}
	if a.Reason == "" {
		return " (" + string(models.ReasonUnknown) + ")"
	}
	return " (" + strings.ReplaceAll(string(a.Reason), "_", " ") + ")"
}

type line struct {
	label string
	value string
}

// sections lays out the report once so text and PDF stay in step.
func sections(a *models.Analysis) []struct {
	title string
	lines []line
} {
	p := a.Profile
	m := a.Metrics

	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	returns := make([]line, 0, len(m.CAGR))
	for _, h := range m.CAGR {
		returns = append(returns, line{strconv.Itoa(h.Years) + "y", Percent(h.Metric) + reasonOf(h.Availability)})
	}

	zone := NA
	if m.ZScore.Zone != "" {
		zone = string(m.ZScore.Zone)
	}
	trend := NA
	if m.Trend.Available() {
		trend = string(m.Trend.Signal)
	}

	return []struct {
		title string
		lines []line
	}{
		{"Company", []line{
			{"Name", orNA(p.Name)},
			{"Sector", orNA(p.Sector)},
			{"Industry", orNA(p.Industry)},
			{"Market cap", Grouped(p.MarketCap) + " " + currency},
			{"Beta (reported)", Plain(p.Beta, 2)},
			{"Price", Plain(p.Price, 2) + " " + currency},
			{"P/E (TTM)", Plain(p.TrailingPE, 2)},
		}},
		{"Annualized returns", returns},
		{"Risk", []line{
			{"Volatility", Percent(m.Volatility) + reasonOf(m.Volatility.Availability)},
			{"Beta vs " + m.BenchmarkSymbol, Fixed(m.Beta, 4) + reasonOf(m.Beta.Availability)},
		}},
		{"Altman Z-Score", []line{
			{"Z", Fixed(m.ZScore.Score, 2) + reasonOf(m.ZScore.Score.Availability)},
			{"Zone", zone},
			{"Distress probability", Percent(m.ZScore.DistressProbability)},
		}},
		{"Trend", []line{
			{"Signal", trend + reasonOf(m.Trend.Availability)},
			{"MA50", Fixed(m.Trend.MA50, 2)},
			{"MA200", Fixed(m.Trend.MA200, 2)},
		}},
		{"Ratios", []line{
			{"ROE", Percent(m.Ratios.ROE) + reasonOf(m.Ratios.ROE.Availability)},
			{"ROA", Percent(m.Ratios.ROA) + reasonOf(m.Ratios.ROA.Availability)},
			{"Net margin", Percent(m.Ratios.NetMargin) + reasonOf(m.Ratios.NetMargin.Availability)},
			{"Debt/EBITDA", Fixed(m.Ratios.DebtToEBITDA, 2) + reasonOf(m.Ratios.DebtToEBITDA.Availability)},
			{"Free cash flow", Grouped(m.Ratios.FreeCashFlow.Value) + reasonOf(m.Ratios.FreeCashFlow.Availability)},
		}},
	}
}
