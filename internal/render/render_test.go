package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"FinLens/internal/domain/models"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAnalysis(points int) *models.Analysis {
	pts := make([]models.PricePoint, points)
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range pts {
		pts[i] = models.PricePoint{Date: d.AddDate(0, 0, i), Close: 100 + float64(i%17)}
	}
	series := models.NewPriceSeries("ACME", pts)
	missing := fmt.Errorf("total debt: %w", models.ErrMissingField)

	return &models.Analysis{
		ID:          "id-1",
		Ticker:      "ACME",
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Profile: models.CompanyProfile{
			Symbol:      "ACME",
			Name:        "Acme Corp",
			Sector:      "Industrials",
			Description: "Makes anvils. Société générale d'enclumes.",
			Currency:    "USD",
			MarketCap:   null.FloatFrom(2660000000),
			Price:       null.FloatFrom(172.5),
		},
		Summary: series.Summary(),
		Series:  series,
		Metrics: models.MetricsResult{
			Horizons: []int{1, 3, 5},
			CAGR: []models.HorizonReturn{
				{Years: 1, Metric: models.Available(0.1234)},
				{Years: 3, Metric: models.NotAvailable(fmt.Errorf("3y: %w", models.ErrInsufficientHistory))},
				{Years: 5, Metric: models.NotAvailable(fmt.Errorf("5y: %w", models.ErrInsufficientHistory))},
			},
			Volatility:      models.Available(0.25),
			Beta:            models.Available(1.234567),
			BenchmarkSymbol: "^GSPC",
			ZScore: models.ZScore{
				Score:               models.NotAvailable(missing),
				DistressProbability: models.NotAvailable(missing),
			},
			Trend: models.TrendOf(models.SignalBuy, 110, 105),
			Ratios: models.Ratios{
				ROE:          models.Available(0.15),
				ROA:          models.NotAvailable(errors.New("boom")),
				NetMargin:    models.Available(0.05),
				DebtToEBITDA: models.Available(2),
				FreeCashFlow: models.Available(-1500000),
			},
		},
	}
}

func TestPercentAndFixed(t *testing.T) {
	assert.Equal(t, "12.34%", Percent(models.Available(0.1234)))
	assert.Equal(t, "-5.00%", Percent(models.Available(-0.05)))
	assert.Equal(t, NA, Percent(models.NotAvailable(models.ErrDegenerateInput)))
	assert.Equal(t, "1.2346", Fixed(models.Available(1.234567), 4))
	assert.Equal(t, NA, Fixed(models.Metric{}, 2))
}

func TestGrouped(t *testing.T) {
	assert.Equal(t, "2,660,000,000", Grouped(null.FloatFrom(2.66e9)))
	assert.Equal(t, "999", Grouped(null.FloatFrom(999)))
	assert.Equal(t, "1,000", Grouped(null.FloatFrom(1000)))
	assert.Equal(t, "-1,500,000", Grouped(null.FloatFrom(-1.5e6)))
	assert.Equal(t, "0", Grouped(null.FloatFrom(0)))
	assert.Equal(t, "0", Grouped(null.FloatFrom(-0.3)))
	assert.Equal(t, "3,100,000,000,001", Grouped(null.FloatFrom(3.1e12+0.6)))
	assert.Equal(t, NA, Grouped(null.Float{}))
}

func TestTextReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text{}.Render(&buf, sampleAnalysis(30)))
	out := buf.String()

	assert.Contains(t, out, "ACME financial analysis")
	assert.Contains(t, out, "12.34%")
	assert.Contains(t, out, "N/A (insufficient history)")
	assert.Contains(t, out, "1.2346")
	assert.Contains(t, out, "2,660,000,000 USD")
	assert.Contains(t, out, "Buy")
	assert.Contains(t, out, "N/A (missing field)")
	assert.Contains(t, out, "N/A (unknown)")
	assert.Contains(t, out, "Beta vs ^GSPC")
	assert.True(t, strings.HasPrefix(out, "ACME"))
}

func TestTextRejectsNil(t *testing.T) {
	assert.Error(t, Text{}.Render(&bytes.Buffer{}, nil))
}

func TestPDFReport(t *testing.T) {
	for _, n := range []int{0, 1, 30, 1500} {
		var buf bytes.Buffer
		require.NoError(t, PDF{}.Render(&buf, sampleAnalysis(n)), "points=%d", n)
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "points=%d", n)
	}
	assert.Equal(t, "application/pdf", PDF{}.ContentType())
}
