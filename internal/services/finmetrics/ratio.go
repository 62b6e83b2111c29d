package finmetrics

import (
	"fmt"

	"FinLens/internal/domain/models"

	"github.com/guregu/null/v6"
)

// Ratio divides two optional fields. A missing operand or a denominator that
// is not strictly positive makes the ratio unavailable; nothing is defaulted.
func Ratio(num, den null.Float, numName, denName string) (float64, error) {
	if !num.Valid {
		return 0, fmt.Errorf("%s: %w", numName, models.ErrMissingField)
	}
	if !den.Valid {
		return 0, fmt.Errorf("%s: %w", denName, models.ErrMissingField)
	}
	if den.Float64 <= 0 {
		return 0, fmt.Errorf("%s is %g: %w", denName, den.Float64, models.ErrDegenerateInput)
	}
	return num.Float64 / den.Float64, nil
}

// SupplementaryRatios computes ROE, ROA, net margin, debt/EBITDA and passes
// free cash flow through.
func SupplementaryRatios(p models.CompanyProfile) models.Ratios {
	fcf := models.NotAvailable(fmt.Errorf("free cash flow: %w", models.ErrMissingField))
	if p.FreeCashFlow.Valid {
		fcf = models.Available(p.FreeCashFlow.Float64)
	}
	return models.Ratios{
		ROE:          models.MetricOf(Ratio(p.NetIncome, p.Equity(), "net income", "equity")),
		ROA:          models.MetricOf(Ratio(p.NetIncome, p.TotalAssets, "net income", "total assets")),
		NetMargin:    models.MetricOf(Ratio(p.NetIncome, p.TotalRevenue, "net income", "total revenue")),
		DebtToEBITDA: models.MetricOf(Ratio(p.TotalDebt, p.EBITDA, "total debt", "ebitda")),
		FreeCashFlow: fcf,
	}
}
