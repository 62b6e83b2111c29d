package finmetrics

import (
	"fmt"

	"FinLens/internal/domain/models"

	"gonum.org/v1/gonum/stat/distuv"
)

// Altman zone boundaries for public manufacturers.
const (
	SafeZoneFloor    = 2.99
	DistressZoneCeil = 1.81
)

var zWeights = [5]float64{1.2, 1.4, 3.3, 0.6, 1.0}

// ZFromRatios is the weighted sum 1.2x1 + 1.4x2 + 3.3x3 + 0.6x4 + 1.0x5.
func ZFromRatios(x [5]float64) float64 {
	z := 0.0
	for i, w := range zWeights {
		z += w * x[i]
	}
	return z
}

// DistressProbability is the standard normal CDF at -z.
func DistressProbability(z float64) float64 {
	return distuv.UnitNormal.CDF(-z)
}

// Zone classifies a score.
func Zone(z float64) models.ZoneName {
	switch {
	case z > SafeZoneFloor:
		return models.ZoneSafe
	case z < DistressZoneCeil:
		return models.ZoneDistress
	default:
		return models.ZoneGrey
	}
}

// AltmanZ computes the five ratios and, only when all of them are available,
// the score, its zone and the distress probability.
func AltmanZ(p models.CompanyProfile) models.ZScore {
	type part struct {
		v   float64
		err error
	}
	var parts [5]part
	parts[0].v, parts[0].err = Ratio(p.WorkingCapital(), p.TotalAssets, "working capital", "total assets")
	parts[1].v, parts[1].err = Ratio(p.RetainedEarnings, p.TotalAssets, "retained earnings", "total assets")
	parts[2].v, parts[2].err = Ratio(p.EBIT, p.TotalAssets, "ebit", "total assets")
	parts[3].v, parts[3].err = Ratio(p.MarketCap, p.TotalDebt, "market cap", "total debt")
	parts[4].v, parts[4].err = Ratio(p.TotalRevenue, p.TotalAssets, "total revenue", "total assets")

	out := models.ZScore{
		X1: models.MetricOf(parts[0].v, parts[0].err),
		X2: models.MetricOf(parts[1].v, parts[1].err),
		X3: models.MetricOf(parts[2].v, parts[2].err),
		X4: models.MetricOf(parts[3].v, parts[3].err),
		X5: models.MetricOf(parts[4].v, parts[4].err),
	}

	var x [5]float64
	for i, pt := range parts {
		if pt.err != nil {
			err := fmt.Errorf("z-score: x%d unavailable: %w", i+1, pt.err)
			out.Score = models.NotAvailable(err)
			out.DistressProbability = models.NotAvailable(err)
			return out
		}
		x[i] = pt.v
	}

	z := ZFromRatios(x)
	out.Score = models.Available(z)
	out.DistressProbability = models.Available(DistressProbability(z))
	out.Zone = Zone(z)
	return out
}
