package finmetrics

import (
	"time"

	"FinLens/internal/domain/models"
)

// weekdays returns n consecutive weekdays starting at start (or the next weekday).
func weekdays(start time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := start
	for len(out) < n {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return out
}

func seriesFrom(symbol string, dates []time.Time, closes []float64) models.PriceSeries {
	pts := make([]models.PricePoint, len(closes))
	for i := range closes {
		pts[i] = models.PricePoint{Date: dates[i], Close: closes[i], Volume: 1000}
	}
	return models.NewPriceSeries(symbol, pts)
}

func flatSeries(start time.Time, n int, price float64) models.PriceSeries {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return seriesFrom("FLAT", weekdays(start, n), closes)
}

// wavySeries is a deterministic, non-degenerate price path.
func wavySeries(symbol string, start time.Time, n int) models.PriceSeries {
	closes := make([]float64, n)
	p := 100.0
	for i := range closes {
		switch i % 5 {
		case 0:
			p *= 1.012
		case 1:
			p *= 0.991
		case 2:
			p *= 1.004
		case 3:
			p *= 0.985
		default:
			p *= 1.017
		}
		closes[i] = p
	}
	return seriesFrom(symbol, weekdays(start, n), closes)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
