package finmetrics

import (
	"fmt"
	"math"
	"sort"

	"FinLens/internal/domain/models"
	"FinLens/pkg/util"
)

// coverageToleranceDays lets a horizon start a few sessions after its exact
// cutoff, which happens when the cutoff falls on a weekend or holiday or the
// provider trims the first bar of the lookback.
const coverageToleranceDays = 10

// SimpleReturns computes r_t = C_t / C_{t-1} - 1. The first, undefined
// return is dropped, so the result has len(closes)-1 elements.
func SimpleReturns(closes []float64) ([]float64, error) {
	if len(closes) < 2 {
		return nil, fmt.Errorf("returns need 2 closes, have %d: %w", len(closes), models.ErrInsufficientHistory)
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			return nil, fmt.Errorf("close %g at index %d: %w", prev, i-1, models.ErrDegenerateInput)
		}
		out = append(out, closes[i]/prev-1)
	}
	return out, nil
}

// AnnualizedReturn is (end/start)^(1/years) - 1.
func AnnualizedReturn(start, end, years float64) (float64, error) {
	if years <= 0 {
		return 0, fmt.Errorf("horizon %g years: %w", years, models.ErrDegenerateInput)
	}
	if start <= 0 {
		return 0, fmt.Errorf("start price %g: %w", start, models.ErrDegenerateInput)
	}
	if end < 0 {
		return 0, fmt.Errorf("end price %g: %w", end, models.ErrDegenerateInput)
	}
	return math.Pow(end/start, 1/years) - 1, nil
}

// CAGR anchors the horizon at the earliest close on or after (last date - years)
// and annualizes the move to the last close. The series must reach back to the
// cutoff; a shorter history yields ErrInsufficientHistory instead of a figure
// computed over fewer years than labelled.
func CAGR(s models.PriceSeries, years int) (float64, error) {
	last, ok := s.Last()
	if !ok {
		return 0, fmt.Errorf("cagr %dy: empty series: %w", years, models.ErrInsufficientHistory)
	}
	if years <= 0 {
		return 0, fmt.Errorf("cagr horizon %d: %w", years, models.ErrDegenerateInput)
	}

	cutoff := util.YearsBefore(last.Date, years)
	first, _ := s.First()
	if first.Date.After(cutoff.AddDate(0, 0, coverageToleranceDays)) {
		return 0, fmt.Errorf("cagr %dy: history starts %s, needs %s: %w",
			years, util.DateKey(first.Date), util.DateKey(cutoff), models.ErrInsufficientHistory)
	}

	pts := s.Points
	idx := sort.Search(len(pts), func(i int) bool { return !pts[i].Date.Before(cutoff) })
	if idx >= len(pts)-1 {
		return 0, fmt.Errorf("cagr %dy: no close before %s: %w",
			years, util.DateKey(last.Date), models.ErrInsufficientHistory)
	}

	v, err := AnnualizedReturn(pts[idx].Close, last.Close, float64(years))
	if err != nil {
		return 0, fmt.Errorf("cagr %dy: %w", years, err)
	}
	return v, nil
}
