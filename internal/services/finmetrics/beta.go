package finmetrics

import (
	"fmt"
	"math"

	"FinLens/internal/domain/models"
	"FinLens/pkg/util"

	"gonum.org/v1/gonum/stat"
)

// AlignBenchmark projects the benchmark onto the asset's trading calendar.
// Exact date matches are taken first, gaps are forward-filled and then any
// leading gap is back-filled. Rows still without a benchmark value (only when
// the two series share no date at all) are dropped.
func AlignBenchmark(asset, bench models.PriceSeries) (assetCloses, benchCloses []float64) {
	byDate := make(map[string]float64, bench.Len())
	for _, p := range bench.Points {
		byDate[util.DateKey(p.Date)] = p.Close
	}

	n := asset.Len()
	vals := make([]float64, n)
	has := make([]bool, n)
	for i, p := range asset.Points {
		if v, ok := byDate[util.DateKey(p.Date)]; ok {
			vals[i], has[i] = v, true
		}
	}
	for i := 1; i < n; i++ {
		if !has[i] && has[i-1] {
			vals[i], has[i] = vals[i-1], true
		}
	}
	for i := n - 2; i >= 0; i-- {
		if !has[i] && has[i+1] {
			vals[i], has[i] = vals[i+1], true
		}
	}

	for i, p := range asset.Points {
		if !has[i] {
			continue
		}
		assetCloses = append(assetCloses, p.Close)
		benchCloses = append(benchCloses, vals[i])
	}
	return assetCloses, benchCloses
}

// Beta regresses asset returns on benchmark returns: Cov(a, b) / Var(b).
// Both moments use the sample estimator so a series measured against itself
// has beta exactly 1.
func Beta(asset, bench models.PriceSeries) (float64, error) {
	a, b := AlignBenchmark(asset, bench)
	if len(a) < MinBetaRows {
		return 0, fmt.Errorf("beta needs %d aligned closes, have %d: %w", MinBetaRows, len(a), models.ErrInsufficientHistory)
	}
	ra, err := SimpleReturns(a)
	if err != nil {
		return 0, fmt.Errorf("beta asset returns: %w", err)
	}
	rb, err := SimpleReturns(b)
	if err != nil {
		return 0, fmt.Errorf("beta benchmark returns: %w", err)
	}
	return BetaFromReturns(ra, rb)
}

// BetaFromReturns estimates beta from already aligned return vectors.
func BetaFromReturns(assetReturns, benchReturns []float64) (float64, error) {
	if len(assetReturns) != len(benchReturns) {
		return 0, fmt.Errorf("beta: %d asset returns vs %d benchmark returns: %w",
			len(assetReturns), len(benchReturns), models.ErrDegenerateInput)
	}
	if len(benchReturns) < MinBetaRows-1 {
		return 0, fmt.Errorf("beta needs %d returns, have %d: %w", MinBetaRows-1, len(benchReturns), models.ErrInsufficientHistory)
	}
	v := stat.Variance(benchReturns, nil)
	if v <= 0 || math.IsNaN(v) {
		return 0, fmt.Errorf("beta: benchmark variance is %g: %w", v, models.ErrDegenerateInput)
	}
	return stat.Covariance(assetReturns, benchReturns, nil) / v, nil
}
