package finmetrics

import (
	"fmt"
	"math"

	"FinLens/internal/domain/models"

	"gonum.org/v1/gonum/stat"
)

// Volatility is the population standard deviation of daily simple returns,
// annualized by sqrt(252).
func Volatility(s models.PriceSeries) (float64, error) {
	if s.Len() < 2 {
		return 0, fmt.Errorf("volatility needs 2 closes, have %d: %w", s.Len(), models.ErrInsufficientHistory)
	}
	r, err := SimpleReturns(s.Closes())
	if err != nil {
		return 0, fmt.Errorf("volatility: %w", err)
	}
	mean := stat.Mean(r, nil)
	variance := stat.MomentAbout(2, r, mean, nil)
	return math.Sqrt(variance) * math.Sqrt(TradingDaysPerYear), nil
}
