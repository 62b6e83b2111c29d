package finmetrics

import (
	"fmt"
	"math"

	"FinLens/internal/domain/models"

	"github.com/markcheno/go-talib"
)

// MovingAverage returns the simple moving average of the last `window` closes.
func MovingAverage(closes []float64, window int) (float64, error) {
	if window <= 0 {
		return 0, fmt.Errorf("moving average window %d: %w", window, models.ErrDegenerateInput)
	}
	if len(closes) < window {
		return 0, fmt.Errorf("sma%d needs %d closes, have %d: %w", window, window, len(closes), models.ErrInsufficientHistory)
	}
	sma := talib.Sma(closes, window)
	v := sma[len(sma)-1]
	if math.IsNaN(v) {
		return 0, fmt.Errorf("sma%d: %w", window, models.ErrInsufficientHistory)
	}
	return v, nil
}

// crossTolerance is the relative gap under which the two averages count as
// equal. talib.Sma keeps a running sum, so a flat series drifts by a few ulps.
const crossTolerance = 1e-9

// TrendSignal reads a golden/death cross from the two averages.
func TrendSignal(ma50, ma200 float64) models.Signal {
	switch {
	case math.Abs(ma50-ma200) <= crossTolerance*math.Max(math.Abs(ma50), math.Abs(ma200)):
		return models.SignalHold
	case ma50 > ma200:
		return models.SignalBuy
	case ma50 < ma200:
		return models.SignalSell
	default:
		return models.SignalHold
	}
}

// Trend evaluates the signal on the latest session. It is recomputed from the
// series on every call.
func Trend(s models.PriceSeries) models.Trend {
	if s.Len() < LongWindow {
		return models.TrendNotAvailable(fmt.Errorf("trend needs %d closes, have %d: %w",
			LongWindow, s.Len(), models.ErrInsufficientHistory))
	}
	closes := s.Closes()
	short, err := MovingAverage(closes, ShortWindow)
	if err != nil {
		return models.TrendNotAvailable(err)
	}
	long, err := MovingAverage(closes, LongWindow)
	if err != nil {
		return models.TrendNotAvailable(err)
	}
	return models.TrendOf(TrendSignal(short, long), short, long)
}
