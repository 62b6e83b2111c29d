package models

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPriceSeriesSortsAndDedupes(t *testing.T) {
	s := NewPriceSeries("AAPL", []PricePoint{
		{Date: day(3), Close: 3},
		{Date: day(1), Close: 1},
		{Date: day(2), Close: 2},
		{Date: day(2), Close: 2.5},
		{Date: day(4), Close: math.NaN()},
	})

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{1, 2.5, 3}, s.Closes())
	first, _ := s.First()
	last, _ := s.Last()
	assert.True(t, first.Date.Equal(day(1)))
	assert.True(t, last.Date.Equal(day(3)))
}

func TestSummaryOfEmptySeries(t *testing.T) {
	s := NewPriceSeries("X", nil)
	assert.True(t, s.Empty())
	assert.Equal(t, SeriesSummary{}, s.Summary())
}

func TestWorkingCapitalNeedsBothSides(t *testing.T) {
	p := CompanyProfile{CurrentAssets: null.FloatFrom(100)}
	assert.False(t, p.WorkingCapital().Valid)

	p.CurrentLiabilities = null.FloatFrom(40)
	require.True(t, p.WorkingCapital().Valid)
	assert.Equal(t, 60.0, p.WorkingCapital().Float64)
}

func TestEquityFallsBackToAssetsMinusLiabilities(t *testing.T) {
	p := CompanyProfile{TotalAssets: null.FloatFrom(500), TotalLiabilities: null.FloatFrom(300)}
	assert.Equal(t, 200.0, p.Equity().Float64)

	p.StockholdersEquity = null.FloatFrom(210)
	assert.Equal(t, 210.0, p.Equity().Float64)

	assert.False(t, CompanyProfile{TotalAssets: null.FloatFrom(1)}.Equity().Valid)
}

func TestUnavailableMetricEncodesNullValue(t *testing.T) {
	m := NotAvailable(fmt.Errorf("total assets: %w", ErrMissingField))

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"value":null,"status":"not_available","reason":"missing_field","detail":"total assets: missing field"}`, string(b))
}

func TestReasonFor(t *testing.T) {
	assert.Equal(t, ReasonDegenerateInput, ReasonFor(fmt.Errorf("x: %w", ErrDegenerateInput)))
	assert.Equal(t, ReasonInsufficientHistory, ReasonFor(ErrInsufficientHistory))
	assert.Equal(t, ReasonUnknown, ReasonFor(fmt.Errorf("other")))
	assert.Equal(t, Reason(""), ReasonFor(nil))
}

func TestMetricOf(t *testing.T) {
	assert.True(t, MetricOf(1.5, nil).Available())
	assert.False(t, MetricOf(0, ErrMissingField).Available())
}
