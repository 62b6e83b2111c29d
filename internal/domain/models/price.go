package models

import (
	"math"
	"sort"
	"time"
)

// PricePoint is one daily bar reduced to what the analytics need.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is ordered by strictly increasing date with no duplicates.
// Build it through NewPriceSeries; callers treat it as read-only.
type PriceSeries struct {
	Symbol string       `json:"symbol"`
	Points []PricePoint `json:"points"`
}

// NewPriceSeries sorts points by date, drops non-finite closes and collapses
// duplicate dates keeping the last observation.
func NewPriceSeries(symbol string, points []PricePoint) PriceSeries {
	pts := make([]PricePoint, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			continue
		}
		pts = append(pts, p)
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })

	out := pts[:0]
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1].Date.Equal(p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return PriceSeries{Symbol: symbol, Points: out}
}

func (s PriceSeries) Len() int { return len(s.Points) }

func (s PriceSeries) Empty() bool { return len(s.Points) == 0 }

// Closes returns a copy of the closing prices in date order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

func (s PriceSeries) First() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[0], true
}

func (s PriceSeries) Last() (PricePoint, bool) {
	if len(s.Points) == 0 {
		return PricePoint{}, false
	}
	return s.Points[len(s.Points)-1], true
}

// SeriesSummary describes the history an analysis was computed on.
type SeriesSummary struct {
	Points    int       `json:"points"`
	FirstDate time.Time `json:"first_date"`
	LastDate  time.Time `json:"last_date"`
	LastClose float64   `json:"last_close"`
}

func (s PriceSeries) Summary() SeriesSummary {
	sum := SeriesSummary{Points: len(s.Points)}
	if first, ok := s.First(); ok {
		sum.FirstDate = first.Date
	}
	if last, ok := s.Last(); ok {
		sum.LastDate = last.Date
		sum.LastClose = last.Close
	}
	return sum
}
