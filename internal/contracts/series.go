package contracts

import (
	"fmt"
	"time"
)

// BenchmarkKind distinguishes the two reference series
type BenchmarkKind string

const (
	BenchmarkSector BenchmarkKind = "SECTOR"
	BenchmarkMarket BenchmarkKind = "MARKET"
)

// TimeSeriesPoint is one trading day on the canonical grid
type TimeSeriesPoint struct {
	Date           time.Time `json:"date"`
	Value          float64   `json:"value"`
	IsInterpolated bool      `json:"is_interpolated"`
}

// PriceSeries is an ordered daily close series for one symbol
// Points are strictly increasing by date with no duplicates.
type PriceSeries struct {
	Ticker   string            `json:"ticker"`
	Currency string            `json:"currency"`
	Points   []TimeSeriesPoint `json:"points"`
}

// BenchmarkSeries is a PriceSeries tagged with its benchmark role
type BenchmarkSeries struct {
	Kind     BenchmarkKind     `json:"kind"`
	Symbol   string            `json:"symbol"`
	Currency string            `json:"currency"`
	Points   []TimeSeriesPoint `json:"points"`
}

// Validate checks the strictly-increasing-dates invariant
func (s *PriceSeries) Validate() error {
	return validatePoints(s.Points)
}

// Validate checks the strictly-increasing-dates invariant
func (s *BenchmarkSeries) Validate() error {
	return validatePoints(s.Points)
}

func validatePoints(points []TimeSeriesPoint) error {
	for i := 1; i < len(points); i++ {
		if !points[i].Date.After(points[i-1].Date) {
			return fmt.Errorf("points not strictly increasing at index %d (%s >= %s)",
				i, points[i-1].Date.Format("2006-01-02"), points[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// First returns the first point value, or false for an empty series
func (s *PriceSeries) First() (float64, bool) {
	if len(s.Points) == 0 {
		return 0, false
	}
	return s.Points[0].Value, true
}

// Last returns the last point value, or false for an empty series
func (s *PriceSeries) Last() (float64, bool) {
	if len(s.Points) == 0 {
		return 0, false
	}
	return s.Points[len(s.Points)-1].Value, true
}

// Values extracts the raw value sequence of a point slice
func Values(points []TimeSeriesPoint) []float64 {
	vals := make([]float64, len(points))
	for i, p := range points {
		vals[i] = p.Value
	}
	return vals
}
