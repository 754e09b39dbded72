// Package normalize aligns raw provider series onto a single canonical
// date grid so that every retained series is directly comparable.
//
// The grid is defined by the primary (company) price series: the dates
// it reports inside the analysis window. Benchmark series are projected
// onto that grid, forward-filling gaps from the last known observation.
// All functions are pure. The same inputs always produce the same
// output, and inputs are never mutated.
package normalize

import (
	"sort"
	"time"

	"github.com/wonny/marketsnap/internal/contracts"
)

// PrimarySeries builds the canonical grid and the aligned company
// series from a raw provider series. Observations outside the window
// are discarded. An empty result is fatal for the whole run.
func PrimarySeries(window contracts.AnalysisWindow, raw *contracts.RawSeries) (*contracts.PriceSeries, []time.Time, error) {
	if raw == nil || len(raw.Points) == 0 {
		return nil, nil, &contracts.AnalysisError{
			Reason: "primary price series is empty for " + window.Ticker,
		}
	}

	points := sortedUnique(raw.Points)

	series := &contracts.PriceSeries{
		Ticker:   window.Ticker,
		Currency: raw.Currency,
	}
	var grid []time.Time
	for _, p := range points {
		if !window.Contains(p.Date) {
			continue
		}
		series.Points = append(series.Points, contracts.TimeSeriesPoint{
			Date:  p.Date,
			Value: p.Close,
		})
		grid = append(grid, p.Date)
	}

	if len(series.Points) == 0 {
		return nil, nil, &contracts.AnalysisError{
			Reason: "primary price series has no observations inside " + window.String(),
		}
	}

	return series, grid, nil
}

// AlignToGrid projects a raw series onto the canonical grid.
//
// A grid date the series reports directly becomes a real point. A grid
// date between two observations forward-fills the last known value and
// is marked interpolated. Grid dates before the series' first
// observation cannot be filled and are dropped. The second return is
// false when no grid date could be covered at all, in which case the
// series must be treated as missing.
func AlignToGrid(grid []time.Time, raw *contracts.RawSeries) ([]contracts.TimeSeriesPoint, bool) {
	if raw == nil || len(raw.Points) == 0 || len(grid) == 0 {
		return nil, false
	}

	points := sortedUnique(raw.Points)

	var aligned []contracts.TimeSeriesPoint
	idx := 0
	haveLast := false
	var last float64

	for _, date := range grid {
		// Advance past every observation at or before this grid date
		for idx < len(points) && !points[idx].Date.After(date) {
			last = points[idx].Close
			haveLast = true
			idx++
		}

		if !haveLast {
			// Leading gap, nothing to fill from yet
			continue
		}

		exact := idx > 0 && points[idx-1].Date.Equal(date)
		aligned = append(aligned, contracts.TimeSeriesPoint{
			Date:           date,
			Value:          last,
			IsInterpolated: !exact,
		})
	}

	if len(aligned) == 0 {
		return nil, false
	}
	return aligned, true
}

// Benchmark aligns a raw reference series onto the grid and tags it
// with its role. Returns false when the series covers no grid date.
func Benchmark(grid []time.Time, kind contracts.BenchmarkKind, raw *contracts.RawSeries) (*contracts.BenchmarkSeries, bool) {
	aligned, ok := AlignToGrid(grid, raw)
	if !ok {
		return nil, false
	}

	return &contracts.BenchmarkSeries{
		Kind:     kind,
		Symbol:   raw.Symbol,
		Currency: raw.Currency,
		Points:   aligned,
	}, true
}

// sortedUnique returns a date-sorted copy with duplicate dates
// collapsed to the last reported value.
func sortedUnique(points []contracts.RawPoint) []contracts.RawPoint {
	out := make([]contracts.RawPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	dedup := out[:0]
	for _, p := range out {
		if len(dedup) > 0 && dedup[len(dedup)-1].Date.Equal(p.Date) {
			dedup[len(dedup)-1] = p
			continue
		}
		dedup = append(dedup, p)
	}
	return dedup
}
