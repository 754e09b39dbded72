// Package analyze computes comparative performance metrics over
// grid-aligned series. Everything here is pure float arithmetic with
// a fixed evaluation order, so results are reproducible bit for bit.
package analyze

import (
	"fmt"
	"math"

	"github.com/wonny/marketsnap/internal/contracts"
)

// CumulativeReturn is (last − first) / first over a point sequence.
// A single point yields 0. A zero first value has no meaningful
// return and is fatal.
func CumulativeReturn(points []contracts.TimeSeriesPoint) (float64, error) {
	if len(points) == 0 {
		return 0, &contracts.AnalysisError{Reason: "cannot compute return of an empty series"}
	}

	first := points[0].Value
	if first == 0 {
		return 0, &contracts.AnalysisError{
			Reason: fmt.Sprintf("first value is zero at %s", points[0].Date.Format("2006-01-02")),
		}
	}

	last := points[len(points)-1].Value
	return (last - first) / first, nil
}

// Volatility is the population standard deviation of day-over-day
// percent changes. Fewer than two points yield 0. A change following a
// zero value is undefined and skipped, the remaining changes still count.
func Volatility(points []contracts.TimeSeriesPoint) float64 {
	if len(points) < 2 {
		return 0
	}

	changes := make([]float64, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Value
		if prev == 0 {
			continue
		}
		changes = append(changes, (points[i].Value-prev)/prev)
	}

	if len(changes) == 0 {
		return 0
	}

	var sum float64
	for _, c := range changes {
		sum += c
	}
	mean := sum / float64(len(changes))

	var sq float64
	for _, c := range changes {
		d := c - mean
		sq += d * d
	}

	return math.Sqrt(sq / float64(len(changes)))
}

// Metrics computes the full comparative block for a company series
// against its benchmarks. A nil benchmark leaves the corresponding
// relative fields unset rather than zero, so absent data is never
// mistaken for flat performance.
func Metrics(price *contracts.PriceSeries, sector, market *contracts.BenchmarkSeries) (*contracts.ComparativeMetrics, error) {
	ret, err := CumulativeReturn(price.Points)
	if err != nil {
		return nil, err
	}

	m := &contracts.ComparativeMetrics{
		CompanyCumulativeReturn: ret,
		CompanyVolatility:       Volatility(price.Points),
	}

	if sector != nil {
		sret, err := CumulativeReturn(sector.Points)
		if err != nil {
			return nil, err
		}
		rel := ret - sret
		m.SectorCumulativeReturn = &sret
		m.RelativeToSector = &rel
	}

	if market != nil {
		mret, err := CumulativeReturn(market.Points)
		if err != nil {
			return nil, err
		}
		rel := ret - mret
		m.MarketCumulativeReturn = &mret
		m.RelativeToMarket = &rel
	}

	return m, nil
}
