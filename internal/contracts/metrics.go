package contracts

// ComparativeMetrics holds derived relative-performance numbers.
// Benchmark-derived fields are pointers: nil means the benchmark series
// was unavailable for the run, never "zero relative performance".
// Write-once, never mutated after the analyzer returns it.
type ComparativeMetrics struct {
	CompanyCumulativeReturn float64  `json:"company_cumulative_return"`
	SectorCumulativeReturn  *float64 `json:"sector_cumulative_return,omitempty"`
	MarketCumulativeReturn  *float64 `json:"market_cumulative_return,omitempty"`
	RelativeToSector        *float64 `json:"relative_to_sector,omitempty"`
	RelativeToMarket        *float64 `json:"relative_to_market,omitempty"`
	CompanyVolatility       float64  `json:"company_volatility"`
}

// OutperformsMarket reports whether the company beat the broad market.
// The second return is false when no market benchmark was available.
func (m *ComparativeMetrics) OutperformsMarket() (bool, bool) {
	if m.RelativeToMarket == nil {
		return false, false
	}
	return *m.RelativeToMarket > 0, true
}

// OutperformsSector reports whether the company beat its sector index.
// The second return is false when no sector benchmark was available.
func (m *ComparativeMetrics) OutperformsSector() (bool, bool) {
	if m.RelativeToSector == nil {
		return false, false
	}
	return *m.RelativeToSector > 0, true
}
