package contracts

import (
	"sort"
	"time"
)

// Canonical source names, used as missing_sources entries and
// source_availability keys
const (
	SourcePrice   = "price"
	SourceSector  = "sector"
	SourceMarket  = "market"
	SourceProfile = "profile"
	SourceFunding = "funding"
)

// AllSources lists every source a run consults
var AllSources = []string{SourcePrice, SourceSector, SourceMarket, SourceProfile, SourceFunding}

// Snapshot is the root aggregate of one run: everything the report
// generator and the dataset sink receive. Owned by the run that builds it
// and never mutated afterwards.
// ⭐ SSOT: 외부 전달 페이로드는 이 구조체가 유일한 계약
type Snapshot struct {
	RunID          string              `json:"run_id"`
	CreatedAt      time.Time           `json:"created_at"`
	Window         AnalysisWindow      `json:"window"`
	PriceSeries    *PriceSeries        `json:"price_series"`
	SectorSeries   *BenchmarkSeries    `json:"sector_series,omitempty"`
	MarketSeries   *BenchmarkSeries    `json:"market_series,omitempty"`
	Profile        *CompanyProfile     `json:"profile"`
	Metrics        *ComparativeMetrics `json:"metrics"`
	MissingSources []string            `json:"missing_sources"`
}

// IsPartial reports whether any source failed to contribute
func (s *Snapshot) IsPartial() bool {
	return len(s.MissingSources) > 0
}

// IsMissing reports whether the named source failed for this run
func (s *Snapshot) IsMissing(source string) bool {
	for _, m := range s.MissingSources {
		if m == source {
			return true
		}
	}
	return false
}

// SortMissingSources orders missing_sources for deterministic payloads
func (s *Snapshot) SortMissingSources() {
	sort.Strings(s.MissingSources)
}
