package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/wonny/marketsnap/internal/analyze"
	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/internal/normalize"
)

// fetchOutcome is one source's result slot. Exactly one of record and
// err is set after the barrier.
type fetchOutcome struct {
	source string
	record *contracts.RawRecord
	err    error
}

// Assemble merges the five fetch outcomes into a Snapshot. It is a
// pure merge step: normalization and analysis happen here, but nothing
// is retried and no outcome is reinterpreted. The only error it can
// return is an AnalysisError from an unusable primary series.
func Assemble(window contracts.AnalysisWindow, outcomes []fetchOutcome, now time.Time) (*contracts.Snapshot, error) {
	bysource := make(map[string]fetchOutcome, len(outcomes))
	for _, o := range outcomes {
		bysource[o.source] = o
	}

	var missing []string
	record := func(source string) *contracts.RawRecord {
		o, ok := bysource[source]
		if !ok || o.err != nil || o.record == nil {
			missing = append(missing, source)
			return nil
		}
		return o.record
	}

	// Primary series first: without it there is nothing to compare
	priceRec := record(contracts.SourcePrice)
	if priceRec == nil {
		return nil, &contracts.AnalysisError{
			Reason: "price source failed for " + window.Ticker,
			Err:    bysource[contracts.SourcePrice].err,
		}
	}

	price, grid, err := normalize.PrimarySeries(window, priceRec.Series)
	if err != nil {
		return nil, err
	}

	var sector *contracts.BenchmarkSeries
	if rec := record(contracts.SourceSector); rec != nil {
		aligned, ok := normalize.Benchmark(grid, contracts.BenchmarkSector, rec.Series)
		if !ok {
			missing = append(missing, contracts.SourceSector)
		} else {
			sector = aligned
		}
	}

	var market *contracts.BenchmarkSeries
	if rec := record(contracts.SourceMarket); rec != nil {
		aligned, ok := normalize.Benchmark(grid, contracts.BenchmarkMarket, rec.Series)
		if !ok {
			missing = append(missing, contracts.SourceMarket)
		} else {
			market = aligned
		}
	}

	metrics, err := analyze.Metrics(price, sector, market)
	if err != nil {
		return nil, err
	}

	profile := &contracts.CompanyProfile{
		Specialties:        []string{},
		FundingRounds:      []contracts.FundingRound{},
		SourceAvailability: make(map[string]bool, len(contracts.AllSources)),
	}
	if rec := record(contracts.SourceProfile); rec != nil && rec.Profile != nil {
		profile.Name = rec.Profile.Name
		profile.Description = rec.Profile.Description
		profile.Industry = rec.Profile.Industry
		profile.Website = rec.Profile.Website
		profile.EmployeeCount = rec.Profile.EmployeeCount
		if rec.Profile.Specialties != nil {
			profile.Specialties = rec.Profile.Specialties
		}
	}
	if rec := record(contracts.SourceFunding); rec != nil {
		for _, fr := range rec.Funding {
			profile.FundingRounds = append(profile.FundingRounds, contracts.FundingRound{
				Date:      fr.Date,
				Amount:    fr.Amount,
				Investors: fr.Investors,
			})
		}
	}

	snapshot := &contracts.Snapshot{
		RunID:          uuid.NewString(),
		CreatedAt:      now.UTC(),
		Window:         window,
		PriceSeries:    price,
		SectorSeries:   sector,
		MarketSeries:   market,
		Profile:        profile,
		Metrics:        metrics,
		MissingSources: dedupe(missing),
	}
	snapshot.SortMissingSources()

	for _, source := range contracts.AllSources {
		profile.SourceAvailability[source] = !snapshot.IsMissing(source)
	}

	return snapshot, nil
}

func dedupe(sources []string) []string {
	seen := make(map[string]bool, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
