package pipeline

import (
	"context"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/internal/external/crunchbase"
	"github.com/wonny/marketsnap/internal/external/linkedin"
	"github.com/wonny/marketsnap/internal/external/yahoo"
)

// PriceSource fetches the company's own daily closes
type PriceSource struct {
	yahoo *yahoo.Client
}

func NewPriceSource(client *yahoo.Client) *PriceSource {
	return &PriceSource{yahoo: client}
}

func (s *PriceSource) Name() string { return contracts.SourcePrice }

func (s *PriceSource) Fetch(ctx context.Context, window contracts.AnalysisWindow) (*contracts.RawRecord, error) {
	series, err := s.yahoo.FetchDailyCloses(ctx, window.Ticker, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return &contracts.RawRecord{Source: s.Name(), Series: series}, nil
}

// MarketSource fetches the broad-market benchmark, a fixed index symbol
type MarketSource struct {
	yahoo  *yahoo.Client
	symbol string
}

func NewMarketSource(client *yahoo.Client, symbol string) *MarketSource {
	return &MarketSource{yahoo: client, symbol: symbol}
}

func (s *MarketSource) Name() string { return contracts.SourceMarket }

func (s *MarketSource) Fetch(ctx context.Context, window contracts.AnalysisWindow) (*contracts.RawRecord, error) {
	series, err := s.yahoo.FetchDailyCloses(ctx, s.symbol, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return &contracts.RawRecord{Source: s.Name(), Series: series}, nil
}

// SectorSource resolves the ticker's sector index, then fetches it.
// An unresolvable sector surfaces as ErrNotFound, so the run records
// a missing sector benchmark instead of guessing one.
type SectorSource struct {
	yahoo *yahoo.Client
}

func NewSectorSource(client *yahoo.Client) *SectorSource {
	return &SectorSource{yahoo: client}
}

func (s *SectorSource) Name() string { return contracts.SourceSector }

func (s *SectorSource) Fetch(ctx context.Context, window contracts.AnalysisWindow) (*contracts.RawRecord, error) {
	index, err := s.yahoo.ResolveSectorIndex(ctx, window.Ticker)
	if err != nil {
		return nil, err
	}

	series, err := s.yahoo.FetchDailyCloses(ctx, index, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return &contracts.RawRecord{Source: s.Name(), Series: series}, nil
}

// ProfileSource fetches the qualitative company profile
type ProfileSource struct {
	linkedin *linkedin.Client
}

func NewProfileSource(client *linkedin.Client) *ProfileSource {
	return &ProfileSource{linkedin: client}
}

func (s *ProfileSource) Name() string { return contracts.SourceProfile }

func (s *ProfileSource) Fetch(ctx context.Context, window contracts.AnalysisWindow) (*contracts.RawRecord, error) {
	profile, err := s.linkedin.FetchProfile(ctx, window.Ticker)
	if err != nil {
		return nil, err
	}
	return &contracts.RawRecord{Source: s.Name(), Profile: profile}, nil
}

// FundingSource fetches financing history
type FundingSource struct {
	crunchbase *crunchbase.Client
}

func NewFundingSource(client *crunchbase.Client) *FundingSource {
	return &FundingSource{crunchbase: client}
}

func (s *FundingSource) Name() string { return contracts.SourceFunding }

func (s *FundingSource) Fetch(ctx context.Context, window contracts.AnalysisWindow) (*contracts.RawRecord, error) {
	rounds, err := s.crunchbase.FetchFundingRounds(ctx, window.Ticker)
	if err != nil {
		return nil, err
	}
	return &contracts.RawRecord{Source: s.Name(), Funding: rounds}, nil
}
