package pipeline

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/logger"
)

func day(d int) time.Time {
	return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
}

// fakeSource returns a canned record or error, optionally after a delay
type fakeSource struct {
	name   string
	record *contracts.RawRecord
	err    error
	delay  time.Duration
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, window contracts.AnalysisWindow) (*contracts.RawRecord, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", contracts.ErrSourceUnavailable, f.name, ctx.Err())
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func seriesRecord(source, symbol string, closes map[int]float64) *contracts.RawRecord {
	series := &contracts.RawSeries{Symbol: symbol, Currency: "USD"}
	for d := 1; d <= 31; d++ {
		if v, ok := closes[d]; ok {
			series.Points = append(series.Points, contracts.RawPoint{Date: day(d), Close: v})
		}
	}
	return &contracts.RawRecord{Source: source, Series: series}
}

func testWindow(t *testing.T) contracts.AnalysisWindow {
	t.Helper()
	w, err := contracts.NewAnalysisWindow("AAPL", 7, day(28))
	require.NoError(t, err)
	return w
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error"})
}

func allSources() []contracts.SourceClient {
	employees := 164000
	return []contracts.SourceClient{
		&fakeSource{
			name:   contracts.SourcePrice,
			record: seriesRecord(contracts.SourcePrice, "AAPL", map[int]float64{24: 100, 25: 110, 26: 121}),
		},
		&fakeSource{
			name:   contracts.SourceSector,
			record: seriesRecord(contracts.SourceSector, "^XLK", map[int]float64{24: 200, 25: 202, 26: 204}),
		},
		&fakeSource{
			name:   contracts.SourceMarket,
			record: seriesRecord(contracts.SourceMarket, "^GSPC", map[int]float64{24: 500, 25: 500, 26: 500}),
		},
		&fakeSource{
			name: contracts.SourceProfile,
			record: &contracts.RawRecord{
				Source: contracts.SourceProfile,
				Profile: &contracts.RawProfile{
					Name:          "Apple Inc.",
					Industry:      "Consumer Electronics",
					EmployeeCount: &employees,
					Specialties:   []string{"Hardware", "Services"},
				},
			},
		},
		&fakeSource{
			name: contracts.SourceFunding,
			record: &contracts.RawRecord{
				Source: contracts.SourceFunding,
				Funding: []contracts.RawFundingRound{
					{Date: day(1), Amount: 1000000, Investors: []string{"Seed Fund"}},
				},
			},
		},
	}
}

func TestRun_AllSourcesSucceed(t *testing.T) {
	runner := NewRunner(allSources(), time.Minute, testLogger())

	snapshot, err := runner.Run(context.Background(), testWindow(t))
	require.NoError(t, err)

	assert.NotEmpty(t, snapshot.RunID)
	assert.Empty(t, snapshot.MissingSources)
	assert.False(t, snapshot.IsPartial())

	require.NotNil(t, snapshot.Metrics)
	assert.InDelta(t, 0.21, snapshot.Metrics.CompanyCumulativeReturn, 1e-12)
	require.NotNil(t, snapshot.Metrics.RelativeToMarket)
	assert.InDelta(t, 0.21, *snapshot.Metrics.RelativeToMarket, 1e-12)

	require.NotNil(t, snapshot.Profile)
	assert.Equal(t, "Apple Inc.", snapshot.Profile.Name)
	assert.Len(t, snapshot.Profile.FundingRounds, 1)
	assert.True(t, snapshot.Profile.SourceAvailability[contracts.SourceFunding])
}

func TestRun_FundingFailureYieldsPartialSnapshot(t *testing.T) {
	sources := allSources()
	sources[4] = &fakeSource{name: contracts.SourceFunding, err: contracts.ErrSourceUnavailable}

	runner := NewRunner(sources, time.Minute, testLogger())

	snapshot, err := runner.Run(context.Background(), testWindow(t))
	require.NoError(t, err)

	assert.Equal(t, []string{contracts.SourceFunding}, snapshot.MissingSources)
	assert.True(t, snapshot.IsPartial())
	assert.Empty(t, snapshot.Profile.FundingRounds)
	assert.False(t, snapshot.Profile.SourceAvailability[contracts.SourceFunding])

	// Metrics are unaffected by a non-series source failure
	require.NotNil(t, snapshot.Metrics)
	assert.InDelta(t, 0.21, snapshot.Metrics.CompanyCumulativeReturn, 1e-12)
}

func TestRun_PriceFailureIsFatal(t *testing.T) {
	sources := allSources()
	sources[0] = &fakeSource{name: contracts.SourcePrice, err: contracts.ErrNotFound}

	runner := NewRunner(sources, time.Minute, testLogger())

	_, err := runner.Run(context.Background(), testWindow(t))
	require.Error(t, err)
	assert.True(t, contracts.IsAnalysisError(err))
}

func TestRun_MissingBenchmarkLeavesRelativeNil(t *testing.T) {
	sources := allSources()
	sources[1] = &fakeSource{name: contracts.SourceSector, err: contracts.ErrNotFound}

	runner := NewRunner(sources, time.Minute, testLogger())

	snapshot, err := runner.Run(context.Background(), testWindow(t))
	require.NoError(t, err)

	assert.Equal(t, []string{contracts.SourceSector}, snapshot.MissingSources)
	assert.Nil(t, snapshot.SectorSeries)
	assert.Nil(t, snapshot.Metrics.RelativeToSector)
	require.NotNil(t, snapshot.Metrics.RelativeToMarket)
}

func TestRun_DeadlineConvertsSlowSourcesToMissing(t *testing.T) {
	sources := allSources()
	sources[3] = &fakeSource{
		name:  contracts.SourceProfile,
		delay: 500 * time.Millisecond,
		record: &contracts.RawRecord{
			Source:  contracts.SourceProfile,
			Profile: &contracts.RawProfile{Name: "never arrives"},
		},
	}

	runner := NewRunner(sources, 50*time.Millisecond, testLogger())

	snapshot, err := runner.Run(context.Background(), testWindow(t))
	require.NoError(t, err)

	assert.Equal(t, []string{contracts.SourceProfile}, snapshot.MissingSources)
	assert.Empty(t, snapshot.Profile.Name)
}

func TestRun_MissingSourcesSorted(t *testing.T) {
	sources := allSources()
	sources[1] = &fakeSource{name: contracts.SourceSector, err: contracts.ErrSourceUnavailable}
	sources[4] = &fakeSource{name: contracts.SourceFunding, err: contracts.ErrSourceUnavailable}

	runner := NewRunner(sources, time.Minute, testLogger())

	snapshot, err := runner.Run(context.Background(), testWindow(t))
	require.NoError(t, err)

	assert.Equal(t, []string{contracts.SourceFunding, contracts.SourceSector}, snapshot.MissingSources)
}

func TestAssemble_BenchmarkWithoutGridCoverageIsMissing(t *testing.T) {
	window := testWindow(t)

	outcomes := []fetchOutcome{
		{source: contracts.SourcePrice, record: seriesRecord(contracts.SourcePrice, "AAPL", map[int]float64{24: 100, 25: 105})},
		// Sector data exists but only after every grid date
		{source: contracts.SourceSector, record: seriesRecord(contracts.SourceSector, "^XLK", map[int]float64{27: 300})},
	}

	snapshot, err := Assemble(window, outcomes, time.Now())
	require.NoError(t, err)

	assert.Nil(t, snapshot.SectorSeries)
	assert.Contains(t, snapshot.MissingSources, contracts.SourceSector)
	// Market was never consulted in this outcome set, also missing
	assert.Contains(t, snapshot.MissingSources, contracts.SourceMarket)
}

func TestAssemble_EmptyPrimaryIsAnalysisError(t *testing.T) {
	window := testWindow(t)

	outcomes := []fetchOutcome{
		{source: contracts.SourcePrice, record: seriesRecord(contracts.SourcePrice, "AAPL", nil)},
	}

	_, err := Assemble(window, outcomes, time.Now())
	require.Error(t, err)
	assert.True(t, contracts.IsAnalysisError(err))
}
