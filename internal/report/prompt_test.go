package report

import (
	"strings"
	"testing"
	"time"

	"github.com/wonny/marketsnap/internal/contracts"
)

func TestBuildPrompt(t *testing.T) {
	window, err := contracts.NewAnalysisWindow("AAPL", 7, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewAnalysisWindow() error = %v", err)
	}

	rel := 0.21
	snapshot := &contracts.Snapshot{
		RunID:  "test-run",
		Window: window,
		PriceSeries: &contracts.PriceSeries{
			Ticker: "AAPL",
			Points: []contracts.TimeSeriesPoint{
				{Date: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), Value: 100},
			},
		},
		Metrics: &contracts.ComparativeMetrics{
			CompanyCumulativeReturn: 0.21,
			RelativeToMarket:        &rel,
		},
		MissingSources: []string{contracts.SourceFunding, contracts.SourceSector},
	}

	prompt, err := BuildPrompt(snapshot)
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	if !strings.Contains(prompt, "AAPL") {
		t.Error("prompt does not mention the ticker")
	}
	if !strings.Contains(prompt, "funding, sector") {
		t.Error("prompt does not list the unavailable sources")
	}
	if !strings.Contains(prompt, `"company_cumulative_return": 0.21`) {
		t.Error("prompt does not embed the metrics JSON")
	}
	// Nil sector return must not appear as a zero
	if strings.Contains(prompt, "sector_cumulative_return") {
		t.Error("missing benchmark field leaked into the payload")
	}
}

func TestBuildPrompt_NoMissingSources(t *testing.T) {
	window, err := contracts.NewAnalysisWindow("MSFT", 30, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewAnalysisWindow() error = %v", err)
	}

	prompt, err := BuildPrompt(&contracts.Snapshot{RunID: "r", Window: window})
	if err != nil {
		t.Fatalf("BuildPrompt() error = %v", err)
	}

	if strings.Contains(prompt, "Unavailable sources") {
		t.Error("prompt mentions unavailable sources for a complete run")
	}
}
