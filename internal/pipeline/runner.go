// Package pipeline orchestrates one snapshot run: fan out to every
// source, join on a barrier, then normalize, analyze and assemble.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/logger"
)

// Runner executes snapshot runs over a fixed set of sources
// ⭐ SSOT: 스냅샷 실행 오케스트레이션은 이 패키지에서만
type Runner struct {
	sources    []contracts.SourceClient
	runTimeout time.Duration
	logger     *logger.Logger
}

// NewRunner creates a Runner. A non-positive runTimeout disables the
// run-level deadline.
func NewRunner(sources []contracts.SourceClient, runTimeout time.Duration, log *logger.Logger) *Runner {
	return &Runner{
		sources:    sources,
		runTimeout: runTimeout,
		logger:     log.WithField("module", "pipeline"),
	}
}

// Run produces one snapshot for the window. All sources are queried
// concurrently; each goroutine writes only its own outcome slot and
// the WaitGroup is the only synchronization point. A source failure
// or an expired deadline turns into a missing_sources entry; only an
// unusable primary series aborts the run.
func (r *Runner) Run(ctx context.Context, window contracts.AnalysisWindow) (*contracts.Snapshot, error) {
	if r.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.runTimeout)
		defer cancel()
	}

	start := time.Now()
	r.logger.WithFields(map[string]interface{}{
		"ticker":  window.Ticker,
		"window":  window.String(),
		"sources": len(r.sources),
	}).Info("Starting snapshot run")

	outcomes := make([]fetchOutcome, len(r.sources))

	var wg sync.WaitGroup
	for i, source := range r.sources {
		wg.Add(1)
		go func(slot int, src contracts.SourceClient) {
			defer wg.Done()

			record, err := src.Fetch(ctx, window)
			outcomes[slot] = fetchOutcome{source: src.Name(), record: record, err: err}

			if err != nil {
				r.logger.WithError(err).WithFields(map[string]interface{}{
					"ticker": window.Ticker,
					"source": src.Name(),
				}).Warn("Source fetch failed")
			}
		}(i, source)
	}
	wg.Wait()

	snapshot, err := Assemble(window, outcomes, time.Now())
	if err != nil {
		r.logger.WithError(err).WithField("ticker", window.Ticker).Error("Snapshot run failed")
		return nil, err
	}

	r.logger.WithFields(map[string]interface{}{
		"ticker":   window.Ticker,
		"run_id":   snapshot.RunID,
		"missing":  snapshot.MissingSources,
		"duration": time.Since(start),
	}).Info("Snapshot run completed")

	return snapshot, nil
}
