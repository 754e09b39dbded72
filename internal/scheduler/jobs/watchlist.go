// Package jobs holds the concrete scheduled jobs.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/logger"
)

// SnapshotRunner produces one snapshot for a window
type SnapshotRunner interface {
	Run(ctx context.Context, window contracts.AnalysisWindow) (*contracts.Snapshot, error)
}

// WatchlistJob refreshes the snapshot of every watchlist ticker and
// pushes the results to the sinks. One bad ticker never stops the
// others; the job fails only when every ticker fails.
// ⭐ SSOT: 워치리스트 갱신은 이 작업에서만
type WatchlistJob struct {
	runner    SnapshotRunner
	store     contracts.SnapshotStore
	generator contracts.ReportGenerator
	tickers   []string
	days      int
	schedule  string
	logger    *logger.Logger
}

// NewWatchlistJob creates the watchlist refresh job. store and
// generator may be nil, disabling persistence and narratives.
func NewWatchlistJob(
	runner SnapshotRunner,
	store contracts.SnapshotStore,
	generator contracts.ReportGenerator,
	tickers []string,
	days int,
	schedule string,
	log *logger.Logger,
) *WatchlistJob {
	return &WatchlistJob{
		runner:    runner,
		store:     store,
		generator: generator,
		tickers:   tickers,
		days:      days,
		schedule:  schedule,
		logger:    log.WithField("job", "watchlist_refresh"),
	}
}

// Name implements scheduler.Job
func (j *WatchlistJob) Name() string {
	return "watchlist_refresh"
}

// Schedule implements scheduler.Job
func (j *WatchlistJob) Schedule() string {
	return j.schedule
}

// Run implements scheduler.Job
func (j *WatchlistJob) Run(ctx context.Context) error {
	j.logger.WithFields(map[string]interface{}{
		"tickers": len(j.tickers),
		"days":    j.days,
	}).Info("Starting watchlist refresh")

	var failed []string
	for _, ticker := range j.tickers {
		if err := j.refreshOne(ctx, ticker); err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Error("Watchlist refresh failed for ticker")
			failed = append(failed, ticker)
		}
	}

	if len(failed) == len(j.tickers) && len(j.tickers) > 0 {
		return fmt.Errorf("all %d watchlist tickers failed: %s", len(failed), strings.Join(failed, ", "))
	}

	j.logger.WithFields(map[string]interface{}{
		"succeeded": len(j.tickers) - len(failed),
		"failed":    len(failed),
	}).Info("Watchlist refresh completed")
	return nil
}

func (j *WatchlistJob) refreshOne(ctx context.Context, ticker string) error {
	window, err := contracts.NewAnalysisWindow(ticker, j.days, time.Now())
	if err != nil {
		return fmt.Errorf("invalid watchlist entry %q: %w", ticker, err)
	}

	snapshot, err := j.runner.Run(ctx, window)
	if err != nil {
		return err
	}

	if j.store != nil {
		if err := j.store.SaveSnapshot(ctx, snapshot); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}
	}

	if j.generator != nil && j.store != nil {
		markdown, err := j.generator.Generate(ctx, snapshot)
		if err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
		if err := j.store.SaveReport(ctx, snapshot.RunID, markdown); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	return nil
}
