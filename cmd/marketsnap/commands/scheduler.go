package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/internal/report"
	"github.com/wonny/marketsnap/internal/scheduler"
	"github.com/wonny/marketsnap/internal/scheduler/jobs"
	"github.com/wonny/marketsnap/internal/store"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/database"
	"github.com/wonny/marketsnap/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "워치리스트 스케줄러 시작",
	Long: `워치리스트 갱신 스케줄러를 시작합니다.

이 명령어는:
- WATCHLIST 설정의 모든 티커를 cron 주기로 갱신
- 갱신마다 스냅샷 파이프라인 실행
- 결과를 DB에 저장 (DATABASE_URL 설정 시)
- GEMINI_API_KEY 설정 시 마크다운 리포트도 생성

스케줄러는 Ctrl+C로 종료할 수 있습니다.

Example:
  WATCHLIST=AAPL,MSFT,GOOG go run ./cmd/marketsnap scheduler
  go run ./cmd/marketsnap scheduler --now`,
	RunE: runSchedulerCmd,
}

var schedulerRunNow bool

func init() {
	rootCmd.AddCommand(schedulerCmd)

	// Flags
	schedulerCmd.Flags().BoolVar(&schedulerRunNow, "now", false, "시작 직후 1회 즉시 실행")
}

func runSchedulerCmd(cmd *cobra.Command, args []string) error {
	fmt.Println("=== MarketSnap Scheduler ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if len(cfg.Watchlist) == 0 {
		return fmt.Errorf("WATCHLIST is empty, nothing to schedule")
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Wire the pipeline
	runner, redisClient, err := buildRunner(cfg, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer redisClient.Close()

	// 4. Optional sinks
	var snapshotStore contracts.SnapshotStore
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := store.NewRepository(db.Pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return err
		}
		snapshotStore = repo
		log.Info("Connected to database")
	}

	var generator contracts.ReportGenerator
	if cfg.Gemini.APIKey != "" {
		generator = report.NewGeminiGenerator(cfg, log)
	}

	// 5. Create scheduler and register the watchlist job
	sched := scheduler.New(log)

	watchlistJob := jobs.NewWatchlistJob(
		runner,
		snapshotStore,
		generator,
		cfg.Watchlist,
		cfg.Snapshot.DefaultDays,
		cfg.WatchlistCron,
		log,
	)
	if err := sched.AddJob(watchlistJob); err != nil {
		return fmt.Errorf("add watchlist job: %w", err)
	}

	// 6. Start
	sched.Start()
	defer sched.Stop()

	fmt.Printf("\n✅ Scheduler running, %d tickers on %q\n", len(cfg.Watchlist), cfg.WatchlistCron)
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if schedulerRunNow {
		if err := sched.RunJob(watchlistJob.Name()); err != nil {
			return err
		}
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	printJobStats(sched)
	return nil
}

// printJobStats prints the run history accumulated in this session
func printJobStats(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()
	if len(stats) == 0 {
		return
	}

	fmt.Println("\nJob statistics:")
	for jobName, stat := range stats {
		fmt.Printf("📊 %s\n", jobName)
		fmt.Printf("   Schedule: %s\n", stat.Schedule)
		fmt.Printf("   Total Runs: %d\n", stat.TotalRuns)
		fmt.Printf("   Success: %d (%.1f%%)\n", stat.SuccessCount, stat.SuccessRate*100)
		fmt.Printf("   Failures: %d\n", stat.FailureCount)

		if stat.LastRun != nil {
			fmt.Printf("   Last Run: %s\n", stat.LastRun.Format("2006-01-02 15:04:05"))
		}

		if history, err := sched.GetJobHistory(jobName); err == nil {
			if failed := history.Failures(); len(failed) > 0 {
				fmt.Printf("   Last Error: %s\n", failed[len(failed)-1].Error)
			}
		}
	}
}
