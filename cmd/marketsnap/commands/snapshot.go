package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/internal/report"
	"github.com/wonny/marketsnap/internal/store"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/database"
	"github.com/wonny/marketsnap/pkg/logger"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot <ticker>",
	Short: "단일 티커 스냅샷 실행",
	Long: `한 티커에 대해 스냅샷 파이프라인을 1회 실행하고 결과 JSON을 출력합니다.

이 명령어는:
- 5개 소스 동시 수집 (가격, 섹터, 시장, 프로필, 펀딩)
- 시계열 정규화 및 비교 지표 계산
- 스냅샷 JSON 출력 (옵션: 마크다운 리포트)

Example:
  go run ./cmd/marketsnap snapshot AAPL
  go run ./cmd/marketsnap snapshot AAPL --days 30
  go run ./cmd/marketsnap snapshot AAPL --days 30 --report
  go run ./cmd/marketsnap snapshot AAPL --save`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

var (
	snapshotDays   int
	snapshotReport bool
	snapshotSave   bool
)

func init() {
	rootCmd.AddCommand(snapshotCmd)

	// Flags
	snapshotCmd.Flags().IntVar(&snapshotDays, "days", 0, "분석 기간 (일, 1-365, 기본값은 설정값)")
	snapshotCmd.Flags().BoolVar(&snapshotReport, "report", false, "마크다운 리포트 생성")
	snapshotCmd.Flags().BoolVar(&snapshotSave, "save", false, "스냅샷을 DB에 저장")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Validate input here, upstream of the core
	days := snapshotDays
	if days == 0 {
		days = cfg.Snapshot.DefaultDays
	}
	window, err := contracts.NewAnalysisWindow(args[0], days, time.Now())
	if err != nil {
		return err
	}

	// 4. Wire the pipeline
	runner, redisClient, err := buildRunner(cfg, log)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer redisClient.Close()

	// 5. Run
	snapshot, err := runner.Run(context.Background(), window)
	if err != nil {
		return err
	}

	// 6. Print the snapshot
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fmt.Println(string(payload))

	if snapshot.IsPartial() {
		fmt.Fprintf(os.Stderr, "\n⚠️  partial snapshot, missing sources: %v\n", snapshot.MissingSources)
	}

	// 7. Optional persistence
	if snapshotSave {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := store.NewRepository(db.Pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return err
		}
		if err := repo.SaveSnapshot(context.Background(), snapshot); err != nil {
			return err
		}
		log.WithField("run_id", snapshot.RunID).Info("Snapshot saved")
	}

	// 8. Optional narrative
	if snapshotReport {
		generator := report.NewGeminiGenerator(cfg, log)
		markdown, err := generator.Generate(context.Background(), snapshot)
		if err != nil {
			return fmt.Errorf("generate report: %w", err)
		}
		fmt.Print("\n---\n\n")
		fmt.Println(markdown)
	}

	return nil
}
