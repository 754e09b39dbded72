package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/marketsnap/internal/api"
	"github.com/wonny/marketsnap/internal/api/handlers"
	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/internal/report"
	"github.com/wonny/marketsnap/internal/store"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/database"
	"github.com/wonny/marketsnap/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 요청마다 스냅샷 파이프라인 실행
- 결과를 DB에 저장 (DATABASE_URL 설정 시)

Endpoints:
  GET /health                          - Health check
  GET /api/v1/snapshot/{ticker}        - 스냅샷 실행 (?days=N)
  GET /api/v1/snapshot/{ticker}/report - 마크다운 리포트

Example:
  go run ./cmd/marketsnap api
  go run ./cmd/marketsnap api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== MarketSnap API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

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

	// 5. Create handler and router
	snapshotHandler := handlers.NewSnapshotHandler(runner, snapshotStore, generator, cfg.Snapshot.DefaultDays, log)
	router := api.NewRouter(snapshotHandler, log)

	// 6. Create server
	server := api.New(cfg, log, router)

	// 7. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET /health")
	fmt.Println("  GET /api/v1/snapshot/{ticker}?days=N")
	fmt.Println("  GET /api/v1/snapshot/{ticker}/report")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
