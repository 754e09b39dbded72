package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "marketsnap",
	Short: "MarketSnap - 기업 스냅샷 비교 분석 엔진",
	Long: `MarketSnap Unified CLI

티커 하나에 대해 가격, 섹터/시장 벤치마크, 기업 프로필, 펀딩 이력을
동시에 수집하고 비교 지표를 계산합니다.

Usage:
  go run ./cmd/marketsnap [command]

Examples:
  go run ./cmd/marketsnap snapshot AAPL --days 30
  go run ./cmd/marketsnap api
  go run ./cmd/marketsnap scheduler
  go run ./cmd/marketsnap test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
