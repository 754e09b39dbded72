package main

import (
	"os"

	"github.com/wonny/marketsnap/cmd/marketsnap/commands"
)

// main is the entry point for the MarketSnap CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/marketsnap [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
