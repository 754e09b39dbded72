package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Snapshot.DefaultDays != 7 {
		t.Errorf("Expected Snapshot.DefaultDays to be 7, got %d", cfg.Snapshot.DefaultDays)
	}

	if cfg.Snapshot.MarketIndex != "^GSPC" {
		t.Errorf("Expected Snapshot.MarketIndex to be ^GSPC, got %s", cfg.Snapshot.MarketIndex)
	}

	if cfg.Snapshot.FetchTimeout != 30*time.Second {
		t.Errorf("Expected Snapshot.FetchTimeout to be 30s, got %v", cfg.Snapshot.FetchTimeout)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("SNAPSHOT_DEFAULT_DAYS", "30")
	os.Setenv("SNAPSHOT_MARKET_INDEX", "^IXIC")
	os.Setenv("LOG_LEVEL", "info")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("SNAPSHOT_DEFAULT_DAYS")
		os.Unsetenv("SNAPSHOT_MARKET_INDEX")
		os.Unsetenv("LOG_LEVEL")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Snapshot.DefaultDays != 30 {
		t.Errorf("Expected Snapshot.DefaultDays to be 30, got %d", cfg.Snapshot.DefaultDays)
	}

	if cfg.Snapshot.MarketIndex != "^IXIC" {
		t.Errorf("Expected Snapshot.MarketIndex to be ^IXIC, got %s", cfg.Snapshot.MarketIndex)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be info, got %s", cfg.LogLevel)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "invalid")
	defer os.Unsetenv("ENV")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateDefaultDaysOutOfRange(t *testing.T) {
	os.Setenv("SNAPSHOT_DEFAULT_DAYS", "400")
	defer os.Unsetenv("SNAPSHOT_DEFAULT_DAYS")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when SNAPSHOT_DEFAULT_DAYS is out of range, got nil")
	}
}

func TestValidateWatchlistRequired(t *testing.T) {
	os.Setenv("WATCHLIST_ENABLED", "true")
	defer os.Unsetenv("WATCHLIST_ENABLED")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when WATCHLIST_ENABLED is set without WATCHLIST, got nil")
	}
}

func TestGetEnvAsList(t *testing.T) {
	os.Setenv("TEST_LIST", "AAPL, MSFT,,GOOG ")
	defer os.Unsetenv("TEST_LIST")

	list := getEnvAsList("TEST_LIST", "")
	if len(list) != 3 {
		t.Fatalf("Expected 3 entries, got %d: %v", len(list), list)
	}
	if list[0] != "AAPL" || list[1] != "MSFT" || list[2] != "GOOG" {
		t.Errorf("Unexpected list contents: %v", list)
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	expected := 2 * time.Hour

	if duration != expected {
		t.Errorf("Expected duration to be %v, got %v", expected, duration)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	os.Setenv("TEST_INT", "100")
	defer os.Unsetenv("TEST_INT")

	value := getEnvAsInt("TEST_INT", 50)
	if value != 100 {
		t.Errorf("Expected value to be 100, got %d", value)
	}
}
