package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data providers
	Yahoo      YahooConfig
	LinkedIn   LinkedInConfig
	Crunchbase CrunchbaseConfig

	// Narrative report generator
	Gemini GeminiConfig

	// Snapshot pipeline
	Snapshot SnapshotConfig

	// Scheduler
	Watchlist        []string
	WatchlistCron    string
	WatchlistEnabled bool

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	ChartBaseURL   string
	SummaryBaseURL string
}

// LinkedInConfig holds company profile scraping configuration
type LinkedInConfig struct {
	BaseURL string
}

// CrunchbaseConfig holds funding data API configuration
type CrunchbaseConfig struct {
	BaseURL string
	APIKey  string
}

// GeminiConfig holds the report generator configuration
type GeminiConfig struct {
	APIKey string
	Model  string
}

// SnapshotConfig holds snapshot pipeline settings
type SnapshotConfig struct {
	DefaultDays  int           // default analysis window length
	MarketIndex  string        // broad-market benchmark symbol
	RunTimeout   time.Duration // run-level deadline
	FetchTimeout time.Duration // per-source fetch timeout
	CacheTTL     time.Duration // raw record cache TTL
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "marketsnap"),
			User:            getEnv("DB_USER", "marketsnap"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		// External data providers
		Yahoo: YahooConfig{
			ChartBaseURL:   getEnv("YAHOO_CHART_BASE_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			SummaryBaseURL: getEnv("YAHOO_SUMMARY_BASE_URL", "https://query1.finance.yahoo.com/v10/finance/quoteSummary"),
		},

		LinkedIn: LinkedInConfig{
			BaseURL: getEnv("LINKEDIN_BASE_URL", "https://www.linkedin.com/company"),
		},

		Crunchbase: CrunchbaseConfig{
			BaseURL: getEnv("CRUNCHBASE_BASE_URL", "https://api.crunchbase.com/api/v4"),
			APIKey:  getEnv("CRUNCHBASE_API_KEY", ""),
		},

		// Report generator
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},

		// Snapshot pipeline
		Snapshot: SnapshotConfig{
			DefaultDays:  getEnvAsInt("SNAPSHOT_DEFAULT_DAYS", 7),
			MarketIndex:  getEnv("SNAPSHOT_MARKET_INDEX", "^GSPC"),
			RunTimeout:   getEnvAsDuration("SNAPSHOT_RUN_TIMEOUT", "2m"),
			FetchTimeout: getEnvAsDuration("SNAPSHOT_FETCH_TIMEOUT", "30s"),
			CacheTTL:     getEnvAsDuration("SNAPSHOT_CACHE_TTL", "15m"),
		},

		// Scheduler
		Watchlist:        getEnvAsList("WATCHLIST", ""),
		WatchlistCron:    getEnv("WATCHLIST_CRON", "0 0 18 * * 1-5"),
		WatchlistEnabled: getEnvAsBool("WATCHLIST_ENABLED", false),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Snapshot.DefaultDays < 1 || c.Snapshot.DefaultDays > 365 {
		return fmt.Errorf("SNAPSHOT_DEFAULT_DAYS must be in [1,365], got %d", c.Snapshot.DefaultDays)
	}

	if c.Snapshot.MarketIndex == "" {
		return fmt.Errorf("SNAPSHOT_MARKET_INDEX must not be empty")
	}

	if c.WatchlistEnabled && len(c.Watchlist) == 0 {
		return fmt.Errorf("WATCHLIST is required when WATCHLIST_ENABLED is true")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList parses a comma-separated environment variable
func getEnvAsList(key, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}
	if valueStr == "" {
		return nil
	}

	parts := strings.Split(valueStr, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
