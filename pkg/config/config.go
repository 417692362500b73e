package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for factscore
// ⭐ SSOT: environment variables are read here and nowhere else
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	Database DatabaseConfig
	Redis    RedisConfig
	Scoring  ScoringConfig

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
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ScoringConfig controls the scoring service and its batch job
type ScoringConfig struct {
	YearsWindow    int           // fiscal years fetched per company
	Workers        int           // batch worker pool size
	CacheTTL       time.Duration // scorecard cache lifetime
	ThresholdsFile string        // optional YAML threshold profile
	BatchSchedule  string        // cron spec with seconds field
	RunRateLimit   int           // manual batch triggers per minute
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only caller of os.Getenv
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Scoring: ScoringConfig{
			YearsWindow:    getEnvAsInt("SCORING_YEARS_WINDOW", 10),
			Workers:        getEnvAsInt("SCORING_WORKERS", 8),
			CacheTTL:       getEnvAsDuration("SCORING_CACHE_TTL", "24h"),
			ThresholdsFile: getEnv("SCORING_THRESHOLDS_FILE", ""),
			BatchSchedule:  getEnv("SCORING_BATCH_SCHEDULE", "0 0 19 * * *"),
			RunRateLimit:   getEnvAsInt("SCORING_RUN_RATE_LIMIT", 2),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Scoring.Workers < 1 {
		return fmt.Errorf("SCORING_WORKERS must be >= 1, got %d", c.Scoring.Workers)
	}

	if c.Scoring.YearsWindow < 1 {
		return fmt.Errorf("SCORING_YEARS_WINDOW must be >= 1, got %d", c.Scoring.YearsWindow)
	}

	return nil
}

// loadEnvFile loads the first .env found near the working directory or binary
func loadEnvFile() {
	paths := []string{".env"}

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
