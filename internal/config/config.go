package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures the runtime configuration for the vidtube backend service.
type Config struct {
	AppPort      int
	DatabaseURL  string
	MigrationDir string
	SeedDir      string
	LogLevel     string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	DefaultPageSize int
	MaxPageSize     int
	StatsCacheTTL   time.Duration

	ToggleRateLimit RateLimitConfig

	FFprobePath    string
	FFprobeTimeout time.Duration

	ObjectStore ObjectStoreConfig
}

// RateLimitConfig bounds how often a single actor may toggle relations.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	Burst    int
}

// ObjectStoreConfig locates the bucket published media is written to.
type ObjectStoreConfig struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// Load reads configuration from environment variables, applying defaults for
// local development. A .env file in the working directory, when present, is
// loaded first without overriding variables already set.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppPort:         getInt("VIDTUBE_PORT", 8080),
		DatabaseURL:     getString("VIDTUBE_DATABASE_URL", "postgresql://root@localhost:26257/vidtube?sslmode=disable"),
		MigrationDir:    getString("VIDTUBE_MIGRATIONS", "migrations"),
		SeedDir:         getString("VIDTUBE_SEEDS", "seeds"),
		LogLevel:        getString("VIDTUBE_LOG_LEVEL", "info"),
		ReadTimeout:     getDuration("VIDTUBE_HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("VIDTUBE_HTTP_WRITE_TIMEOUT", 2*time.Minute),
		ShutdownTimeout: getDuration("VIDTUBE_SHUTDOWN_TIMEOUT", 10*time.Second),
		DefaultPageSize: getInt("VIDTUBE_DEFAULT_PAGE_SIZE", 10),
		MaxPageSize:     getInt("VIDTUBE_MAX_PAGE_SIZE", 100),
		StatsCacheTTL:   getDuration("VIDTUBE_STATS_CACHE_TTL", 0),
		ToggleRateLimit: RateLimitConfig{
			Requests: getInt("VIDTUBE_TOGGLE_RATE_REQUESTS", 30),
			Window:   getDuration("VIDTUBE_TOGGLE_RATE_WINDOW", time.Minute),
			Burst:    getInt("VIDTUBE_TOGGLE_RATE_BURST", 10),
		},
		FFprobePath:    getString("VIDTUBE_FFPROBE_PATH", "ffprobe"),
		FFprobeTimeout: getDuration("VIDTUBE_FFPROBE_TIMEOUT", 15*time.Second),
		ObjectStore: ObjectStoreConfig{
			Bucket:        getString("VIDTUBE_S3_BUCKET", ""),
			Region:        getString("VIDTUBE_S3_REGION", "us-east-1"),
			Endpoint:      getString("VIDTUBE_S3_ENDPOINT", ""),
			PublicBaseURL: getString("VIDTUBE_S3_PUBLIC_BASE_URL", ""),
		},
	}

	if cfg.MaxPageSize <= 0 {
		return Config{}, fmt.Errorf("VIDTUBE_MAX_PAGE_SIZE must be positive, got %d", cfg.MaxPageSize)
	}
	if cfg.DefaultPageSize <= 0 || cfg.DefaultPageSize > cfg.MaxPageSize {
		return Config{}, fmt.Errorf("VIDTUBE_DEFAULT_PAGE_SIZE must be between 1 and %d, got %d", cfg.MaxPageSize, cfg.DefaultPageSize)
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return i
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
