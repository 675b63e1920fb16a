// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"github.com/halion16/refit-management-sub000/internal/observability/logger"
	"github.com/halion16/refit-management-sub000/internal/observability/metrics"
	"github.com/halion16/refit-management-sub000/internal/scheduler"
)

type Config struct {
	Environment string
	HTTPAddr    string

	// DBDriver selects the gorm dialect: "sqlite" or "postgres".
	DBDriver string
	DBDSN    string

	OverdueScanInterval time.Duration

	// WriteRateLimit caps mutating requests per client per minute; zero
	// disables throttling.
	WriteRateLimit int

	// SeedDefaults installs the built-in payment templates on startup.
	SeedDefaults bool
}

func Load() Config {
	_ = godotenv.Load()

	return Config{
		Environment:         getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		DBDriver:            getEnv("DB_DRIVER", "sqlite"),
		DBDSN:               getEnv("DB_DSN", "refit.db"),
		OverdueScanInterval: getDuration("OVERDUE_SCAN_INTERVAL", 1*time.Minute),
		WriteRateLimit:      getInt("WRITE_RATE_LIMIT", 60),
		SeedDefaults:        getEnv("SEED_DEFAULTS", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(func(cfg Config) logger.Config {
		return logger.Config{Environment: cfg.Environment}
	}),
	fx.Provide(func(cfg Config) metrics.Config {
		return metrics.Config{ServiceName: "refit-engine", Environment: cfg.Environment}
	}),
	fx.Provide(func(cfg Config) scheduler.Config {
		return scheduler.Config{PollInterval: cfg.OverdueScanInterval}
	}),
)
