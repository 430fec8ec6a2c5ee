package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// InsightConfig configures the external AI insight provider.
type InsightConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

// Config holds everything the service reads from the environment.
type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	// RedisURL enables the stats cache when set, e.g. "localhost:6379".
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// KafkaBrokers enables the Kafka event publisher when non-empty;
	// otherwise events go through an in-process channel.
	KafkaBrokers []string

	Insight InsightConfig

	SeedDemoData bool
}

// LoadConfig reads configuration from the environment, loading .env first
// if present. Missing optional values fall back to development defaults.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		Port:          getEnv("PORT", "8080"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		Insight: InsightConfig{
			Endpoint: getEnv("INSIGHT_ENDPOINT", ""),
			APIKey:   getEnv("INSIGHT_API_KEY", ""),
			Model:    getEnv("INSIGHT_MODEL", "gemini-2.5-flash"),
		},
	}

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			if broker = strings.TrimSpace(broker); broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	timeoutSec, err := strconv.Atoi(getEnv("INSIGHT_TIMEOUT_SECONDS", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid INSIGHT_TIMEOUT_SECONDS: %w", err)
	}
	cfg.Insight.Timeout = time.Duration(timeoutSec) * time.Second

	seed, err := strconv.ParseBool(getEnv("SEED_DEMO_DATA", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO_DATA: %w", err)
	}
	cfg.SeedDemoData = seed

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
