package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16

	Backend BackendConfig
	Sentry  SentryConfig

	// StatePath is where the terminal's durable flags live.
	StatePath string

	// MetricsNamespace prefixes the Prometheus metric names.
	MetricsNamespace string
}

// BackendConfig points the terminal at its restaurant backend.
type BackendConfig struct {
	BaseURL      string
	CompanyToken string
	CEPBaseURL   string
	Timeout      time.Duration
}

// SentryConfig holds configuration for Sentry error tracking.
type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
	SampleRate  float64
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		Backend: BackendConfig{
			BaseURL:      getEnv("BACKEND_BASE_URL", "http://localhost:8000"),
			CompanyToken: getEnv("COMPANY_TOKEN", "dev-company-token"),
			CEPBaseURL:   getEnv("CEP_BASE_URL", ""),
			Timeout:      time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			Environment: getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:     getEnv("SENTRY_RELEASE", ""),
			SampleRate:  getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
		},
		StatePath:        getEnv("STATE_PATH", "./data/flags.json"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "pos"),
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	validLevel := cfg.LogLevel == "info" || cfg.LogLevel == "debug" || cfg.LogLevel == "warn" || cfg.LogLevel == "error"
	if !validLevel {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	// The tenant token is the one credential the terminal cannot run
	// without in production.
	if cfg.Env == "prod" && (cfg.Backend.CompanyToken == "" || cfg.Backend.CompanyToken == "dev-company-token") {
		return nil, fmt.Errorf("COMPANY_TOKEN must be set in production environment")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 16); err == nil {
			return uint16(parsed)
		}
		slog.Default().Warn("Invalid integer value, using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		slog.Default().Warn("Invalid float value, using default", slog.String("key", key), slog.String("value", value))
	}
	return defaultValue
}
