// Package telemetry wires error reporting and Prometheus metrics.
package telemetry

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryConfig configures error reporting.
type SentryConfig struct {
	// DSN enables reporting when non-empty.
	DSN string

	// Environment tags every event (e.g. "production", "development").
	Environment string

	// Release tags events with the deployed version.
	Release string

	// SampleRate for error events, 0 defaults to 1.0.
	SampleRate float64
}

// InitSentry initializes the Sentry SDK. With an empty DSN it is a
// no-op and reporting stays disabled.
func InitSentry(cfg SentryConfig, logger *slog.Logger) error {
	if cfg.DSN == "" {
		logger.Info("sentry disabled, no DSN configured")
		return nil
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		SampleRate:  sampleRate,
	})
	if err != nil {
		return fmt.Errorf("sentry init: %w", err)
	}

	logger.Info("sentry initialized", "environment", cfg.Environment, "release", cfg.Release)
	return nil
}

// FlushSentry drains buffered events on shutdown.
func FlushSentry() {
	sentry.Flush(2 * time.Second)
}

// CaptureError reports an error with key/value context tags.
func CaptureError(err error, tags map[string]string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		sentry.CaptureException(err)
	})
}
