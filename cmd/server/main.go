package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/balcao-pos/balcao/internal"
	"github.com/balcao-pos/balcao/internal/backend"
	"github.com/balcao-pos/balcao/internal/domain"
	"github.com/balcao-pos/balcao/internal/handler/pos"
	"github.com/balcao-pos/balcao/internal/middleware"
	"github.com/balcao-pos/balcao/internal/router"
	"github.com/balcao-pos/balcao/internal/routes"
	"github.com/balcao-pos/balcao/internal/service"
	"github.com/balcao-pos/balcao/internal/state"
	"github.com/balcao-pos/balcao/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Error reporting
	if err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:         cfg.Sentry.DSN,
		Environment: cfg.Sentry.Environment,
		Release:     cfg.Sentry.Release,
		SampleRate:  cfg.Sentry.SampleRate,
	}, logger); err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer telemetry.FlushSentry()

	// Backend client
	api, err := backend.New(backend.Config{
		BaseURL:      cfg.Backend.BaseURL,
		CompanyToken: cfg.Backend.CompanyToken,
		CEPBaseURL:   cfg.Backend.CEPBaseURL,
		Timeout:      cfg.Backend.Timeout,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("backend client initialization failed: %w", err)
	}

	// Load the tenant's status ladder and product catalog up front.
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	records, err := api.ListStatuses(startupCtx, true)
	if err != nil {
		logger.Warn("status listing failed, using canonical names", "error", err)
	}
	statuses := domain.NewStatusSet(records)

	products, err := api.ListProducts(startupCtx)
	if err != nil {
		logger.Warn("product listing failed, cart additions need a catalog refresh", "error", err)
	}
	logger.Info("catalog loaded", "products", len(products))

	// Durable terminal flags
	flags, err := state.NewFlagStore(cfg.StatePath)
	if err != nil {
		return fmt.Errorf("flag store initialization failed: %w", err)
	}

	// Metrics
	httpMetrics := middleware.NewMetrics(cfg.MetricsNamespace)
	businessMetrics := telemetry.NewBusinessMetrics(nil)

	// Services
	sessions := service.NewSessionManager()
	orders, err := service.NewOrderService(service.OrderServiceConfig{
		API:          api,
		CompanyToken: cfg.Backend.CompanyToken,
		Statuses:     statuses,
		Logger:       logger,
		Metrics:      businessMetrics,
	})
	if err != nil {
		return fmt.Errorf("order service initialization failed: %w", err)
	}
	recommender := service.NewRecommender(api, products, logger, businessMetrics)

	// Handlers and routes
	posHandler := pos.NewHandler(pos.Config{
		Sessions:    sessions,
		Orders:      orders,
		Recommender: recommender,
		API:         api,
		Flags:       flags,
		Products:    products,
		Metrics:     businessMetrics,
		Logger:      logger,
	})

	r := router.New(
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		httpMetrics.Middleware,
		router.Recovery(logger),
		router.Logger(logger),
	)
	routes.Register(r, routes.Deps{POS: posHandler, Metrics: httpMetrics})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "addr", addr, "env", cfg.Env)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
