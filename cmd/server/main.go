// Package main is the entrypoint for the logscope API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kavyamurthy/logscope/internal/ai"
	"github.com/kavyamurthy/logscope/internal/analysis"
	"github.com/kavyamurthy/logscope/internal/api"
	"github.com/kavyamurthy/logscope/internal/api/handler"
	mw "github.com/kavyamurthy/logscope/internal/api/middleware"
	"github.com/kavyamurthy/logscope/internal/cache"
	"github.com/kavyamurthy/logscope/internal/config"
	"github.com/kavyamurthy/logscope/internal/pipeline"
	"github.com/kavyamurthy/logscope/internal/report"
	"github.com/kavyamurthy/logscope/internal/store"
	"github.com/kavyamurthy/logscope/internal/timestamp"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config, failing fast when invalid
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "ai_provider", cfg.AI.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create the narrator
	narrator, err := ai.NewNarrator(cfg.AI)
	if err != nil {
		return fmt.Errorf("create narrator: %w", err)
	}
	slog.Info("narrator initialized", "provider", narrator.Name(), "model", narrator.Model())

	// 6. Create store and analysis services
	pgStore := store.NewPostgresStore(pool)

	rec := timestamp.NewRecognizer(cfg.Analysis.MinYear, cfg.Analysis.MaxYear)
	pipe := pipeline.New(pgStore, pipeline.Options{
		MaxUploadBytes: cfg.Ingest.MaxUploadBytes,
		Recognizer:     rec,
		Limits: analysis.Limits{
			Critical:    cfg.Analysis.CriticalLimit,
			TopPatterns: cfg.Analysis.TopPatternLimit,
		},
		KeyEventLimit: cfg.Analysis.KeyEventLimit,
	})
	binner := analysis.NewBinner(rec, redisCache, analysis.BinnerOptions{
		SampleThreshold: cfg.Analysis.SampleThreshold,
		MaxPoints:       cfg.Analysis.MaxPoints,
	})
	reports := report.NewService(narrator, pgStore, cfg.AI.InferenceTimeout)

	// 7. Build router with dependencies
	deps := api.Dependencies{
		Auth:      mw.NewAuth(cfg.Auth.APIKeyHash),
		RateLimit: mw.NewRateLimit(redisCache, cfg.RateLimit.RequestsPerMinute),

		HealthHandler:   handler.NewHealthHandler(pgStore, redisCache),
		AnalyzeHandler:  handler.NewAnalyzeHandler(pipe),
		TimelineHandler: handler.NewTimelineHandler(pipe, binner),
		ExportHandler:   handler.NewExportHandler(pipe),
		ReportHandler:   handler.NewReportHandler(pipe, reports),
		ListUploads:     handler.NewListUploadsHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
