package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glowlab/dermalyze/internal/api"
	"github.com/glowlab/dermalyze/internal/cache"
	"github.com/glowlab/dermalyze/internal/config"
	"github.com/glowlab/dermalyze/internal/database"
	"github.com/glowlab/dermalyze/internal/repository"
	"github.com/glowlab/dermalyze/internal/retention"
	"github.com/glowlab/dermalyze/internal/routine"
	"github.com/glowlab/dermalyze/internal/service"
	"github.com/glowlab/dermalyze/internal/storage"
	"github.com/glowlab/dermalyze/internal/usage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting Dermalyze API",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("face_provider", cfg.FaceProvider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run migrations (golang-migrate needs database/sql)
	migrateDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	migrator, err := database.NewMigrator(migrateDB, "dermalyze")
	if err != nil {
		_ = migrateDB.Close()
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("database migrations applied")

	// Connection pool for repositories
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	analysisRepo := repository.NewAnalysisRepository(pool)

	// Face detection and color extraction providers
	faceDetector, err := service.NewFaceDetector(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create face detector: %w", err)
	}
	colorExtractor := service.NewColorExtractor(cfg)

	// Routine text generator (falls back to static text without an API key)
	routines := routine.NewGenerator(routine.Config{
		APIKey:  cfg.AnthropicAPIKey,
		Model:   cfg.AnthropicModel,
		Timeout: cfg.RoutineTimeout,
	}, logger)

	// Selfie archival
	var images storage.ImageStore
	if cfg.BlobStorageEnabled() {
		images, err = storage.NewAzureStorage(cfg.AzureStorageAccount, cfg.AzureStorageKey, cfg.AzureStorageContainer)
		if err != nil {
			return fmt.Errorf("failed to create blob storage: %w", err)
		}
		logger.Info("blob storage enabled", slog.String("container", cfg.AzureStorageContainer))
	} else {
		images = storage.NewNoop()
		logger.Info("blob storage disabled, selfies are discarded after analysis")
	}

	// Background retention worker
	retentionWorker := retention.NewWorker(
		retention.Config{Schedule: cfg.RetentionSchedule},
		cache.NewPGCache(pool),
		usage.NewRepository(pool),
		analysisRepo,
		logger,
	)
	if err := retentionWorker.Start(); err != nil {
		return fmt.Errorf("failed to start retention worker: %w", err)
	}
	defer retentionWorker.Stop()

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Config:         cfg,
		UserRepo:       userRepo,
		AnalysisRepo:   analysisRepo,
		FaceDetector:   faceDetector,
		ColorExtractor: colorExtractor,
		Routines:       routines,
		Images:         images,
		DB:             pool,
	})
	router.Setup()

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down server...")
	if err := router.Shutdown(); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}

	<-shutdownCtx.Done()
	logger.Info("server stopped")

	return nil
}
