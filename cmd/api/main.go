package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freshtrack/internal/audit"
	"freshtrack/internal/auth"
	"freshtrack/internal/config"
	"freshtrack/internal/database"
	"freshtrack/internal/handler"
	"freshtrack/internal/importer"
	"freshtrack/internal/repository"
	"freshtrack/internal/router"
	"freshtrack/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting freshtrack API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	logRepo := repository.NewLogRepository(pool, logger)
	historyRepo := repository.NewImportHistoryRepository(pool, logger)

	// Token revocation store: Redis when configured, otherwise logout
	// leaves tokens valid until expiry.
	var revoker auth.TokenRevoker
	if cfg.Redis.Enabled {
		revoker, err = auth.NewRedisRevoker(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise redis revocation store, logout will not revoke tokens")
			revoker = auth.NewNoopRevoker()
		}
	} else {
		revoker = auth.NewNoopRevoker()
		logger.Info().Msg("token revocation store disabled (redis not configured)")
	}
	defer revoker.Close()

	// Async audit trail
	recorder := audit.NewRecorder(logRepo, logger)
	defer recorder.Close()

	// Optional S3 archive for raw import uploads
	var archiver importer.Archiver
	if cfg.S3.Enabled {
		archiver, err = importer.NewS3Archiver(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("failed to initialise S3 archiver, uploads will not be archived")
			archiver = importer.NewNoopArchiver()
		}
	} else {
		archiver = importer.NewNoopArchiver()
		logger.Info().Msg("upload archiving disabled (S3 not configured)")
	}

	// Spreadsheet import pipeline
	sheetReader := importer.NewSheetReader(logger)
	pipeline := importer.NewPipeline(productRepo, historyRepo, time.Now, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, time.Now, logger)
	statsService := service.NewStatsService(productRepo, time.Now, logger)
	authService := service.NewAuthService(userRepo, revoker, cfg.Auth.JWTSecret, logger)
	userService := service.NewUserService(userRepo, productRepo, time.Now, logger)
	logService := service.NewLogService(logRepo, logger)
	historyService := service.NewImportHistoryService(historyRepo, logger)

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, recorder, logger)
	productHandler := handler.NewProductHandler(productService, statsService, logger)
	importHandler := handler.NewImportHandler(sheetReader, pipeline, archiver, cfg.Upload.MaxSizeBytes(), logger)
	historyHandler := handler.NewImportHistoryHandler(historyService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	logHandler := handler.NewLogHandler(logService, logger)

	// Initialize router
	mux := router.New(router.Deps{
		Auth:          authHandler,
		Products:      productHandler,
		Imports:       importHandler,
		ImportHistory: historyHandler,
		Users:         userHandler,
		Logs:          logHandler,
		JWTSecret:     cfg.Auth.JWTSecret,
		Revoker:       revoker,
		UserRepo:      userRepo,
		Recorder:      recorder,
		Logger:        logger,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
