package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/cesargomez89/soundhall/internal/app"
	"github.com/cesargomez89/soundhall/internal/config"
	"github.com/cesargomez89/soundhall/internal/constants"
	httpapp "github.com/cesargomez89/soundhall/internal/http"
	"github.com/cesargomez89/soundhall/internal/logger"
	"github.com/cesargomez89/soundhall/internal/session"
	"github.com/cesargomez89/soundhall/internal/storage"
	"github.com/cesargomez89/soundhall/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Initialize Logger
	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	// Initialize DB
	db, err := store.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to init DB", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := storage.EnsureDir(cfg.MediaDir); err != nil {
		appLogger.Error("Failed to create media directory", "path", cfg.MediaDir, "error", err)
		os.Exit(1)
	}

	// Initialize Services
	ratings := app.NewAggregator(db)
	accounts := app.NewAccountService(db, appLogger)
	services := httpapp.Services{
		Accounts:  accounts,
		Listening: app.NewListeningService(db, appLogger),
		Feed:      app.NewFeedService(db, ratings, appLogger),
		Catalog:   app.NewCatalogService(db, storage.NewMediaStore(cfg.MediaDir), ratings, appLogger),
		Admin:     app.NewAdminService(db, ratings, appLogger),
	}

	if cfg.AdminPassword != "" {
		if err := accounts.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
			appLogger.Error("Failed to seed admin account", "error", err)
			os.Exit(1)
		}
	}

	// Routes
	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionMaxAge, appLogger)
	h := httpapp.NewHandler(services, sessions, db, httpapp.Options{
		MediaDir:          cfg.MediaDir,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		MaxUploadBytes:    cfg.MaxUploadBytes(),
	}, appLogger)

	// Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpapp.NewRouter(h),
	}

	go func() {
		appLogger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		return
	}

	appLogger.Info("Server exiting")
}
