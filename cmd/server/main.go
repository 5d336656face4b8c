package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rwreynolds/stampcollect/internal/api"
	"github.com/rwreynolds/stampcollect/internal/config"
	"github.com/rwreynolds/stampcollect/internal/database"
	"github.com/rwreynolds/stampcollect/internal/logger"
	"github.com/rwreynolds/stampcollect/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// Initialize database
	db, err := database.Open(cfg.Database.Path, database.Options{
		LogLevel: database.ParseLogLevel(cfg.Database.LogLevel),
		Logger:   zl,
	})
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zl.Warn("closing database", zap.Error(err))
		}
	}()

	// Initialize services
	stampService, err := services.NewStampService(database.NewStampStore(db), cfg.Search.CacheSize, zl)
	if err != nil {
		zl.Fatal("failed to initialize stamp service", zap.Error(err))
	}

	// Publish the collection gauges before the first scrape
	stampService.RefreshMetrics()

	router := api.SetupRouter(stampService, cfg, zl)

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		zl.Info("starting server", zap.Int("port", cfg.Port), zap.String("env", cfg.Env), zap.String("db_path", cfg.Database.Path))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down server")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}

	zl.Info("server exited")
}
