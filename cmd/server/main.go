// FinLearn - educational finance API
// Entry point for the web server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findosh/finlearn/internal/catalog"
	"github.com/findosh/finlearn/internal/config"
	"github.com/findosh/finlearn/internal/handlers"
	"github.com/findosh/finlearn/internal/logger"
	"github.com/findosh/finlearn/internal/services/analytics"
	"github.com/findosh/finlearn/internal/services/marketdata"
	"github.com/findosh/finlearn/internal/services/portfolio"
	"github.com/findosh/finlearn/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// Load the static catalog
	cat, err := catalog.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load catalog")
	}

	// Initialize database
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabaseURL).Msg("Failed to open database")
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize services
	analyticsService := analytics.NewService(cat, log)
	portfolioService := portfolio.NewService(storage.NewPositionRepository(db), cat, analyticsService, log)
	marketDataService := marketdata.NewService(cat, marketdata.Config{CacheTTL: cfg.QuoteCacheTTL})

	h := handlers.New(cfg, cat, analyticsService, portfolioService, marketDataService, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("environment", cfg.Environment).
			Int("instruments", len(cat.List())).
			Msg("FinLearn server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
