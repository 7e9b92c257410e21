package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kuinque/korzina/config"
	"github.com/kuinque/korzina/internal/app"
	httpDelivery "github.com/kuinque/korzina/internal/delivery/http"
	"github.com/kuinque/korzina/internal/usecase"
	"github.com/kuinque/korzina/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "korzina: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting korzina",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Type),
		zap.String("cache", cfg.Cache.Type))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	store, err := app.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open offer store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("closing offer store", zap.Error(err))
		}
	}()

	// Initialize usecase layer
	searchService := usecase.NewShopSearchService(store, app.SearchConfig(cfg), log.Named("search"))
	catalogService := usecase.NewCatalogService(store, log.Named("catalog"))

	log.Info("matching configured",
		zap.Float64("penalty_price", cfg.Matching.PenaltyPrice),
		zap.Float64("partial_full_threshold", cfg.Matching.PartialFullThreshold),
		zap.Float64("partial_clean_threshold", cfg.Matching.PartialCleanThreshold),
		zap.Int("workers", cfg.Matching.Workers))

	handler := httpDelivery.NewHandler(searchService, catalogService, cfg.Server.RequestTimeout, log.Named("http"))
	router := httpDelivery.SetupRouter(cfg, handler, log.Named("access"))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
