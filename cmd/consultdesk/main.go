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
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/consultdesk/internal/config"
	logpkg "github.com/kailas-cloud/consultdesk/internal/logger"
	"github.com/kailas-cloud/consultdesk/internal/metrics"
	chiTransport "github.com/kailas-cloud/consultdesk/internal/transport/chi"
	"github.com/kailas-cloud/consultdesk/internal/transport/rest"
	healthuc "github.com/kailas-cloud/consultdesk/internal/usecase/health"
	"github.com/kailas-cloud/consultdesk/internal/usecase/records"
	searchuc "github.com/kailas-cloud/consultdesk/internal/usecase/search"
	viewuc "github.com/kailas-cloud/consultdesk/internal/usecase/view"
	"github.com/kailas-cloud/consultdesk/internal/version"
)

const warmupTimeout = 15 * time.Second

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting consultdesk console",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.String("cache_strategy", cfg.Cache.Strategy),
	)

	// Register remote call metrics explicitly (no init())
	metrics.RegisterRemoteMetrics()

	api, err := rest.New(rest.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create API client", zap.Error(err))
	}

	recordSvc := records.New(api, logger).
		WithListLimit(cfg.API.ListLimit).
		WithStrategy(records.Strategy(cfg.Cache.Strategy))
	searchSvc := searchuc.New(api, logger).
		WithOrderedResponses(cfg.Search.OrderedResponses)
	viewCtl := viewuc.New(recordSvc, searchSvc, logger).
		WithSearchDefaults(cfg.Search.PageSize, cfg.Search.Threshold())
	healthSvc := healthuc.New(api, recordSvc)

	warmup(viewCtl, api, logger)

	server := chiTransport.NewServer(viewCtl, healthSvc, logger)
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Console stopped gracefully")
}

// warmup loads the record list and probes the API in parallel.
// Failures are logged only: the console starts anyway and serves the error state.
func warmup(view *viewuc.Controller, api *rest.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	defer cancel()

	var g errgroup.Group
	g.Go(func() error {
		if err := view.Load(ctx); err != nil {
			return fmt.Errorf("initial load: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := api.HealthCheck(ctx); err != nil {
			return fmt.Errorf("api health: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Warn("Warm-up incomplete", zap.Error(err))
		return
	}
	logger.Info("Consultation list loaded",
		zap.Int("records", view.Display().Total),
	)
}
