package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"budget/internal/cache"
	"budget/internal/cli"
	apphttp "budget/internal/http"
	"budget/internal/ledger"
	"budget/internal/log"
	"budget/internal/persist"
	"budget/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendResult := cli.InitBackend(context.Background(), logger, cfg)

	summaries := cache.NewLRUCache[services.Summary](cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(summaries)
	cacheManager.StartCleanup(cfg.SummaryCacheTTL)

	adapter := persist.NewAdapter(backendResult.Store, cfg.StorageKey, logger.Logger)
	svc := services.NewLedgerService(
		ledger.NewStore(),
		adapter,
		backendResult.Publisher,
		summaries,
		services.WithCurrencySymbol(cfg.CurrencySymbol),
		services.WithLogger(logger.Logger),
	)
	svc.Start(context.Background())

	srv := apphttp.NewServer(":"+cfg.Port, svc)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cacheManager.Stop()
		if err := backendResult.Close(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting budget server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"amqp_enabled", backendResult.Publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() == nil {
			// The server failed before any shutdown signal.
			return nil
		}
		<-done
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
