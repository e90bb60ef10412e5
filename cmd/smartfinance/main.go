package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"smartfinance/internal/cli"
	apphttp "smartfinance/internal/http"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		// Logger is not configured yet.
		os.Stderr.WriteString(err.Error() + "\n")
	}
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Stdout)
	cfg := cli.LoadAndValidateConfig(logger)

	app, err := cli.NewApp(context.Background(), logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("Cleanup failed", "error", err)
		}
	}()

	checks := make(map[string]apphttp.ReadinessCheck, len(app.Backend.Checks))
	for name, check := range app.Backend.Checks {
		checks[name] = check
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Imports:        app.Imports,
		Budgets:        app.Budgets,
		Receipts:       app.Receipts,
		Advisor:        app.Advisor,
		Logger:         logger,
		VisionProvider: cfg.VisionProvider,
		Checks:         checks,
	}, apphttp.Options{
		MaxUploadBytes:     cfg.MaxUploadBytes,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})
	app.Janitor.Start(ctx, time.Minute)

	logger.Info("Starting smartfinance server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
