package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Shubham-711/Finance-tracker-saas/internal/api"
	"github.com/Shubham-711/Finance-tracker-saas/internal/cache"
	"github.com/Shubham-711/Finance-tracker-saas/internal/config"
	"github.com/Shubham-711/Finance-tracker-saas/internal/session"
	"github.com/Shubham-711/Finance-tracker-saas/internal/web"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	sessions, err := session.Open(cfg.SessionFile)
	if err != nil {
		logger.Error("Failed to open session store", "error", err, "path", cfg.SessionFile)
		os.Exit(1)
	}

	client := api.New(cfg.APIBaseURL, sessions)
	data := cache.New(client, cfg.DashboardTrendDays)

	srv, err := web.NewServer(":"+cfg.Port, client, sessions, data, cfg.ReportsTrendDays)
	if err != nil {
		logger.Error("Failed to build web server", "error", err)
		os.Exit(1)
	}
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting fintrack web server", "port", cfg.Port, "backend", cfg.APIBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
