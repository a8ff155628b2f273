package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Shubham-711/Finance-tracker-saas/internal/amqp"
	"github.com/Shubham-711/Finance-tracker-saas/internal/config"
	"github.com/Shubham-711/Finance-tracker-saas/internal/export"
	"github.com/Shubham-711/Finance-tracker-saas/internal/storage"
	"github.com/Shubham-711/Finance-tracker-saas/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting sync-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The ledger target: Google Sheets when configured, in-memory otherwise
	// so local runs exercise the full pipeline without credentials.
	var ledger export.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := export.NewSheetsLedger(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Sheets ledger", "error", err)
			os.Exit(1)
		}
		ledger = sheets
		logger.Info("Sheets ledger initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	} else {
		ledger = export.NewMemoryLedger()
		logger.Warn("No GOOGLE_SPREADSHEET_ID provided - exporting to in-memory ledger")
	}

	syncWorker := worker.NewSyncWorker(repo, ledger, cfg.SyncBatchSize)

	// Drain anything that piled up while the worker was down.
	if err := syncWorker.StartupSyncCheck(ctx); err != nil {
		logger.Error("Startup sync check failed", "error", err)
	}

	// Periodic sweep as a backup for lost queue messages.
	go syncWorker.RunPeriodicSweep(ctx, cfg.SyncInterval)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled - running on periodic sweep only")
		<-ctx.Done()
		logger.Info("Worker stopped gracefully")
		return
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	err = amqpClient.ConsumeTransactionSync(ctx, func(msg *amqp.TransactionSyncMessage) error {
		return syncWorker.HandleSyncMessage(ctx, msg)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
