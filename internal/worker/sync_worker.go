// Package worker exports transactions from sqlite to the ledger spreadsheet,
// driven by AMQP messages with a periodic sweep as backup.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shubham-711/Finance-tracker-saas/internal/amqp"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
	"github.com/Shubham-711/Finance-tracker-saas/internal/export"
	"github.com/Shubham-711/Finance-tracker-saas/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	ledger    export.LedgerWriter
	batchSize int
}

func NewSyncWorker(repo *storage.SQLiteRepository, ledger export.LedgerWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		ledger:    ledger,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "user_id", msg.UserID)

	t, err := w.storage.GetTransactionByID(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before the worker got to it. Nothing to export.
		slog.WarnContext(ctx, "Transaction gone before sync, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.exportTransaction(ctx, msg.UserID, t)
}

// ProcessPending exports transactions that never made it through the queue.
// This is the backup path for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		t, err := w.storage.GetTransactionByID(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending transaction", "id", p.ID, "error", err)
			if markErr := w.storage.MarkSyncError(ctx, p.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", markErr)
			}
			continue
		}
		if err := w.exportTransaction(ctx, p.UserID, t); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup, with a
// larger batch, to recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing", "count", len(pending))

	synced, failed := 0, 0
	for _, p := range pending {
		t, err := w.storage.GetTransactionByID(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load transaction for startup sync", "id", p.ID, "error", err)
			if markErr := w.storage.MarkSyncError(ctx, p.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", markErr)
			}
			failed++
			continue
		}
		if err := w.exportTransaction(ctx, p.UserID, t); err != nil {
			slog.ErrorContext(ctx, "Failed to export during startup sync", "id", p.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending), "synced", synced, "errors", failed)
	return nil
}

// RunPeriodicSweep calls ProcessPending on a fixed interval until ctx ends.
func (w *SyncWorker) RunPeriodicSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic sweep failed", "error", err)
			}
		}
	}
}

func (w *SyncWorker) exportTransaction(ctx context.Context, userID int64, t core.Transaction) error {
	ref, err := w.ledger.Append(ctx, userID, t)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, t.ID); err != nil {
		// The export itself succeeded; don't fail the message over bookkeeping.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", t.ID, "error", err)
	}

	slog.InfoContext(ctx, "Transaction exported to ledger",
		"id", t.ID, "user_id", userID, "ledger_ref", ref)
	return nil
}
