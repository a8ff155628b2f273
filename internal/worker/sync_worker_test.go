package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shubham-711/Finance-tracker-saas/internal/amqp"
	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
	"github.com/Shubham-711/Finance-tracker-saas/internal/export"
	"github.com/Shubham-711/Finance-tracker-saas/internal/storage"
)

func setup(t *testing.T) (*storage.SQLiteRepository, *export.MemoryLedger, *SyncWorker, int64) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "worker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	u, err := repo.CreateUser(context.Background(), "Ana", "ana@example.com", "hash")
	require.NoError(t, err)

	ledger := export.NewMemoryLedger()
	return repo, ledger, NewSyncWorker(repo, ledger, 10), u.ID
}

func seedTx(t *testing.T, repo *storage.SQLiteRepository, userID int64, category string) core.Transaction {
	t.Helper()
	created, err := repo.CreateTransaction(context.Background(), userID, core.Transaction{
		Amount:   decimal.NewFromInt(50),
		Category: category,
		Date:     core.NewDate(2024, 3, 1),
		Type:     core.Expense,
	})
	require.NoError(t, err)
	return created
}

func TestHandleSyncMessageExportsAndMarks(t *testing.T) {
	repo, ledger, w, userID := setup(t)
	ctx := context.Background()
	tx := seedTx(t, repo, userID, "food")

	err := w.HandleSyncMessage(ctx, amqp.NewTransactionSyncMessage(tx.ID, userID))
	require.NoError(t, err)

	rows := ledger.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, userID, rows[0].UserID)
	assert.Equal(t, "food", rows[0].Transaction.Category)

	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestHandleSyncMessageSkipsDeletedTransaction(t *testing.T) {
	_, ledger, w, userID := setup(t)

	err := w.HandleSyncMessage(context.Background(), amqp.NewTransactionSyncMessage(999, userID))
	require.NoError(t, err, "a vanished transaction is not a failure")
	assert.Empty(t, ledger.Rows())
}

func TestLedgerFailureMarksSyncError(t *testing.T) {
	repo, ledger, w, userID := setup(t)
	ctx := context.Background()
	tx := seedTx(t, repo, userID, "rent")

	ledger.FailNext = errors.New("quota exceeded")
	err := w.HandleSyncMessage(ctx, amqp.NewTransactionSyncMessage(tx.ID, userID))
	require.Error(t, err)

	// the errored row is parked, not retried forever
	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessPendingDrainsBacklog(t *testing.T) {
	repo, ledger, w, userID := setup(t)
	ctx := context.Background()
	seedTx(t, repo, userID, "food")
	seedTx(t, repo, userID, "travel")

	require.NoError(t, w.ProcessPending(ctx))
	assert.Len(t, ledger.Rows(), 2)

	// second run finds nothing left
	require.NoError(t, w.ProcessPending(ctx))
	assert.Len(t, ledger.Rows(), 2)
}

func TestStartupSyncCheckEmptyBacklog(t *testing.T) {
	_, ledger, w, _ := setup(t)
	require.NoError(t, w.StartupSyncCheck(context.Background()))
	assert.Empty(t, ledger.Rows())
}
