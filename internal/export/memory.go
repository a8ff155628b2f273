package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
)

// MemoryLedger is an in-memory LedgerWriter for tests and local runs without
// spreadsheet credentials.
type MemoryLedger struct {
	mu   sync.Mutex
	rows []MemoryRow

	FailNext error
}

type MemoryRow struct {
	UserID      int64
	Transaction core.Transaction
}

var _ LedgerWriter = (*MemoryLedger)(nil)

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (m *MemoryLedger) Append(_ context.Context, userID int64, t core.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailNext != nil {
		err := m.FailNext
		m.FailNext = nil
		return "", err
	}
	m.rows = append(m.rows, MemoryRow{UserID: userID, Transaction: t})
	return fmt.Sprintf("memory!A%d", len(m.rows)), nil
}

func (m *MemoryLedger) Rows() []MemoryRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MemoryRow, len(m.rows))
	copy(out, m.rows)
	return out
}
