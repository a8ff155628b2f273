// Package export writes transactions to an external ledger spreadsheet so
// users keep an out-of-app copy of their history.
package export

import (
	"context"

	"github.com/Shubham-711/Finance-tracker-saas/internal/core"
)

// LedgerWriter appends one transaction row to the ledger and returns a
// reference to where it landed.
type LedgerWriter interface {
	Append(ctx context.Context, userID int64, t core.Transaction) (string, error)
}
