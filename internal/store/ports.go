package store

import (
	"context"

	"spendlens/internal/core"
)

// TransactionLister is the port every transaction source implements. The
// engine works on whatever snapshot the lister returns; callers own the
// returned slice.
type TransactionLister interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}
