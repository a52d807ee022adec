package insight

import "spendlens/internal/core"

// FilterByCategory returns the transactions whose category matches exactly,
// preserving input order. An empty category means no filter.
func FilterByCategory(txs []core.Transaction, category string) []core.Transaction {
	if category == "" {
		return append([]core.Transaction(nil), txs...)
	}
	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Category == category {
			out = append(out, tx)
		}
	}
	return out
}

// Paginate returns the page [offset, offset+limit) of the list. Out-of-range
// offsets yield an empty page; a non-positive limit means no cap.
func Paginate(txs []core.Transaction, offset, limit int) []core.Transaction {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(txs) {
		return []core.Transaction{}
	}
	end := len(txs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]core.Transaction(nil), txs[offset:end]...)
}
