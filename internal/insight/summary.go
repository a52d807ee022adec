// Package insight is the transaction aggregation and derived-insight engine.
//
// Every function here is pure: it reads a snapshot of the transaction list,
// returns fresh values, and keeps no state between calls. Amounts are in
// integer cents throughout.
package insight

import (
	"sort"

	"spendlens/internal/core"
)

// UnknownCategory is the sentinel top category for an empty transaction
// list. The engine never returns an error for empty input; totals are zero
// and every percentage computation guards its denominator.
const UnknownCategory = "Unknown"

type (
	// Summary holds the aggregate statistics for one transaction list.
	Summary struct {
		TotalCents       int64            `json:"total_cents"`
		TransactionCount int              `json:"transaction_count"`
		TopCategory      string           `json:"top_category"`
		ByCategory       map[string]int64 `json:"by_category"`
	}

	// CategoryAmount is one entry of a ranked category breakdown.
	CategoryAmount struct {
		Category string `json:"category"`
		Cents    int64  `json:"cents"`
	}
)

// ComputeSummary folds the transaction list into totals and a per-category
// breakdown in a single pass. The returned summary owns its map; later
// mutation of the input cannot corrupt it.
func ComputeSummary(txs []core.Transaction) Summary {
	byCategory := make(map[string]int64, 8)
	var total int64
	for _, tx := range txs {
		total += tx.Amount.Cents
		byCategory[tx.Category] += tx.Amount.Cents
	}

	top := UnknownCategory
	if ranked := RankCategories(byCategory); len(ranked) > 0 {
		top = ranked[0].Category
	}

	return Summary{
		TotalCents:       total,
		TransactionCount: len(txs),
		TopCategory:      top,
		ByCategory:       byCategory,
	}
}

// RankCategories sorts category totals descending by amount. Ties are
// broken by category name ascending so the order is fully deterministic
// regardless of map iteration order.
func RankCategories(byCategory map[string]int64) []CategoryAmount {
	ranked := make([]CategoryAmount, 0, len(byCategory))
	for category, cents := range byCategory {
		ranked = append(ranked, CategoryAmount{Category: category, Cents: cents})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Cents != ranked[j].Cents {
			return ranked[i].Cents > ranked[j].Cents
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// CategoryShare returns a category's share of the total as a percentage.
// A zero total yields zero, never a division by zero.
func CategoryShare(cents, totalCents int64) float64 {
	if totalCents == 0 {
		return 0
	}
	return float64(cents) / float64(totalCents) * 100
}

// Categories returns the distinct category labels present in the input,
// sorted ascending.
func Categories(txs []core.Transaction) []string {
	seen := make(map[string]struct{}, 8)
	for _, tx := range txs {
		seen[tx.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
