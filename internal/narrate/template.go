package narrate

import (
	"context"
	"fmt"

	"spendlens/internal/core"
	"spendlens/internal/insight"
)

// Template is the deterministic offline narrator. It renders the same
// aggregates the live path would describe, so the dashboard reads sensibly
// with no model configured.
type Template struct{}

func NewTemplate() *Template {
	return &Template{}
}

// Summarize implements Narrator. It never fails.
func (t *Template) Summarize(_ context.Context, txs []core.Transaction) (string, error) {
	return t.MustSummarize(txs), nil
}

// MustSummarize renders the canned synthesis for the transaction list.
func (t *Template) MustSummarize(txs []core.Transaction) string {
	s := insight.ComputeSummary(txs)
	if s.TransactionCount == 0 {
		return "No transactions recorded for this period, so there is nothing to summarize yet."
	}
	return fmt.Sprintf(
		"You spent a total of %s across %d transactions this period. Your highest spending category was %s at %s. Consider tracking your %s expenses more closely to optimize your budget.",
		core.FormatUSD(s.TotalCents),
		s.TransactionCount,
		s.TopCategory,
		core.FormatUSD(s.ByCategory[s.TopCategory]),
		s.TopCategory,
	)
}
