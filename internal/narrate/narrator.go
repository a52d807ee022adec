// Package narrate turns transaction aggregates into natural-language
// commentary. The live path calls a hosted model; every caller-facing entry
// point degrades to a deterministic template so narration can never fail.
package narrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"spendlens/internal/core"
	"spendlens/internal/insight"
)

// Narrator produces a short free-text synthesis of a transaction list.
type Narrator interface {
	Summarize(ctx context.Context, txs []core.Transaction) (string, error)
}

// Service fronts a live narrator with the offline template fallback.
// Concurrent requests for the same transaction snapshot are collapsed into
// a single upstream call.
type Service struct {
	live     Narrator // nil when no API key is configured
	fallback *Template
	timeout  time.Duration
	group    singleflight.Group
}

func NewService(live Narrator, timeout time.Duration) *Service {
	return &Service{
		live:     live,
		fallback: NewTemplate(),
		timeout:  timeout,
	}
}

// Summarize returns commentary for the transaction list. A failing, slow,
// or unconfigured live narrator is replaced by the template string; the
// caller never sees an error.
func (s *Service) Summarize(ctx context.Context, txs []core.Transaction) string {
	if s.live == nil {
		return s.fallback.MustSummarize(txs)
	}

	key := snapshotKey(txs)
	result, err, _ := s.group.Do(key, func() (any, error) {
		callCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}
		return s.live.Summarize(callCtx, txs)
	})
	if err != nil {
		slog.WarnContext(ctx, "Live narration failed, using template fallback", "error", err)
		return s.fallback.MustSummarize(txs)
	}

	text, ok := result.(string)
	if !ok || text == "" {
		slog.WarnContext(ctx, "Live narration returned degenerate output, using template fallback")
		return s.fallback.MustSummarize(txs)
	}
	return text
}

// snapshotKey fingerprints a transaction list for request collapsing.
// Totals plus count are enough: the fixture list is static per process.
func snapshotKey(txs []core.Transaction) string {
	s := insight.ComputeSummary(txs)
	return fmt.Sprintf("%d:%d:%s", s.TotalCents, s.TransactionCount, s.TopCategory)
}
