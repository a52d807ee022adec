package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"spendlens/internal/core"
	"spendlens/internal/insight"
)

// defaultPageSize matches the transaction list's "show more" step.
const defaultPageSize = 6

const (
	summaryCacheKey   = "summary"
	narrativeCacheKey = "narrative"
)

type (
	categoryEntry struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
		Share    float64 `json:"share"`
	}

	summaryResponse struct {
		TotalAmount        float64            `json:"total_amount"`
		TransactionCount   int                `json:"transaction_count"`
		TopCategory        string             `json:"top_category"`
		SpendingByCategory map[string]float64 `json:"spending_by_category"`
		RankedCategories   []categoryEntry    `json:"ranked_categories"`
	}

	transactionEntry struct {
		Date     string  `json:"date"`
		Merchant string  `json:"merchant"`
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}

	transactionsResponse struct {
		Transactions  []transactionEntry `json:"transactions"`
		TotalCount    int                `json:"total_count"`
		FilteredCount int                `json:"filtered_count"`
		FilteredTotal float64            `json:"filtered_total"`
		Categories    []string           `json:"categories"`
		HasMore       bool               `json:"has_more"`
	}

	calendarCell struct {
		Date             string             `json:"date"`
		InMonth          bool               `json:"in_month"`
		Amount           float64            `json:"amount"`
		TransactionCount int                `json:"transaction_count"`
		Level            insight.SpendLevel `json:"level"`
		Transactions     []transactionEntry `json:"transactions,omitempty"`
	}

	calendarResponse struct {
		Year  int            `json:"year"`
		Month int            `json:"month"`
		Cells []calendarCell `json:"cells"`
	}

	suggestionEntry struct {
		Icon        string           `json:"icon"`
		Title       string           `json:"title"`
		Description string           `json:"description"`
		Savings     float64          `json:"savings"`
		Category    string           `json:"category"`
		Severity    insight.Severity `json:"severity"`
	}

	suggestionsResponse struct {
		Suggestions  []suggestionEntry `json:"suggestions"`
		TotalSavings float64           `json:"total_savings"`
	}
)

// loadTransactions fetches the engine's input snapshot with a bounded wait.
func (s *Server) loadTransactions(ctx context.Context) ([]core.Transaction, error) {
	loadCtx, cancel := context.WithTimeout(ctx, 7*time.Second)
	defer cancel()
	return s.lister.ListTransactions(loadCtx)
}

// handleSummary returns the aggregate statistics for the full list.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	summary, ok := s.summaryCache.Get(summaryCacheKey)
	if !ok {
		txs, err := s.loadTransactions(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
			http.Error(w, "transactions unavailable", http.StatusServiceUnavailable)
			return
		}
		summary = insight.ComputeSummary(txs)
		s.summaryCache.Set(summaryCacheKey, summary)
	}

	byCategory := make(map[string]float64, len(summary.ByCategory))
	for category, cents := range summary.ByCategory {
		byCategory[category] = dollars(cents)
	}

	ranked := insight.RankCategories(summary.ByCategory)
	entries := make([]categoryEntry, 0, len(ranked))
	for _, c := range ranked {
		entries = append(entries, categoryEntry{
			Category: c.Category,
			Amount:   dollars(c.Cents),
			Share:    insight.CategoryShare(c.Cents, summary.TotalCents),
		})
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		TotalAmount:        dollars(summary.TotalCents),
		TransactionCount:   summary.TransactionCount,
		TopCategory:        summary.TopCategory,
		SpendingByCategory: byCategory,
		RankedCategories:   entries,
	})
}

// handleTransactions returns the filtered, paginated transaction list.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	txs, err := s.loadTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
		http.Error(w, "transactions unavailable", http.StatusServiceUnavailable)
		return
	}

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	offset := parseIntParam(r, "offset", 0)
	limit := parseIntParam(r, "limit", defaultPageSize)

	filtered := insight.FilterByCategory(txs, category)
	page := insight.Paginate(filtered, offset, limit)

	var filteredCents int64
	for _, tx := range filtered {
		filteredCents += tx.Amount.Cents
	}

	writeJSON(w, http.StatusOK, transactionsResponse{
		Transactions:  toEntries(page),
		TotalCount:    len(txs),
		FilteredCount: len(filtered),
		FilteredTotal: dollars(filteredCents),
		Categories:    insight.Categories(txs),
		HasMore:       offset+len(page) < len(filtered),
	})
}

// handleCalendar returns the month grid joined with the day buckets.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	txs, err := s.loadTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
		http.Error(w, "transactions unavailable", http.StatusServiceUnavailable)
		return
	}

	year, month := parseYearMonth(r)
	buckets := insight.BucketByDate(txs)
	grid := insight.CalendarGrid(year, month)

	cells := make([]calendarCell, 0, len(grid))
	for _, day := range grid {
		key := core.Date{Time: day}.Key()
		cell := calendarCell{
			Date:    key,
			InMonth: day.Month() == month && day.Year() == year,
			Level:   insight.LevelNone,
		}
		if bucket, ok := buckets[key]; ok {
			cell.Amount = dollars(bucket.AmountCents)
			cell.TransactionCount = bucket.TransactionCount
			cell.Level = insight.LevelFor(bucket.AmountCents)
			cell.Transactions = toEntries(bucket.Transactions)
		}
		cells = append(cells, cell)
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		Year:  year,
		Month: int(month),
		Cells: cells,
	})
}

// handleSuggestions returns the threshold-rule advisories.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	txs, err := s.loadTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
		http.Error(w, "transactions unavailable", http.StatusServiceUnavailable)
		return
	}

	suggestions := insight.GenerateSuggestions(txs, s.rules)
	entries := make([]suggestionEntry, 0, len(suggestions))
	var totalCents int64
	for _, sg := range suggestions {
		totalCents += sg.SavingsCents
		entries = append(entries, suggestionEntry{
			Icon:        sg.Icon,
			Title:       sg.Title,
			Description: sg.Description,
			Savings:     dollars(sg.SavingsCents),
			Category:    sg.Category,
			Severity:    sg.Severity,
		})
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		Suggestions:  entries,
		TotalSavings: dollars(totalCents),
	})
}

// handleInsights returns the spending-analysis cards.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	txs, err := s.loadTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
		http.Error(w, "transactions unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"insights": insight.GenerateInsights(txs, s.rules),
	})
}

// handleNarrative returns the free-text synthesis, cached per snapshot.
func (s *Server) handleNarrative(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	if text, ok := s.narrativeCache.Get(narrativeCacheKey); ok {
		writeJSON(w, http.StatusOK, map[string]string{"narrative": text})
		return
	}

	txs, err := s.loadTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
		http.Error(w, "transactions unavailable", http.StatusServiceUnavailable)
		return
	}

	// Never fails; a broken narrator degrades to the template string.
	text := s.narrator.Summarize(r.Context(), txs)
	s.narrativeCache.Set(narrativeCacheKey, text)

	writeJSON(w, http.StatusOK, map[string]string{"narrative": text})
}

// handleAssistant answers a free-form prompt from the keyword table.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	txs, err := s.loadTransactions(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load transactions", "error", err)
		http.Error(w, "transactions unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"response": s.assistant.Reply(req.Prompt, txs),
	})
}

func toEntries(txs []core.Transaction) []transactionEntry {
	out := make([]transactionEntry, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionEntry{
			Date:     tx.Date.Key(),
			Merchant: tx.Merchant,
			Amount:   tx.Amount.Dollars(),
			Category: tx.Category,
		})
	}
	return out
}
