package narrate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"spendlens/internal/core"
	"spendlens/internal/insight"
)

// DefaultModel is used when GEMINI_MODEL is not set.
const DefaultModel = "gemini-2.0-flash"

// recentCount is how many trailing transactions the prompt includes.
const recentCount = 5

// Gemini is the live narrator backed by the GenAI API. The client reads its
// API key from the environment (GEMINI_API_KEY / GOOGLE_API_KEY).
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Summarize implements Narrator by asking the model for a short synthesis
// of the aggregate spending data.
func (g *Gemini) Summarize(ctx context.Context, txs []core.Transaction) (string, error) {
	prompt := buildSummaryPrompt(txs)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return text, nil
}

// buildSummaryPrompt embeds total spend, the per-category breakdown, and
// the last transactions into a fixed instruction block.
func buildSummaryPrompt(txs []core.Transaction) string {
	s := insight.ComputeSummary(txs)

	var b strings.Builder
	b.WriteString("Analyze these credit card transactions and provide a brief, friendly spending summary:\n\n")
	fmt.Fprintf(&b, "Total spent: %s\n", core.FormatUSD(s.TotalCents))
	fmt.Fprintf(&b, "Number of transactions: %d\n\n", s.TransactionCount)

	b.WriteString("Category breakdown:\n")
	for _, c := range insight.RankCategories(s.ByCategory) {
		fmt.Fprintf(&b, "- %s: %s\n", c.Category, core.FormatUSD(c.Cents))
	}

	b.WriteString("\nRecent transactions:\n")
	recent := txs
	if len(recent) > recentCount {
		recent = recent[len(recent)-recentCount:]
	}
	for _, tx := range recent {
		fmt.Fprintf(&b, "%s: %s - %s (%s)\n", tx.Date.Key(), tx.Merchant, tx.Amount, tx.Category)
	}

	b.WriteString("\nPlease provide a 2-3 sentence summary focusing on spending patterns and any notable insights.")
	return b.String()
}
