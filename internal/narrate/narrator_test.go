package narrate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/internal/core"
)

type stubNarrator struct {
	text  string
	err   error
	calls int
}

func (s *stubNarrator) Summarize(_ context.Context, _ []core.Transaction) (string, error) {
	s.calls++
	return s.text, s.err
}

func sampleTransactions() []core.Transaction {
	return []core.Transaction{
		{Date: core.NewDate(2024, 1, 5), Merchant: "Starbucks", Amount: core.Money{Cents: 550}, Category: "Coffee"},
		{Date: core.NewDate(2024, 1, 5), Merchant: "Shell", Amount: core.Money{Cents: 4000}, Category: "Gas"},
		{Date: core.NewDate(2024, 1, 6), Merchant: "Peets", Amount: core.Money{Cents: 400}, Category: "Coffee"},
	}
}

func TestTemplateSummarize(t *testing.T) {
	got := NewTemplate().MustSummarize(sampleTransactions())

	want := "You spent a total of $49.50 across 3 transactions this period. Your highest spending category was Gas at $40.00. Consider tracking your Gas expenses more closely to optimize your budget."
	assert.Equal(t, want, got)

	// Deterministic: same input, same string.
	assert.Equal(t, got, NewTemplate().MustSummarize(sampleTransactions()))
}

func TestTemplateSummarizeEmpty(t *testing.T) {
	got := NewTemplate().MustSummarize(nil)
	assert.Contains(t, got, "No transactions recorded")
}

func TestServiceUsesLiveNarrator(t *testing.T) {
	stub := &stubNarrator{text: "model says hi"}
	svc := NewService(stub, time.Second)

	got := svc.Summarize(context.Background(), sampleTransactions())
	assert.Equal(t, "model says hi", got)
	assert.Equal(t, 1, stub.calls)
}

func TestServiceFallsBackOnError(t *testing.T) {
	stub := &stubNarrator{err: errors.New("boom")}
	svc := NewService(stub, time.Second)

	got := svc.Summarize(context.Background(), sampleTransactions())
	assert.Contains(t, got, "You spent a total of $49.50")
}

func TestServiceFallsBackOnEmptyOutput(t *testing.T) {
	stub := &stubNarrator{text: ""}
	svc := NewService(stub, time.Second)

	got := svc.Summarize(context.Background(), sampleTransactions())
	assert.Contains(t, got, "You spent a total of $49.50")
}

func TestServiceWithoutLiveNarrator(t *testing.T) {
	svc := NewService(nil, time.Second)

	got := svc.Summarize(context.Background(), sampleTransactions())
	assert.Contains(t, got, "You spent a total of $49.50")
}

func TestAssistantDecisionTable(t *testing.T) {
	a := NewAssistant()
	txs := sampleTransactions()

	cases := []struct {
		prompt string
		expect string
	}{
		{"Is there any sign of coffee addiction based on my expenses?", "$9.50 on coffee"},
		{"What does my spending say about me as a PERSONALITY?", "active consumer"},
		{"Tell me if I have any unusual spending habits", "Your biggest spending category is Gas"},
		{"Analyze my spending patterns", "3 transactions totaling $49.50"},
	}
	for _, tc := range cases {
		got := a.Reply(tc.prompt, txs)
		require.NotEmpty(t, got, tc.prompt)
		assert.Contains(t, got, tc.expect, "prompt %q", tc.prompt)
	}
}

func TestAssistantFirstMatchWins(t *testing.T) {
	a := NewAssistant()

	// "coffee" appears before "habits" in the rule order.
	got := a.Reply("do my coffee habits look unusual?", sampleTransactions())
	assert.True(t, strings.Contains(got, "coffee"), "expected coffee rule to win: %q", got)
	assert.NotContains(t, got, "biggest spending category")
}

func TestAssistantHabitsEmptyInput(t *testing.T) {
	a := NewAssistant()
	got := a.Reply("any unusual habits?", nil)
	assert.Contains(t, got, "no transactions")
}

func TestBuildSummaryPromptIncludesAggregates(t *testing.T) {
	prompt := buildSummaryPrompt(sampleTransactions())

	assert.Contains(t, prompt, "Total spent: $49.50")
	assert.Contains(t, prompt, "Number of transactions: 3")
	assert.Contains(t, prompt, "- Gas: $40.00")
	assert.Contains(t, prompt, "- Coffee: $9.50")
	assert.Contains(t, prompt, "2024-01-06: Peets - $4.00 (Coffee)")
}
