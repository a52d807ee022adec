package insight

import (
	"strings"
	"testing"

	"spendlens/internal/core"
)

func txsWithCategory(category string, cents ...int64) []core.Transaction {
	out := make([]core.Transaction, 0, len(cents))
	for i, c := range cents {
		out = append(out, core.Transaction{
			Date:     core.NewDate(2024, 1, i+1),
			Merchant: "m",
			Amount:   core.Money{Cents: c},
			Category: category,
		})
	}
	return out
}

func TestCoffeeSuggestionThreshold(t *testing.T) {
	cfg := DefaultConfig()

	// $9.50 is under the $40 threshold: no suggestion.
	below := txsWithCategory(CategoryCoffee, 550, 400)
	for _, s := range GenerateSuggestions(below, cfg) {
		if s.Category == CategoryCoffee {
			t.Fatalf("coffee suggestion fired below threshold: %+v", s)
		}
	}

	// $45 crosses it and suggests 40% savings: $18.00.
	above := txsWithCategory(CategoryCoffee, 4500)
	got := GenerateSuggestions(above, cfg)
	if len(got) != 1 || got[0].Category != CategoryCoffee {
		t.Fatalf("expected one coffee suggestion, got %v", got)
	}
	if got[0].SavingsCents != 1800 {
		t.Fatalf("expected savings 1800 cents, got %d", got[0].SavingsCents)
	}
	if !strings.Contains(got[0].Description, "$45.00") || !strings.Contains(got[0].Description, "$18.00") {
		t.Fatalf("description missing computed amounts: %q", got[0].Description)
	}
}

func TestBundleSuggestionCombinesCategories(t *testing.T) {
	cfg := DefaultConfig()

	txs := append(
		txsWithCategory(CategorySubscriptions, 3000),
		txsWithCategory(CategoryEntertainment, 2500)...)
	got := GenerateSuggestions(txs, cfg)
	if len(got) != 1 || got[0].Title != "Subscription Bundle Deal" {
		t.Fatalf("expected bundle suggestion, got %v", got)
	}
	if !strings.Contains(got[0].Description, "$55.00") {
		t.Fatalf("expected combined total in description: %q", got[0].Description)
	}

	// Either side alone below the combined threshold: nothing fires.
	if got := GenerateSuggestions(txsWithCategory(CategorySubscriptions, 3000), cfg); len(got) != 0 {
		t.Fatalf("bundle fired below threshold: %v", got)
	}
}

func TestGenerateSuggestionsCap(t *testing.T) {
	cfg := DefaultConfig()

	txs := txsWithCategory(CategoryCoffee, 5000)
	txs = append(txs, txsWithCategory(CategoryTransport, 10000)...)
	txs = append(txs, txsWithCategory(CategoryShopping, 25000)...)
	txs = append(txs, txsWithCategory(CategorySubscriptions, 6000)...)

	got := GenerateSuggestions(txs, cfg)
	if len(got) != cfg.MaxSuggestions {
		t.Fatalf("expected cap of %d, got %d", cfg.MaxSuggestions, len(got))
	}
	// Rule-evaluation order survives truncation.
	if got[0].Category != CategoryCoffee || got[1].Category != CategoryTransport || got[2].Category != CategoryShopping {
		t.Fatalf("unexpected order after truncation: %v", got)
	}
}

func TestGenerateSuggestionsEmpty(t *testing.T) {
	if got := GenerateSuggestions(nil, DefaultConfig()); len(got) != 0 {
		t.Fatalf("expected no suggestions for empty input, got %v", got)
	}
}

func TestGenerateSuggestionsOverriddenThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CoffeeThresholdCents = 500

	got := GenerateSuggestions(txsWithCategory(CategoryCoffee, 550), cfg)
	if len(got) != 1 {
		t.Fatalf("expected overridden threshold to fire, got %v", got)
	}
	if got[0].SavingsCents != 220 { // 550 * 0.4
		t.Fatalf("expected savings 220, got %d", got[0].SavingsCents)
	}
}

func TestGenerateInsights(t *testing.T) {
	cfg := DefaultConfig()

	txs := txsWithCategory(CategoryCoffee, 2000)
	txs = append(txs, txsWithCategory(CategoryFastFood, 1200, 1800)...)
	got := GenerateInsights(txs, cfg)

	var titles []string
	for _, card := range got {
		titles = append(titles, card.Title)
	}
	want := []string{"Coffee Expenses", "Eating Out", "Avg. Transaction", "Top Category"}
	if len(titles) != len(want) {
		t.Fatalf("expected %v, got %v", want, titles)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, titles)
		}
	}

	// Fast food: $30 over two meals, $15 average.
	eatingOut := got[1]
	if !strings.Contains(eatingOut.Description, "$15.00") {
		t.Fatalf("expected per-meal average in %q", eatingOut.Description)
	}
	if eatingOut.Trend != TrendDecrease {
		t.Fatalf("expected within-budget trend, got %q", eatingOut.Trend)
	}

	top := got[3]
	if top.Value != CategoryFastFood {
		t.Fatalf("expected top category card for Fast Food, got %q", top.Value)
	}
}

func TestGenerateInsightsCap(t *testing.T) {
	cfg := DefaultConfig()

	txs := txsWithCategory(CategoryCoffee, 2000)
	txs = append(txs, txsWithCategory(CategorySubscriptions, 1500)...)
	txs = append(txs, txsWithCategory(CategoryFastFood, 1200)...)
	txs = append(txs, txsWithCategory(CategoryShopping, 9000)...)

	got := GenerateInsights(txs, cfg)
	if len(got) != cfg.MaxInsights {
		t.Fatalf("expected cap of %d, got %d", cfg.MaxInsights, len(got))
	}
}

func TestGenerateInsightsEmpty(t *testing.T) {
	// Zero transactions: no division by zero, no cards.
	if got := GenerateInsights(nil, DefaultConfig()); len(got) != 0 {
		t.Fatalf("expected no insights for empty input, got %v", got)
	}
}

func TestGenerateInsightsCoffeeTrendFlips(t *testing.T) {
	cfg := DefaultConfig()

	low := GenerateInsights(txsWithCategory(CategoryCoffee, 2000), cfg)
	if low[0].Trend != TrendDecrease {
		t.Fatalf("expected decrease under the high mark, got %q", low[0].Trend)
	}

	high := GenerateInsights(txsWithCategory(CategoryCoffee, 6000), cfg)
	if high[0].Trend != TrendIncrease {
		t.Fatalf("expected increase over the high mark, got %q", high[0].Trend)
	}
}
