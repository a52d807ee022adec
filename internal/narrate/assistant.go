package narrate

import (
	"fmt"
	"strings"

	"spendlens/internal/core"
	"spendlens/internal/insight"
)

// Assistant answers free-form prompts about the transaction list with a
// keyword decision table: an ordered list of (predicate, responder) pairs
// evaluated in order, first match wins, with a default responder when
// nothing matches. Responses are rendered from engine aggregates, so the
// assistant is deterministic and works offline.
type Assistant struct {
	rules []assistantRule
}

type assistantRule struct {
	match   func(prompt string) bool
	respond func(txs []core.Transaction) string
}

func NewAssistant() *Assistant {
	return &Assistant{
		rules: []assistantRule{
			{match: containsAny("coffee"), respond: coffeeReply},
			{match: containsAny("character", "personality"), respond: personalityReply},
			{match: containsAny("habits", "unusual"), respond: habitsReply},
		},
	}
}

// Reply evaluates the decision table against the prompt.
func (a *Assistant) Reply(prompt string, txs []core.Transaction) string {
	lowered := strings.ToLower(prompt)
	for _, rule := range a.rules {
		if rule.match(lowered) {
			return rule.respond(txs)
		}
	}
	return defaultReply(txs)
}

func containsAny(keywords ...string) func(string) bool {
	return func(prompt string) bool {
		for _, k := range keywords {
			if strings.Contains(prompt, k) {
				return true
			}
		}
		return false
	}
}

func coffeeReply(txs []core.Transaction) string {
	s := insight.ComputeSummary(txs)
	coffee := s.ByCategory[insight.CategoryCoffee]
	note := "Your coffee spending seems reasonable."
	if coffee > 5_000 {
		note = "That's quite a bit! You might want to consider brewing at home sometimes."
	}
	return fmt.Sprintf("Based on your expense data, you've spent %s on coffee this period. %s",
		core.FormatUSD(coffee), note)
}

func personalityReply(txs []core.Transaction) string {
	s := insight.ComputeSummary(txs)
	return fmt.Sprintf(
		"Your spending patterns suggest you value convenience and experiences. You spend across %d different categories, showing a balanced lifestyle. Your total spending of %s indicates you're an active consumer who enjoys both necessities and treats.",
		len(s.ByCategory), core.FormatUSD(s.TotalCents))
}

func habitsReply(txs []core.Transaction) string {
	s := insight.ComputeSummary(txs)
	if s.TransactionCount == 0 {
		return "There are no transactions to analyze yet."
	}
	topCents := s.ByCategory[s.TopCategory]
	return fmt.Sprintf(
		"Your biggest spending category is %s at %s. This represents %.1f%% of your total spending. Consider if this aligns with your financial goals.",
		s.TopCategory, core.FormatUSD(topCents), insight.CategoryShare(topCents, s.TotalCents))
}

func defaultReply(txs []core.Transaction) string {
	s := insight.ComputeSummary(txs)
	categories := insight.Categories(txs)
	sample := categories
	if len(sample) > 3 {
		sample = sample[:3]
	}
	return fmt.Sprintf(
		"You've made %d transactions totaling %s. Your spending is distributed across %d categories, with purchases in %s. Overall, your spending patterns look fairly typical for someone with an active lifestyle.",
		s.TransactionCount, core.FormatUSD(s.TotalCents), len(categories), strings.Join(sample, ", "))
}
