package insight

import (
	"fmt"
	"math"

	"spendlens/internal/core"
)

// Category labels the rule tables key on. The category set is open; rules
// simply contribute nothing when their category is absent.
const (
	CategoryCoffee        = "Coffee"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryFastFood      = "Fast Food"
	CategorySubscriptions = "Subscriptions"
	CategoryEntertainment = "Entertainment"
)

// Severity tags a suggestion for the presentation layer.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityTip     Severity = "tip"
	SeverityInfo    Severity = "info"
)

// Trend tags an insight card's direction indicator.
type Trend string

const (
	TrendIncrease Trend = "increase"
	TrendDecrease Trend = "decrease"
	TrendNeutral  Trend = "neutral"
)

type (
	// Suggestion is a threshold-triggered advisory record.
	Suggestion struct {
		Icon         string   `json:"icon"`
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		SavingsCents int64    `json:"savings_cents"`
		Category     string   `json:"category"`
		Severity     Severity `json:"severity"`
	}

	// InsightCard is one card of the spending-analysis panel.
	InsightCard struct {
		Title       string `json:"title"`
		Value       string `json:"value"`
		Change      string `json:"change"`
		Trend       Trend  `json:"trend"`
		Icon        string `json:"icon"`
		Description string `json:"description"`
	}

	// Config holds the rule thresholds and multipliers. These are plain
	// configuration constants, not statistics; override any field before
	// passing the config to the generators.
	Config struct {
		CoffeeThresholdCents    int64
		CoffeeSavingsRate       float64
		TransportThresholdCents int64
		TransportCashbackRate   float64
		ShoppingThresholdCents  int64
		ShoppingSavingsCents    int64
		BundleThresholdCents    int64
		BundleSavingsCents      int64

		CoffeeHighCents     int64 // insight flips to "increase" above this
		FastFoodBudgetCents int64

		MaxSuggestions int
		MaxInsights    int
	}
)

// DefaultConfig returns the stock rule table constants.
func DefaultConfig() Config {
	return Config{
		CoffeeThresholdCents:    4_000, // $40
		CoffeeSavingsRate:       0.4,
		TransportThresholdCents: 8_000, // $80
		TransportCashbackRate:   0.03,
		ShoppingThresholdCents:  20_000, // $200
		ShoppingSavingsCents:    2_500,
		BundleThresholdCents:    5_000, // subscriptions + entertainment
		BundleSavingsCents:      1_500,

		CoffeeHighCents:     5_000,
		FastFoodBudgetCents: 10_000,

		MaxSuggestions: 3,
		MaxInsights:    4,
	}
}

// GenerateSuggestions evaluates the suggestion rule table over the category
// totals. Rules fire independently and in a fixed order; the result is
// truncated to cfg.MaxSuggestions. No rule can fail the call.
func GenerateSuggestions(txs []core.Transaction, cfg Config) []Suggestion {
	totals := ComputeSummary(txs).ByCategory
	var out []Suggestion

	if coffee := totals[CategoryCoffee]; coffee > cfg.CoffeeThresholdCents {
		savings := rateOf(coffee, cfg.CoffeeSavingsRate)
		out = append(out, Suggestion{
			Icon:  "coffee",
			Title: "Coffee Savings Opportunity",
			Description: fmt.Sprintf(
				"We detected you spent %s on coffee this period. You could save up to %s with partner coffee shop discounts.",
				core.FormatUSD(coffee), core.FormatUSD(savings)),
			SavingsCents: savings,
			Category:     CategoryCoffee,
			Severity:     SeverityTip,
		})
	}

	if transport := totals[CategoryTransport]; transport > cfg.TransportThresholdCents {
		cashback := rateOf(transport, cfg.TransportCashbackRate)
		out = append(out, Suggestion{
			Icon:  "car",
			Title: "Transportation Optimization",
			Description: fmt.Sprintf(
				"Your transport costs are %s. Consider a cashback card for 3%% back on rideshares and gas stations.",
				core.FormatUSD(transport)),
			SavingsCents: cashback,
			Category:     CategoryTransport,
			Severity:     SeverityInfo,
		})
	}

	if shopping := totals[CategoryShopping]; shopping > cfg.ShoppingThresholdCents {
		out = append(out, Suggestion{
			Icon:  "bag",
			Title: "Smart Shopping Alert",
			Description: fmt.Sprintf(
				"High shopping activity detected (%s). Enable spending alerts to stay within budget.",
				core.FormatUSD(shopping)),
			SavingsCents: cfg.ShoppingSavingsCents,
			Category:     CategoryShopping,
			Severity:     SeverityWarning,
		})
	}

	if bundle := totals[CategorySubscriptions] + totals[CategoryEntertainment]; bundle > cfg.BundleThresholdCents {
		out = append(out, Suggestion{
			Icon:  "tv",
			Title: "Subscription Bundle Deal",
			Description: fmt.Sprintf(
				"You're spending %s on entertainment and subscriptions. A bundled plan could cost less.",
				core.FormatUSD(bundle)),
			SavingsCents: cfg.BundleSavingsCents,
			Category:     CategoryEntertainment,
			Severity:     SeverityTip,
		})
	}

	if len(out) > cfg.MaxSuggestions {
		out = out[:cfg.MaxSuggestions]
	}
	return out
}

// GenerateInsights evaluates the insight rule table. Each rule contributes
// at most one card; output preserves rule order and is truncated to
// cfg.MaxInsights. All ratio computations guard zero denominators.
func GenerateInsights(txs []core.Transaction, cfg Config) []InsightCard {
	summary := ComputeSummary(txs)
	totals := summary.ByCategory
	var out []InsightCard

	if coffee := totals[CategoryCoffee]; coffee > 0 {
		trend, change := TrendDecrease, "5% decrease"
		if coffee > cfg.CoffeeHighCents {
			trend, change = TrendIncrease, "17% increase"
		}
		out = append(out, InsightCard{
			Title:       "Coffee Expenses",
			Value:       core.FormatUSD(coffee),
			Change:      change,
			Trend:       trend,
			Icon:        "coffee",
			Description: fmt.Sprintf("%.1f%% of total spending", CategoryShare(coffee, summary.TotalCents)),
		})
	}

	if subs := totals[CategorySubscriptions]; subs > 0 {
		out = append(out, InsightCard{
			Title:       "Subscriptions",
			Value:       core.FormatUSD(subs),
			Change:      "Monthly recurring",
			Trend:       TrendNeutral,
			Icon:        "tv",
			Description: "Active subscriptions this period",
		})
	}

	if fastFood := totals[CategoryFastFood]; fastFood > 0 {
		meals := int64(len(FilterByCategory(txs, CategoryFastFood)))
		trend, change := TrendDecrease, "Within budget"
		if fastFood > cfg.FastFoodBudgetCents {
			trend, change = TrendIncrease, "Exceeded budget"
		}
		avg := int64(0)
		if meals > 0 {
			avg = fastFood / meals
		}
		out = append(out, InsightCard{
			Title:       "Eating Out",
			Value:       core.FormatUSD(fastFood),
			Change:      change,
			Trend:       trend,
			Icon:        "burger",
			Description: fmt.Sprintf("Avg. %s per meal", core.FormatUSD(avg)),
		})
	}

	if shopping := totals[CategoryShopping]; shopping > 0 {
		out = append(out, InsightCard{
			Title:       "Shopping",
			Value:       core.FormatUSD(shopping),
			Change:      "8% from last month",
			Trend:       TrendIncrease,
			Icon:        "bag",
			Description: "Retail and online purchases",
		})
	}

	if summary.TransactionCount > 0 {
		avg := summary.TotalCents / int64(summary.TransactionCount)
		out = append(out, InsightCard{
			Title:       "Avg. Transaction",
			Value:       core.FormatUSD(avg),
			Change:      fmt.Sprintf("%d transactions", summary.TransactionCount),
			Trend:       TrendNeutral,
			Icon:        "card",
			Description: "Average spending per transaction",
		})
	}

	if summary.TopCategory != UnknownCategory {
		topCents := totals[summary.TopCategory]
		out = append(out, InsightCard{
			Title:       "Top Category",
			Value:       summary.TopCategory,
			Change:      fmt.Sprintf("%.1f%% of spending", CategoryShare(topCents, summary.TotalCents)),
			Trend:       TrendNeutral,
			Icon:        "target",
			Description: fmt.Sprintf("%s total", core.FormatUSD(topCents)),
		})
	}

	if len(out) > cfg.MaxInsights {
		out = out[:cfg.MaxInsights]
	}
	return out
}

// rateOf applies a fractional rate to a cent amount with half-up rounding.
func rateOf(cents int64, rate float64) int64 {
	return int64(math.Floor(float64(cents)*rate + 0.5))
}
