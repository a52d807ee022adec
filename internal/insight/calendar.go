package insight

import (
	"time"

	"spendlens/internal/core"
)

// SpendLevel classifies a day's spend magnitude for the calendar heatmap.
type SpendLevel string

const (
	LevelNone   SpendLevel = "none"
	LevelLow    SpendLevel = "low"    // under $50
	LevelMedium SpendLevel = "medium" // under $100
	LevelHigh   SpendLevel = "high"   // under $200
	LevelPeak   SpendLevel = "peak"   // $200 and above
)

// DayBucket aggregates every transaction that occurred on one calendar
// date. Buckets exist only for dates present in the input and only for the
// lifetime of one aggregation pass.
type DayBucket struct {
	Date             string             `json:"date"`
	AmountCents      int64              `json:"amount_cents"`
	TransactionCount int                `json:"transaction_count"`
	Transactions     []core.Transaction `json:"transactions"`
}

// BucketByDate groups transactions by their date key. Per-bucket
// transaction order follows input order, so the result is stable and the
// buckets partition the input exactly.
func BucketByDate(txs []core.Transaction) map[string]DayBucket {
	buckets := make(map[string]DayBucket, 16)
	for _, tx := range txs {
		key := tx.Date.Key()
		b := buckets[key]
		if b.Date == "" {
			b.Date = key
		}
		b.AmountCents += tx.Amount.Cents
		b.TransactionCount++
		b.Transactions = append(b.Transactions, tx)
		buckets[key] = b
	}
	return buckets
}

// CalendarGrid produces every date from the Sunday on or before the first
// of the month through the Saturday on or after the last day, so a renderer
// can lay out complete week rows. The result length is always a multiple
// of seven and contains every date of the anchor month.
func CalendarGrid(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, int(time.Saturday-last.Weekday()))

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// LevelFor maps a day's total spend to its heatmap band.
func LevelFor(cents int64) SpendLevel {
	switch {
	case cents == 0:
		return LevelNone
	case cents < 5_000:
		return LevelLow
	case cents < 10_000:
		return LevelMedium
	case cents < 20_000:
		return LevelHigh
	default:
		return LevelPeak
	}
}
