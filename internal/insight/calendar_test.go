package insight

import (
	"testing"
	"time"

	"spendlens/internal/core"
)

func TestBucketByDate(t *testing.T) {
	buckets := BucketByDate(sampleTransactions())

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}

	day5 := buckets["2024-01-05"]
	if day5.AmountCents != 4550 || day5.TransactionCount != 2 {
		t.Fatalf("unexpected bucket for 2024-01-05: %+v", day5)
	}
	if day5.Transactions[0].Merchant != "Starbucks" || day5.Transactions[1].Merchant != "Shell" {
		t.Fatalf("bucket order not preserved: %+v", day5.Transactions)
	}

	day6 := buckets["2024-01-06"]
	if day6.AmountCents != 400 || day6.TransactionCount != 1 {
		t.Fatalf("unexpected bucket for 2024-01-06: %+v", day6)
	}
}

func TestBucketByDatePartitionsInput(t *testing.T) {
	txs := sampleTransactions()
	buckets := BucketByDate(txs)

	total := 0
	for _, b := range buckets {
		if len(b.Transactions) != b.TransactionCount {
			t.Fatalf("count mismatch in bucket %q", b.Date)
		}
		for _, tx := range b.Transactions {
			if tx.Date.Key() != b.Date {
				t.Fatalf("transaction %v landed in bucket %q", tx, b.Date)
			}
		}
		total += b.TransactionCount
	}
	if total != len(txs) {
		t.Fatalf("buckets hold %d transactions, input has %d", total, len(txs))
	}
}

func TestBucketByDateEmpty(t *testing.T) {
	if got := BucketByDate(nil); len(got) != 0 {
		t.Fatalf("expected no buckets, got %v", got)
	}
}

func TestCalendarGrid(t *testing.T) {
	months := []struct {
		year  int
		month time.Month
	}{
		{2024, time.January},
		{2024, time.February}, // leap year
		{2025, time.February},
		{2024, time.September}, // 1st falls on a Sunday
		{2024, time.November},  // 30th falls on a Saturday
		{2023, time.December},
	}

	for _, m := range months {
		days := CalendarGrid(m.year, m.month)

		if len(days)%7 != 0 {
			t.Fatalf("%d-%s: grid length %d is not a multiple of 7", m.year, m.month, len(days))
		}
		if days[0].Weekday() != time.Sunday {
			t.Fatalf("%d-%s: grid starts on %s", m.year, m.month, days[0].Weekday())
		}
		if days[len(days)-1].Weekday() != time.Saturday {
			t.Fatalf("%d-%s: grid ends on %s", m.year, m.month, days[len(days)-1].Weekday())
		}

		// Every date of the anchor month must be present.
		inMonth := 0
		for _, d := range days {
			if d.Month() == m.month && d.Year() == m.year {
				inMonth++
			}
		}
		lastDay := time.Date(m.year, m.month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
		if inMonth != lastDay {
			t.Fatalf("%d-%s: grid covers %d days of the month, expected %d", m.year, m.month, inMonth, lastDay)
		}
	}
}

func TestCalendarGridMatchesBucketKeys(t *testing.T) {
	days := CalendarGrid(2024, time.January)
	buckets := BucketByDate(sampleTransactions())

	matched := 0
	for _, d := range days {
		key := core.Date{Time: d}.Key()
		if _, ok := buckets[key]; ok {
			matched++
		}
	}
	if matched != 2 {
		t.Fatalf("expected 2 grid cells with spend, got %d", matched)
	}
}

func TestLevelFor(t *testing.T) {
	cases := []struct {
		cents int64
		want  SpendLevel
	}{
		{0, LevelNone},
		{4999, LevelLow},
		{5000, LevelMedium},
		{9999, LevelMedium},
		{10000, LevelHigh},
		{19999, LevelHigh},
		{20000, LevelPeak},
	}
	for _, tc := range cases {
		if got := LevelFor(tc.cents); got != tc.want {
			t.Fatalf("%d expected %q, got %q", tc.cents, tc.want, got)
		}
	}
}
