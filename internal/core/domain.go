package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for transaction dates.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar date. The time-of-day portion is always midnight UTC.
	Date struct {
		time.Time
	}

	// Money is a currency amount in integer cents. All engine arithmetic
	// happens in cents so totals stay exact.
	Money struct {
		Cents int64
	}

	// Transaction is one recorded spend event. Transactions are immutable:
	// the engine only ever reads them.
	Transaction struct {
		Date     Date   `json:"date"`
		Merchant string `json:"merchant"`
		Amount   Money  `json:"amount"`
		Category string `json:"category"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyMerchant = errors.New("empty merchant")
	ErrEmptyCategory = errors.New("empty category")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// Key returns the canonical YYYY-MM-DD string used for grouping. Two
// transactions belong to the same day bucket exactly when their keys match.
func (d Date) Key() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Key())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
