// Package fixture serves the bundled mock transaction data. The JSON file
// is embedded in the binary and decoded once at construction; every List
// call hands out a fresh copy of the rows.
package fixture

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"spendlens/internal/core"
)

//go:embed transactions.json
var dataFS embed.FS

type Store struct {
	items []core.Transaction
}

// New loads the embedded fixture.
func New() (*Store, error) {
	raw, err := dataFS.ReadFile("transactions.json")
	if err != nil {
		return nil, fmt.Errorf("read embedded fixture: %w", err)
	}
	return decode(raw)
}

// NewFromFile loads a fixture from an external path, for deployments that
// want to swap in their own data without rebuilding.
func NewFromFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return decode(raw)
}

func decode(raw []byte) (*Store, error) {
	var items []core.Transaction
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	for i, tx := range items {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("fixture row %d: %w", i, err)
		}
	}
	return &Store{items: items}, nil
}

// ListTransactions implements store.TransactionLister.
func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	return append([]core.Transaction(nil), s.items...), nil
}
