package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spendlens/internal/core"

	_ "modernc.org/sqlite"
)

// Repository serves transactions from a SQLite database instead of the
// bundled fixture. Rows use the same shape as the fixture: date key,
// merchant, amount in cents, category.
type Repository struct {
	db *sql.DB
}

func New(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ListTransactions implements store.TransactionLister. Rows come back in
// date order with insertion order as the tie-break, so repeated calls see
// the same sequence.
func (r *Repository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, merchant, amount_cents, category FROM transactions ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			dateKey  string
			merchant string
			cents    int64
			category string
		)
		if err := rows.Scan(&dateKey, &merchant, &cents, &category); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		date, err := core.ParseDate(dateKey)
		if err != nil {
			return nil, fmt.Errorf("stored date %q: %w", dateKey, err)
		}
		out = append(out, core.Transaction{
			Date:     date,
			Merchant: merchant,
			Amount:   core.Money{Cents: cents},
			Category: category,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// InsertTransactions appends rows, validating each first. Used by the seed
// command to load the fixture into the database.
func (r *Repository) InsertTransactions(ctx context.Context, txs []core.Transaction) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx,
		`INSERT INTO transactions (date, merchant, amount_cents, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, tx.Date.Key(), tx.Merchant, tx.Amount.Cents, tx.Category); err != nil {
			return fmt.Errorf("insert transaction %d: %w", i, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit insert: %w", err)
	}

	slog.InfoContext(ctx, "Transactions inserted", "count", len(txs))
	return nil
}

// Count returns the number of stored transactions.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}
