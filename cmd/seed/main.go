// Command seed loads the bundled transaction fixture into the SQLite store
// so the server can run against the sqlite backend locally.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"spendlens/internal/config"
	applog "spendlens/internal/log"
	"spendlens/internal/store/fixture"
	"spendlens/internal/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: "seed",
	})
	slog.SetDefault(logger.Logger)

	cfg := config.Load()

	var (
		fx  *fixture.Store
		err error
	)
	if cfg.FixturePath != "" {
		fx, err = fixture.NewFromFile(cfg.FixturePath)
	} else {
		fx, err = fixture.New()
	}
	if err != nil {
		logger.Error("Failed to load transaction fixture", "error", err, "path", cfg.FixturePath)
		os.Exit(1)
	}

	repo, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	txs, err := fx.ListTransactions(ctx)
	if err != nil {
		logger.Error("Failed to read fixture transactions", "error", err)
		os.Exit(1)
	}

	if err := repo.InsertTransactions(ctx, txs); err != nil {
		logger.Error("Failed to insert transactions", "error", err)
		os.Exit(1)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		logger.Error("Failed to count transactions", "error", err)
		os.Exit(1)
	}

	logger.Info("Seed complete", "inserted", len(txs), "total", count, "path", cfg.SQLiteDBPath)
}
