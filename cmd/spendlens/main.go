package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"spendlens/internal/config"
	apphttp "spendlens/internal/http"
	"spendlens/internal/insight"
	applog "spendlens/internal/log"
	"spendlens/internal/narrate"
	"spendlens/internal/store"
	"spendlens/internal/store/fixture"
	"spendlens/internal/store/sqlite"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: "server",
	})
	slog.SetDefault(logger.Logger)

	// Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Choose the transaction source (default: embedded fixture)
	var lister store.TransactionLister
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		lister = repo
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
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
		lister = fx
		logger.Info("Initialized memory backend", "path", cfg.FixturePath)
	}

	// Narration goes through Gemini when a key is present, otherwise the
	// deterministic template carries the endpoint alone.
	var live narrate.Narrator
	if os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("GOOGLE_API_KEY") != "" {
		gemini, err := narrate.NewGemini(context.Background(), cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini narrator", "error", err)
			os.Exit(1)
		}
		live = gemini
		logger.Info("Gemini narrator enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("Gemini disabled - no API key provided, using template narration")
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:      ":" + cfg.Port,
		Rules:     insight.DefaultConfig(),
		CacheTTL:  cfg.CacheTTL,
		CacheSize: cfg.CacheSize,
	}, lister, narrate.NewService(live, cfg.NarrationTimeout), narrate.NewAssistant())

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting spendlens server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
