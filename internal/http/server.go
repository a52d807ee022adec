// Package http serves the dashboard API: engine aggregates as JSON for the
// rendering layer, plus the narration endpoints.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spendlens/internal/cache"
	"spendlens/internal/insight"
	"spendlens/internal/narrate"
	"spendlens/internal/store"
)

type Server struct {
	http.Server

	lister    store.TransactionLister
	narrator  *narrate.Service
	assistant *narrate.Assistant
	rules     insight.Config

	rateLimiter *rateLimiter

	// Derived data is cheap but the narrative round-trip is not; both go
	// through the same cache layer keyed on the data snapshot.
	summaryCache   *cache.LRUCache[insight.Summary]
	narrativeCache *cache.LRUCache[string]
	cacheManager   *cache.Manager

	startedAt    time.Time
	shutdownOnce sync.Once
}

// Options bundles the server's tunables.
type Options struct {
	Addr      string
	Rules     insight.Config
	CacheTTL  time.Duration
	CacheSize int
}

// NewServer configures routes and caches, returning a ready-to-run server.
func NewServer(opts Options, lister store.TransactionLister, narrator *narrate.Service, assistant *narrate.Assistant) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		lister:         lister,
		narrator:       narrator,
		assistant:      assistant,
		rules:          opts.Rules,
		rateLimiter:    newRateLimiter(),
		summaryCache:   cache.NewLRUCache[insight.Summary](opts.CacheSize, opts.CacheTTL),
		narrativeCache: cache.NewLRUCache[string](opts.CacheSize, opts.CacheTTL),
		cacheManager:   cache.NewManager(),
		startedAt:      time.Now(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.Register(s.narrativeCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/api/summary", s.limited(s.handleSummary))
	mux.HandleFunc("/api/transactions", s.limited(s.handleTransactions))
	mux.HandleFunc("/api/calendar", s.limited(s.handleCalendar))
	mux.HandleFunc("/api/suggestions", s.limited(s.handleSuggestions))
	mux.HandleFunc("/api/insights", s.limited(s.handleInsights))
	mux.HandleFunc("/api/narrative", s.limited(s.handleNarrative))
	mux.HandleFunc("/api/assistant", s.limited(s.handleAssistant))

	return s
}

// limited wraps a handler with the per-client rate limit.
func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 120 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 120
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
