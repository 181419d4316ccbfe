// Package http exposes the JSON API: expense creation and listing plus
// insight snapshots over an optional date window.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"splitledger/internal/cache"
	"splitledger/internal/core"
	"splitledger/internal/insights"
	applog "splitledger/internal/log"
	"splitledger/internal/middleware/ratelimit"
	"splitledger/internal/middleware/trace"
)

// ExpenseService is the slice of the tracker service the API needs.
type ExpenseService interface {
	AddExpense(ctx context.Context, e core.Expense) (string, error)
	Insights(ctx context.Context, w insights.Window) (insights.Snapshot, error)
	Records() []core.Expense
}

type Server struct {
	http.Server
	service     ExpenseService
	rateLimiter *ratelimit.Limiter
	tracer      *trace.Middleware

	// Snapshot cache keyed by date window. Cleared whenever a write
	// changes the record set.
	snapshotCache *cache.LRUCache[insights.Snapshot]
	cacheManager  *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server. The
// logger is optional; when set it is attached to every request context.
func NewServer(addr string, svc ExpenseService, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		service:       svc,
		rateLimiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:        trace.NewMiddleware(clientIP),
		snapshotCache: cache.NewLRUCache[insights.Snapshot](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.snapshotCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/api/expenses", s.withPostRateLimit(s.handleExpenses))
	mux.HandleFunc("/api/insights", s.handleInsights)

	handler := s.tracer.Middleware(mux)
	if logger != nil {
		handler = applog.Middleware(logger.WithComponent(applog.ComponentHTTP))(handler)
	}

	s.Server = http.Server{
		Addr:    addr,
		Handler: handler,
	}

	return s
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// withPostRateLimit rate-limits writes only; reads are cheap and served
// from memory.
func (s *Server) withPostRateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.rateLimiter.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		next(w, r)
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
