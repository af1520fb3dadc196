// Package http serves the expense tracker JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"expensetracker/internal/auth"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/middleware/ratelimit"
	"expensetracker/internal/middleware/security"
	"expensetracker/internal/middleware/trace"
	"expensetracker/internal/services"
	"expensetracker/internal/storage"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Tracker  *services.Tracker
	Auth     *auth.Authenticator
	Theme    *storage.ThemeRepository
	Currency core.CurrencyInfo
	Logger   *log.Logger
}

type Server struct {
	http.Server

	tracker  *services.Tracker
	auth     *auth.Authenticator
	theme    *storage.ThemeRepository
	currency core.CurrencyInfo
	logger   *log.Logger

	detector     *security.Detector
	loginLimiter *ratelimit.Limiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	currency := deps.Currency
	if currency.Code == "" {
		currency = core.DefaultCurrency
	}

	s := &Server{
		tracker:      deps.Tracker,
		auth:         deps.Auth,
		theme:        deps.Theme,
		currency:     currency,
		logger:       logger.WithComponent(log.ComponentHTTP),
		detector:     security.NewDetector(),
		loginLimiter: ratelimit.NewLimiter(ratelimit.LoginConfig()),
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	s.routes(mux)

	var handler http.Handler = mux
	handler = s.detector.Middleware(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(logger)(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	login := s.loginLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTooManyRequests, "too many login attempts")
	})
	mux.Handle("POST /api/login", login(http.HandlerFunc(s.handleLogin)))
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.HandleFunc("GET /api/session", s.handleSession)

	guarded := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, s.requireAuth(h))
	}

	guarded("GET /api/home", s.handleHome)
	guarded("GET /api/filters", s.handleGetFilters)
	guarded("PUT /api/filters", s.handleSetFilters)
	guarded("DELETE /api/filters", s.handleClearFilters)

	guarded("GET /api/expenses", s.handleListExpenses)
	guarded("POST /api/expenses", s.handleCreateExpense)
	guarded("GET /api/expenses/{id}", s.handleGetExpense)
	guarded("PATCH /api/expenses/{id}", s.handleUpdateExpense)
	guarded("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	guarded("GET /api/payment-methods", s.handleListPaymentMethods)
	guarded("POST /api/payment-methods", s.handleCreatePaymentMethod)
	guarded("PATCH /api/payment-methods/{id}", s.handleUpdatePaymentMethod)
	guarded("DELETE /api/payment-methods/{id}", s.handleDeletePaymentMethod)

	guarded("GET /api/categories", s.handleListCategories)
	guarded("POST /api/categories", s.handleCreateCategory)
	guarded("PATCH /api/categories/{id}", s.handleUpdateCategory)
	guarded("DELETE /api/categories/{id}", s.handleDeleteCategory)

	guarded("GET /api/analytics/monthly", s.handleMonthlyComparison)
	guarded("GET /api/analytics/buckets", s.handleTenDayBuckets)

	guarded("GET /api/settings/theme", s.handleGetTheme)
	guarded("PUT /api/settings/theme", s.handleSetTheme)
	guarded("GET /api/settings/currency", s.handleGetCurrency)

	guarded("GET /api/export", s.handleExport)
	guarded("POST /api/import", s.handleImport)
	guarded("POST /api/seed", s.handleSeed)
}

// requireAuth rejects requests while no user is logged in.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.auth.IsAuthenticated(r.Context()) {
			writeError(w, r, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// Metrics exposes request and security counters.
func (s *Server) Metrics() (trace.Metrics, security.DetectionMetrics) {
	return s.tracer.GetMetrics(), s.detector.GetMetrics()
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.tracker.Loaded() {
		http.Error(w, "data not loaded", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
