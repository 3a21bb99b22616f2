package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/olviko/shiftledger/internal/adapter/http/handler"
	"github.com/olviko/shiftledger/internal/adapter/http/middleware"
	"github.com/olviko/shiftledger/internal/infrastructure/auth"
	"github.com/olviko/shiftledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler   *handler.AccountHandler
	EntryHandler     *handler.EntryHandler
	OperationHandler *handler.OperationHandler
	LedgerHandler    *handler.LedgerHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	JWTManager       *auth.JWTManager
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Chart of accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{no}", cfg.AccountHandler.Get)
			r.Get("/{no}/resolve", cfg.AccountHandler.Resolve)
			r.Get("/{no}/children", cfg.AccountHandler.ListChildren)
			r.Get("/{no}/balance", cfg.AccountHandler.GetBalance)
			r.Get("/{no}/balances", cfg.AccountHandler.ListBalances)
			r.Get("/{no}/entries", cfg.EntryHandler.ListByAccount)
		})

		// Journal entries
		r.Route("/entries", func(r chi.Router) {
			r.Post("/", cfg.EntryHandler.Post)
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
		})

		// Operation catalog
		r.Route("/operations", func(r chi.Router) {
			r.Post("/", cfg.OperationHandler.Create)
			r.Get("/", cfg.OperationHandler.List)
			r.Get("/{id}", cfg.OperationHandler.Get)
		})

		// Ledger-wide checks
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/trial-balance", cfg.LedgerHandler.TrialBalance)
			r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
			r.Get("/accounts/{no}/replay", cfg.LedgerHandler.Replay)
		})
	})

	return r
}
