package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/mercaldo/ledger/internal/adapter/http/handler"
	"github.com/mercaldo/ledger/internal/adapter/http/middleware"
	"github.com/mercaldo/ledger/internal/infrastructure/metrics"
	"github.com/mercaldo/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	EventHandler      *handler.EventHandler
	LedgerHandler     *handler.LedgerHandler
	InvoiceHandler    *handler.InvoiceHandler
	DebtHandler       *handler.DebtHandler
	InvestmentHandler *handler.InvestmentHandler
	AuditHandler      *handler.AuditHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	IdempotencyTTL    time.Duration
	Metrics           *metrics.Metrics
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Event-producing operations
		r.Post("/purchases", cfg.EventHandler.Purchase)
		r.Post("/sales", cfg.EventHandler.Sale)
		r.Post("/exchanges", cfg.EventHandler.Exchange)
		r.Post("/expenses", cfg.EventHandler.Expense)
		r.Post("/capital-movements", cfg.EventHandler.CapitalMovement)

		// Event history and reversal
		r.Route("/events", func(r chi.Router) {
			r.Get("/", cfg.EventHandler.List)
			r.Get("/{id}", cfg.EventHandler.Get)
			r.Post("/{id}/reverse", cfg.EventHandler.Reverse)
		})

		// Balances and positions
		r.Get("/cash", cfg.LedgerHandler.GetCash)
		r.Get("/consistency", cfg.LedgerHandler.CheckConsistency)
		r.Route("/assets", func(r chi.Router) {
			r.Get("/", cfg.LedgerHandler.ListAssets)
			r.Get("/{id}", cfg.LedgerHandler.GetAsset)
		})

		// Invoices
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", cfg.InvoiceHandler.List)
			r.Get("/{id}", cfg.InvoiceHandler.Get)
			r.Post("/{id}/payments", cfg.InvoiceHandler.Pay)
		})

		// Legacy debts
		r.Route("/debts", func(r chi.Router) {
			r.Post("/", cfg.DebtHandler.Create)
			r.Get("/", cfg.DebtHandler.List)
			r.Get("/{id}", cfg.DebtHandler.Get)
			r.Post("/{id}/payments", cfg.DebtHandler.Pay)
		})

		// Investment products
		r.Route("/investments", func(r chi.Router) {
			r.Post("/", cfg.InvestmentHandler.Create)
			r.Get("/", cfg.InvestmentHandler.List)
			r.Get("/{id}", cfg.InvestmentHandler.Get)
			r.Post("/{id}/sales", cfg.InvestmentHandler.Sell)
			r.Post("/{id}/restock", cfg.InvestmentHandler.Restock)
		})

		// Cash audits
		r.Route("/audits", func(r chi.Router) {
			r.Post("/", cfg.AuditHandler.Create)
			r.Get("/", cfg.AuditHandler.List)
		})
	})

	return r
}
