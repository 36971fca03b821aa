package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/fundengine/internal/adapter/http/handler"
	"github.com/iho/fundengine/internal/adapter/http/middleware"
	"github.com/iho/fundengine/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FundHandler         *handler.FundHandler
	InvestmentHandler   *handler.InvestmentHandler
	CapitalCallHandler  *handler.CapitalCallHandler
	DistributionHandler *handler.DistributionHandler
	AnalyticsHandler    *handler.AnalyticsHandler
	HealthHandler       *handler.HealthHandler
	IdempotencyStore    usecase.IdempotencyStore
	IdempotencyTTL      time.Duration
	RateLimiter         *middleware.RateLimiter
	Logger              zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotency.Wrap)
		}

		r.Route("/funds", func(r chi.Router) {
			r.Post("/", cfg.FundHandler.Create)
			r.Get("/", cfg.FundHandler.List)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", cfg.FundHandler.Get)
				r.Put("/terms", cfg.FundHandler.UpdateTerms)

				r.Post("/commitments", cfg.FundHandler.AddCommitment)
				r.Get("/commitments", cfg.FundHandler.ListCommitments)

				r.Post("/investments", cfg.InvestmentHandler.Create)
				r.Get("/investments", cfg.InvestmentHandler.List)

				r.Post("/capital-calls", cfg.CapitalCallHandler.Create)
				r.Get("/capital-calls", cfg.CapitalCallHandler.List)

				r.Post("/distributions", cfg.DistributionHandler.Create)
				r.Get("/distributions", cfg.DistributionHandler.List)

				r.Get("/waterfall", cfg.AnalyticsHandler.Waterfall)
				r.Get("/metrics", cfg.AnalyticsHandler.Metrics)
				r.Get("/concentration", cfg.AnalyticsHandler.Concentration)
				r.Get("/reports/lp.xlsx", cfg.AnalyticsHandler.LPReport)
			})
		})

		r.Get("/commitments/{id}", cfg.FundHandler.GetCommitment)

		r.Route("/investments/{id}", func(r chi.Router) {
			r.Get("/", cfg.InvestmentHandler.Get)
			r.Put("/valuation", cfg.InvestmentHandler.UpdateValuation)
		})

		r.Route("/capital-calls/{id}", func(r chi.Router) {
			r.Get("/", cfg.CapitalCallHandler.Get)
			r.Post("/issue", cfg.CapitalCallHandler.Issue)
			r.Post("/cancel", cfg.CapitalCallHandler.Cancel)
			r.Post("/fundings", cfg.CapitalCallHandler.RecordFunding)
		})

		r.Route("/distributions/{id}", func(r chi.Router) {
			r.Get("/", cfg.DistributionHandler.Get)
			r.Post("/approve", cfg.DistributionHandler.Approve)
			r.Post("/pay", cfg.DistributionHandler.Pay)
			r.Post("/cancel", cfg.DistributionHandler.Cancel)
		})
	})

	return r
}
