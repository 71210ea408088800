package api

import (
	"log/slog"
	"net/http"
	"time"

	_ "sharky/docs"
	"sharky/internal/api/handler"
	mw "sharky/internal/api/middleware"
	"sharky/internal/config"
	"sharky/internal/domain/borrower"
	"sharky/internal/domain/funding"
	"sharky/internal/domain/loan"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func SetupRouter(loanService loan.LoanService, borrowerService borrower.BorrowerService, fundingService funding.FundingService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupBorrowerRoutes(router, cfg, borrowerService, logger)
	setupFundingRoutes(router, cfg, fundingService, logger)
	setupLoanRoutes(router, loanService, cfg, logger)
	setupDashboardRoutes(router, cfg, loanService, logger)
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	metricsPath := cfg.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	logger.Info("Setting up Prometheus metrics endpoint", "path", metricsPath)
	router.Handle(metricsPath, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupLoanRoutes(router *chi.Mux, loanService loan.LoanService, cfg *config.Config, logger *slog.Logger) {
	loanHandler := handler.NewLoanHandler(loanService, logger)
	authHandler := handler.NewAuthHandler(*cfg, logger)
	router.Route("/auth", func(r chi.Router) {
		r.Post("/token", authHandler.GenerateBearerToken)
	})

	router.Route("/loans", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", loanHandler.CreateLoan)
		r.Get("/", loanHandler.ListLoans)
		r.Get("/pastdue", loanHandler.ListPastDue)
		r.Route("/{loanID}", func(r chi.Router) {
			r.Get("/", loanHandler.GetLoan)
			r.Get("/schedule", loanHandler.GetSchedule)
			r.Post("/schedule", loanHandler.GenerateSchedule)
			r.Post("/payments", loanHandler.RecordPayment)
			r.Post("/preterminate", loanHandler.PreTerminate)
		})
	})
}

func setupBorrowerRoutes(r chi.Router, cfg *config.Config, svc borrower.BorrowerService, logger *slog.Logger) {
	h := handler.NewBorrowerHandler(svc, logger)

	r.Route("/borrowers", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.RegisterBorrower)
		r.Get("/", h.ListBorrowers)
		r.Route("/{borrowerID}", func(r chi.Router) {
			r.Get("/", h.GetBorrower)
			r.Delete("/", h.DeactivateBorrower)
			r.Put("/reactivate", h.ReactivateBorrower)
		})
	})
}

func setupFundingRoutes(r chi.Router, cfg *config.Config, svc funding.FundingService, logger *slog.Logger) {
	h := handler.NewFundingHandler(svc, logger)

	r.Route("/banks", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateBank)
		r.Get("/", h.ListBanks)
	})

	r.Route("/capital-sources", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Post("/", h.CreateCapitalSource)
		r.Get("/", h.ListCapitalSources)
	})
}

func setupDashboardRoutes(r chi.Router, cfg *config.Config, svc loan.LoanService, logger *slog.Logger) {
	h := handler.NewDashboardHandler(svc, logger)

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(cfg.Server.Auth, logger))
		r.Get("/earnings", h.Earnings)
		r.Get("/sources", h.SourceBreakdown)
		r.Get("/summary", h.Summary)
	})
}
