package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"wealth-planner/service"
)

// RouterConfig carries the services the API exposes.
type RouterConfig struct {
	Log            zerolog.Logger
	Planner        *service.PlannerService
	Loans          *service.LoanService
	Advisor        *service.AdvisorService
	RateLimiter    *RateLimiter
	RequestTimeout time.Duration
	DevMode        bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(cfg.Log))

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r.Use(middleware.Timeout(timeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if !cfg.DevMode {
		r.Use(middleware.Compress(5))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	simulations := NewSimulationHandler(cfg.Planner, cfg.Log)
	scenarios := NewScenarioHandler(cfg.Planner, cfg.Log)
	loans := NewLoanHandler(cfg.Loans, cfg.Log)
	analysis := NewAnalysisHandler(cfg.Advisor)

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimiter != nil {
			r.Use(RateLimitMiddleware(cfg.RateLimiter))
		}

		r.Post("/simulate", simulations.Simulate)
		r.Post("/allocations/redistribute", simulations.Redistribute)
		r.Post("/strategies/compare", simulations.Compare)
		r.Post("/strategies/plan", simulations.Plan)
		r.Post("/loans/emi", loans.CalculateEMI)
		r.Post("/analyze", analysis.Analyze)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", scenarios.List)
			r.Post("/", scenarios.Create)
			r.Get("/{id}", scenarios.Get)
			r.Put("/{id}", scenarios.Update)
			r.Delete("/{id}", scenarios.Delete)
		})
	})

	return r
}
