/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack and route
  definitions. This is the wiring layer that connects URLs to
  handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboards

ROUTE GROUPS:
  /api/employees/*   Personnel compliance reads
  /api/trainings/*   Training/session reads
  /api/import        Catalog import
  /api/compliance    Organisation-wide analysis
  /api/plan          Session planning
  /api/lifecycle/*   Lifecycle advance
  /api/report        Aggregate report
  /api/scenarios/*   Demo scenarios (dev only)
  /metrics           Prometheus metrics

SECURITY NOTE:
  No authentication middleware. All endpoints are public; front this
  service with your gateway in production.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/serve.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Get("/{id}/compliance", h.GetEmployeeCompliance)
		})

		r.Route("/trainings", func(r chi.Router) {
			r.Get("/", h.ListTrainings)
		})

		r.Post("/import", h.ImportRequirements)
		r.Get("/compliance", h.AnalyzeCompliance)
		r.Post("/plan", h.PlanSessions)
		r.Post("/lifecycle/advance", h.AdvanceLifecycle)
		r.Get("/report", h.GenerateReport)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
