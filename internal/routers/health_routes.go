package routers

import (
	"codetrack/api/internal/handlers"
	"codetrack/api/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// HealthRoutes mounts the probes and the Prometheus scrape endpoint at the root.
func HealthRoutes(r *chi.Mux, healthHandler *handlers.HealthHandler) {
	r.Get("/healthz", healthHandler.HealthzHandler)
	r.Get("/readyz", healthHandler.ReadyzHandler)
	r.Handle("/metrics", metrics.Handler())
}
