package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"calc-history/internal/calculator"
	"calc-history/internal/handlers"
	"calc-history/internal/observability"
)

// NewRouter assembles the HTTP surface around the given calculator
// handler: observability middleware, liveness, Prometheus metrics, and
// the calculator routes.
func NewRouter(calc *calculator.Handler) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, "not found")
	})

	calculator.RegisterRoutes(r, calc)

	return r
}
