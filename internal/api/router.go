package api

import (
	"delivery-scenario-service/internal/api/handlers"
	"delivery-scenario-service/internal/platform/metrics"
	"delivery-scenario-service/internal/ports"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// repo may be nil when no order store is configured.
func NewRouter(planner handlers.ScenarioPlanner, repo ports.OrderRepository) http.Handler {
	metrics.RegisterDefault()

	mux := http.NewServeMux()

	orderHandler := &handlers.OrderHandler{Repo: repo}
	compareHandler := &handlers.CompareHandler{
		Planner: planner,
		Repo:    repo,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/orders", orderHandler.List)
	mux.HandleFunc("/plans/compare", compareHandler.Compare)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(mux))
}
