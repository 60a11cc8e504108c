package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// PlanningRuns counts comparison runs by outcome (ok, invalid, provider_error, canceled, error)
	PlanningRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "planning_runs_total", Help: "Scenario comparison runs by outcome."},
		[]string{"outcome"},
	)
	// PlanningDuration records end-to-end planning latency, matrix fetch included
	PlanningDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "planning_duration_seconds", Help: "Scenario comparison duration in seconds.", Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}},
	)
	// RecommendedDrivers tracks how many drivers recommendations call for
	RecommendedDrivers = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "planning_recommended_drivers", Help: "Driver count of recommended scenarios.", Buckets: []float64{1, 2, 3, 4, 5, 8}},
	)
	// ProviderCalls counts travel cost provider calls by provider and outcome
	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "travel_cost_provider_calls_total", Help: "Travel cost provider calls by provider and outcome."},
		[]string{"provider", "outcome"},
	)
	// MatrixCacheLookups counts cache pair lookups by result (hit, miss)
	MatrixCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "matrix_cache_lookups_total", Help: "Matrix cache pair lookups by result."},
		[]string{"result"},
	)
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(PlanningRuns)
		Registry.MustRegister(PlanningDuration)
		Registry.MustRegister(RecommendedDrivers)
		Registry.MustRegister(ProviderCalls)
		Registry.MustRegister(MatrixCacheLookups)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
