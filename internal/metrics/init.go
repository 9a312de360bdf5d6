package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "starforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "starforge_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "starforge_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
}

func (r *Registry) initGenerationMetrics() {
	r.GenerationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "starforge_generations_total",
			Help: "Total number of universe generations",
		},
		[]string{"preset", "status"},
	)

	r.GenerationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "starforge_generation_duration_seconds",
			Help:    "Universe generation latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"preset"},
	)

	r.GeneratedSystems = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "starforge_generation_systems",
			Help:    "Number of systems per generated universe",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		},
	)

	r.GeneratedBodies = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "starforge_generated_bodies_total",
			Help: "Total number of generated bodies by type",
		},
		[]string{"type"},
	)

	r.LastBodyCount = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "starforge_last_generation_bodies",
			Help: "Bodies by type in the most recent successful generation",
		},
		[]string{"type"},
	)
}

func (r *Registry) initStoreMetrics() {
	r.CacheLookupsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "starforge_snapshot_cache_lookups_total",
			Help: "Snapshot cache lookups by result",
		},
		[]string{"result"},
	)
}
