package metrics

import (
	"time"

	"starforge/internal/celestial"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveGeneration records one finished generation. Body counts are only
// recorded for successful runs.
func (r *Registry) ObserveGeneration(preset string, systems int, bodies map[celestial.BodyType]int, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.GenerationsTotal.WithLabelValues(preset, status).Inc()
	r.GenerationDuration.WithLabelValues(preset).Observe(elapsed.Seconds())
	if err != nil {
		return
	}

	r.GeneratedSystems.Observe(float64(systems))
	r.LastBodyCount.Reset()
	for typ, n := range bodies {
		r.GeneratedBodies.WithLabelValues(string(typ)).Add(float64(n))
		r.LastBodyCount.WithLabelValues(string(typ)).Set(float64(n))
	}
}

// RecordCacheLookup counts a snapshot cache hit or miss.
func (r *Registry) RecordCacheLookup(hit bool) {
	if hit {
		r.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return
	}
	r.CacheLookupsTotal.WithLabelValues("miss").Inc()
}
