package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/metrics"
)

func TestMetricsLabelsByPattern(t *testing.T) {
	reg := metrics.NewRegistry()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/universes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	h := Metrics(reg)(mux)

	for _, path := range []string{"/api/universes/a", "/api/universes/b", "/nowhere"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	out := string(body)
	assert.Contains(t, out, `starforge_http_requests_total{method="GET",path="GET /api/universes/{id}",status="404"} 2`)
	assert.Contains(t, out, `starforge_http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.Contains(t, out, "starforge_http_requests_in_flight 0")
}
