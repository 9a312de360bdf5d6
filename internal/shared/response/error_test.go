package response

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/shared/errors"
)

func TestErrorStatusAndBody(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		kind    string
		message string
	}{
		{"not found", errors.NotFoundf("universe %s not found", "abc"), http.StatusNotFound, "not_found", "universe abc not found"},
		{"validation", errors.Validation("limit: must be positive"), http.StatusBadRequest, "validation", "limit: must be positive"},
		{"forbidden", errors.Forbidden("admin access required"), http.StatusForbidden, "forbidden", "admin access required"},
		{"rate limited", errors.RateLimited("rate limit exceeded"), http.StatusTooManyRequests, "rate_limited", "rate limit exceeded"},
		{"plain error hides cause", stderrors.New("pq: connection refused"), http.StatusInternalServerError, "internal", "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/universes", nil)
			Error(rec, req, slog.New(slog.DiscardHandler), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.kind, body.Error)
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.status, StatusCode(tt.err))
		})
	}
}

func TestRateLimitedSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/universes/preview", nil)
	Error(rec, req, slog.New(slog.DiscardHandler), errors.RateLimited("slow down"))
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRawAndNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, Raw(rec, http.StatusOK, []byte(`{"rootIds":[]}`)))
	assert.Equal(t, `{"rootIds":[]}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = httptest.NewRecorder()
	NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}
