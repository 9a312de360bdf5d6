package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/auth"
	"starforge/internal/shared/response"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newJWT(t *testing.T) (*JWT, *auth.Verifier) {
	t.Helper()
	v, err := auth.NewVerifier(testSecret, "")
	require.NoError(t, err)
	return NewJWT(v, "auth_token"), v
}

func ok(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r)
	if claims == nil {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Header().Set("X-Subject", claims.Subject)
	w.WriteHeader(http.StatusOK)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorResponse {
	t.Helper()
	var body response.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestJWTMiddleware(t *testing.T) {
	m, v := newJWT(t)
	token, err := v.Generate("alice", "viewer", time.Hour)
	require.NoError(t, err)
	h := m.Middleware(http.HandlerFunc(ok))

	tests := []struct {
		name    string
		prepare func(*http.Request)
		status  int
	}{
		{name: "no credentials", prepare: func(*http.Request) {}, status: http.StatusUnauthorized},
		{name: "bearer", prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, status: http.StatusOK},
		{name: "cookie", prepare: func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "auth_token", Value: token}) }, status: http.StatusOK},
		{name: "garbage bearer", prepare: func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, status: http.StatusUnauthorized},
		{name: "wrong scheme", prepare: func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) }, status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "alice", rec.Header().Get("X-Subject"))
			} else {
				assert.Equal(t, "unauthorized", decodeError(t, rec).Error)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	m, v := newJWT(t)
	h := m.RequireAdmin(http.HandlerFunc(ok))

	serve := func(role string) *httptest.ResponseRecorder {
		token, err := v.Generate("bob", role, time.Hour)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/api/universes", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve(auth.RoleAdmin).Code)

	rec := serve("viewer")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec).Error)
}

func TestAdminMiddlewareWithoutClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	AdminMiddleware(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
