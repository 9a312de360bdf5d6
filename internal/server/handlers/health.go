package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"starforge/internal/generator"
	"starforge/internal/shared/errors"
	"starforge/internal/shared/response"
)

type HealthResponse struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	Database         string `json:"database"`
	Cache            string `json:"cache"`
	GeneratorVersion string `json:"generator_version"`
}

// Pinger is satisfied by the database and cache connections.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler accepts a nil cache when Redis is disabled.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	code := http.StatusOK
	dbStatus := "connected"
	if err := h.db.Ping(ctx); err != nil {
		err = errors.WrapExternal("database unavailable", err)
		status, dbStatus = "degraded", "disconnected"
		code = response.StatusCode(err)
		logger.Warn("Database ping failed", "error", err, "error_type", errors.GetType(err))
	}

	cacheStatus := "disabled"
	if h.cache != nil {
		cacheStatus = "connected"
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "disconnected"
			logger.Warn("Redis ping failed", "error", errors.WrapExternal("cache unavailable", err))
		}
	}

	resp := HealthResponse{
		Status:           status,
		Timestamp:        time.Now().Format(time.RFC3339),
		Database:         dbStatus,
		Cache:            cacheStatus,
		GeneratorVersion: generator.Version,
	}

	response.Success(w, code, resp)
}
