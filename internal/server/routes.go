package server

import (
	"log/slog"
	"net/http"

	"starforge/internal/metrics"
	"starforge/internal/middleware"
	serverHandlers "starforge/internal/server/handlers"
	"starforge/internal/universe"
	universeHandlers "starforge/internal/universe/handlers"
)

type Routes struct {
	db              serverHandlers.Pinger
	cache           serverHandlers.Pinger
	universeService *universe.Service
	jwt             *middleware.JWT
	rateLimiter     *middleware.RateLimiter
	metrics         *metrics.Registry
	logger          *slog.Logger
}

func NewRoutes(
	db serverHandlers.Pinger,
	cache serverHandlers.Pinger,
	universeService *universe.Service,
	jwt *middleware.JWT,
	rateLimiter *middleware.RateLimiter,
	metrics *metrics.Registry,
	logger *slog.Logger,
) *Routes {
	return &Routes{
		db:              db,
		cache:           cache,
		universeService: universeService,
		jwt:             jwt,
		rateLimiter:     rateLimiter,
		metrics:         metrics,
		logger:          logger,
	}
}

func (r *Routes) Setup() *http.ServeMux {
	logger := r.logger.With("component", "routes", "operation", "setup")
	logger.Debug("Setting up application routes")

	mux := http.NewServeMux()

	healthHandler := serverHandlers.NewHealthHandler(r.db, r.cache)
	universeHandler := universeHandlers.NewUniverseHandler(r.universeService, r.logger)

	// Public endpoints
	mux.Handle("GET /api/server/health", healthHandler)
	mux.Handle("GET /metrics", r.metrics.Handler())
	mux.HandleFunc("GET /api/presets", universeHandler.GetPresets)
	mux.HandleFunc("GET /api/universes", universeHandler.GetUniverses)
	mux.HandleFunc("GET /api/universes/{id}", universeHandler.GetUniverse)
	mux.HandleFunc("GET /api/universes/{id}/snapshot", universeHandler.GetSnapshot)

	// Generation without storage, rate limited per client
	mux.Handle("POST /api/universes/preview", r.rateLimiter.Middleware(http.HandlerFunc(universeHandler.PreviewUniverse)))

	// Admin-only endpoints (authenticated + admin role)
	mux.Handle("POST /api/universes", r.jwt.RequireAdmin(http.HandlerFunc(universeHandler.CreateUniverse)))
	mux.Handle("DELETE /api/universes/{id}", r.jwt.RequireAdmin(http.HandlerFunc(universeHandler.DeleteUniverse)))

	logger.Info("Routes configured successfully",
		"public_endpoints", []string{"/api/server/health", "/metrics", "/api/presets", "/api/universes", "/api/universes/{id}", "/api/universes/{id}/snapshot"},
		"rate_limited_endpoints", []string{"/api/universes/preview"},
		"admin_endpoints", []string{"POST /api/universes", "DELETE /api/universes/{id}"},
	)

	return mux
}

// Handler wraps the routes with the global middleware chain.
func (r *Routes) Handler(cors *middleware.CORSMiddleware) http.Handler {
	return middleware.Metrics(r.metrics)(cors.Middleware(r.Setup()))
}
