package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"starforge/internal/auth"
	"starforge/internal/generator"
	"starforge/internal/metrics"
	"starforge/internal/middleware"
	"starforge/internal/server"
	serverHandlers "starforge/internal/server/handlers"
	"starforge/internal/shared/config"
	"starforge/internal/shared/database"
	"starforge/internal/shared/logger"
	"starforge/internal/shared/redis"
	"starforge/internal/universe"
	"starforge/migrations"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatalf("Failed to initialize configuration: %v", err)
	}
	logger.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.GlobalConfig); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := slog.With("component", "main")

	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}()

	var migrationFS fs.FS = migrations.FS
	if cfg.Database.MigrationsPath != "" {
		logger.Info("Using migrations from disk", "path", cfg.Database.MigrationsPath)
		migrationFS = os.DirFS(cfg.Database.MigrationsPath)
	}
	if err := db.RunMigrations(ctx, migrationFS); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rdb, err := redis.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Error("Failed to close redis", "error", err)
		}
	}()

	registry := metrics.DefaultRegistry()
	gen := generator.New(slog.Default(), generator.WithObserver(registry))

	base, err := loadGenerationConfig(cfg.Generation)
	if err != nil {
		return err
	}

	opts := []universe.Option{universe.WithCacheObserver(registry)}
	var cachePinger serverHandlers.Pinger
	if rdb != nil {
		opts = append(opts, universe.WithCache(universe.NewCache(rdb.Client, cfg.Generation.CacheTTL)))
		cachePinger = rdb
	}
	service := universe.NewService(
		gen,
		base,
		universe.Limits{
			MaxSystems:     min(cfg.Generation.MaxSystems, generator.MaxSystems),
			PreviewSystems: cfg.Generation.PreviewSystems,
		},
		universe.NewRepository(db, slog.Default()),
		slog.Default(),
		opts...,
	)

	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	if err != nil {
		return err
	}
	rateLimiter := middleware.NewRateLimiter(ctx, middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		Enabled:           cfg.RateLimit.Enabled,
		TrustProxy:        cfg.Server.Environment == "production",
	})

	routes := server.NewRoutes(
		db,
		cachePinger,
		service,
		middleware.NewJWT(verifier, cfg.Auth.CookieName),
		rateLimiter,
		registry,
		slog.Default(),
	)

	srv := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        routes.Handler(middleware.NewCORS(cfg.Frontend)),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starforge server starting", "port", cfg.Server.Port, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server shutdown complete")
	return nil
}

// loadGenerationConfig reads the optional YAML generation config and applies
// the default preset.
func loadGenerationConfig(cfg config.GenerationConfig) (generator.Config, error) {
	base := generator.DefaultConfig()
	if cfg.ConfigPath != "" {
		data, err := os.ReadFile(cfg.ConfigPath)
		if err != nil {
			return generator.Config{}, fmt.Errorf("failed to read generation config: %w", err)
		}
		if base, err = generator.LoadConfig(data); err != nil {
			return generator.Config{}, fmt.Errorf("failed to load generation config: %w", err)
		}
	}
	if cfg.DefaultPreset != "" && base.Grammar == nil {
		base.Preset = cfg.DefaultPreset
		if err := base.Validate(); err != nil {
			return generator.Config{}, fmt.Errorf("invalid default preset: %w", err)
		}
	}
	return base, nil
}
