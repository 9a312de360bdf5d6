package universe

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"starforge/internal/celestial"
	"starforge/internal/generator"
	"starforge/internal/random"
	"starforge/internal/shared/errors"
	"starforge/internal/shared/validation"
)

// snapshotReadTimeout bounds one shared snapshot read.
const snapshotReadTimeout = 10 * time.Second

// Limits bound what a single request may ask the generator for.
type Limits struct {
	MaxSystems     int
	PreviewSystems int
}

// CacheObserver is told about snapshot cache hits and misses.
type CacheObserver interface {
	RecordCacheLookup(hit bool)
}

type Service struct {
	generator *generator.Generator
	base      generator.Config
	limits    Limits
	repo      Store
	cache     SnapshotCache
	observer  CacheObserver
	flight    singleflight.Group
	logger    *slog.Logger
}

type Option func(*Service)

// WithCache serves snapshots through cache. A nil cache is ignored.
func WithCache(cache SnapshotCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithCacheObserver(o CacheObserver) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// NewService builds a service whose requests are applied on top of base.
func NewService(gen *generator.Generator, base generator.Config, limits Limits, repo Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		generator: gen,
		base:      base,
		limits:    limits,
		repo:      repo,
		logger:    logger.With("component", "universe_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create generates a universe and stores it with its snapshot.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Record, error) {
	logger := s.logger.With("operation", "create", "name", req.Name)

	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	u, err := s.generate(req.Settings, req.Seed, req.Systems, s.limits.MaxSystems)
	if err != nil {
		return nil, err
	}

	snapshot, err := json.Marshal(u)
	if err != nil {
		return nil, errors.WrapInternal("failed to encode snapshot", err)
	}
	settings, err := json.Marshal(req.Settings)
	if err != nil {
		return nil, errors.WrapInternal("failed to encode settings", err)
	}

	rec := &Record{
		ID:               uuid.New(),
		Name:             req.Name,
		Seed:             u.Metadata.Seed,
		SeedValue:        u.Metadata.SeedValue,
		Preset:           u.Metadata.Preset,
		GeneratorVersion: u.Metadata.Version,
		SystemCount:      u.Metadata.SystemCount,
		BodyCount:        len(u.Bodies),
		Settings:         settings,
	}
	if err := s.repo.Create(ctx, rec, snapshot); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, rec.ID, snapshot)

	logger.Info("Universe created",
		"universe_id", rec.ID,
		"seed", rec.Seed,
		"systems", rec.SystemCount,
		"bodies", rec.BodyCount)
	return rec, nil
}

// Preview generates a universe without storing it. Previews are capped to a
// smaller system count than stored universes.
func (s *Service) Preview(ctx context.Context, req PreviewRequest) (*celestial.Universe, error) {
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.generate(req.Settings, req.Seed, req.Systems, s.limits.PreviewSystems)
}

func (s *Service) generate(settings generator.Settings, seed random.Seed, systems, limit int) (*celestial.Universe, error) {
	if systems == 0 {
		systems = 1
	}
	if systems > limit {
		return nil, errors.Validationf("systems: must not exceed %d", limit)
	}
	cfg, err := settings.Apply(s.base)
	if err != nil {
		return nil, err
	}
	if systems == 1 {
		return s.generator.Generate(cfg, seed)
	}
	return s.generator.GenerateMulti(cfg, seed, systems)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.Get(ctx, id)
}

// List applies the default page size and caps the limit.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	filter.Limit = min(filter.Limit, MaxListLimit)
	filter.Offset = max(filter.Offset, 0)
	return s.repo.List(ctx, filter)
}

// Snapshot returns the stored snapshot JSON, from the cache when possible.
// Concurrent misses for the same id share one database read.
func (s *Service) Snapshot(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if data, ok := s.cacheGet(ctx, id); ok {
		return data, nil
	}

	// The shared read outlives any single caller; each caller still stops
	// waiting when its own context ends.
	ch := s.flight.DoChan(id.String(), func() (any, error) {
		readCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotReadTimeout)
		defer cancel()
		data, err := s.repo.Snapshot(readCtx, id)
		if err != nil {
			return nil, err
		}
		s.cacheSet(readCtx, id, data)
		return data, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, id); err != nil {
			s.logger.Warn("Failed to evict cached snapshot", "universe_id", id, "error", err)
		}
	}
	s.logger.Info("Universe deleted", "universe_id", id)
	return nil
}

// Presets lists the topology presets requests may name.
func (s *Service) Presets() []string {
	return generator.Presets()
}

// The cache is an accelerator only; its failures are logged and ignored.

func (s *Service) cacheGet(ctx context.Context, id uuid.UUID) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, id)
	if err != nil {
		s.logger.Warn("Snapshot cache read failed", "universe_id", id, "error", err)
		return nil, false
	}
	if s.observer != nil {
		s.observer.RecordCacheLookup(ok)
	}
	return data, ok
}

func (s *Service) cacheSet(ctx context.Context, id uuid.UUID, data []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, id, data); err != nil {
		s.logger.Warn("Snapshot cache write failed", "universe_id", id, "error", err)
	}
}
