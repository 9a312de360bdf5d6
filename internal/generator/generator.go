// Package generator is the top-level orchestrator. It fixes the stage order
// and fork labels, runs the per-system pipeline, and merges everything into
// one universe snapshot.
package generator

import (
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"starforge/internal/celestial"
	"starforge/internal/materializer"
	"starforge/internal/phenomena"
	"starforge/internal/random"
	"starforge/internal/shared/errors"
	"starforge/internal/topology"
)

// Version is stamped into snapshot metadata.
const Version = "1.4.0"

// Observer is told about every finished generation, successful or not.
type Observer interface {
	ObserveGeneration(preset string, systems int, bodies map[celestial.BodyType]int, elapsed time.Duration, err error)
}

type Generator struct {
	logger   *slog.Logger
	observer Observer
	now      func() time.Time
}

type Option func(*Generator)

func WithObserver(o Observer) Option {
	return func(g *Generator) {
		g.observer = o
	}
}

// WithClock replaces the clock used to resolve absent seeds.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func New(logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		logger: logger.With("component", "generator"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds a single system universe.
func (g *Generator) Generate(cfg Config, seed random.Seed) (*celestial.Universe, error) {
	start := time.Now()
	value := seed.Resolve(g.now)
	logger := g.logger.With("operation", "generate", "seed", seedLabel(seed, value))

	u, err := g.generateSingle(cfg, value)
	if err == nil {
		u.Metadata = metadata(cfg, seed, value, 1, u.Metadata.Topology)
		logger.Info("Universe generated",
			"preset", cfg.presetName(),
			"bodies", len(u.Bodies),
			"duration_ms", time.Since(start).Milliseconds())
	} else {
		logger.Error("Universe generation failed", "error", err)
	}
	g.observe(cfg, 1, u, start, err)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GenerateMulti builds n independent systems and layers one shared grouping,
// nebula and rogue-planet pass over the merged result. Each system is seeded
// by one integer drawn in order from the "systems" fork of the master stream.
func (g *Generator) GenerateMulti(cfg Config, seed random.Seed, n int) (*celestial.Universe, error) {
	if n < 1 || n > MaxSystems {
		return nil, errors.Validationf("system count must be between 1 and %d, got %d", MaxSystems, n)
	}
	start := time.Now()
	value := seed.Resolve(g.now)
	logger := g.logger.With("operation", "generate_multi", "seed", seedLabel(seed, value))

	u, err := g.generateMulti(cfg, value, n)
	if err == nil {
		u.Metadata = metadata(cfg, seed, value, n, u.Metadata.Topology)
		logger.Info("Universe generated",
			"preset", cfg.presetName(),
			"systems", n,
			"bodies", len(u.Bodies),
			"groups", len(u.Groups),
			"duration_ms", time.Since(start).Milliseconds())
	} else {
		logger.Error("Universe generation failed", "systems", n, "error", err)
	}
	g.observe(cfg, n, u, start, err)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (g *Generator) generateSingle(cfg Config, value uint64) (*celestial.Universe, error) {
	p, err := singlePipeline()
	if err != nil {
		return nil, errors.WrapInternal("invalid stage order", err)
	}
	u := celestial.NewUniverse()
	st, err := g.newState(cfg, random.New(value), celestial.NewIDSource(value, "system"), u)
	if err != nil {
		return nil, err
	}
	if err := g.run(p, st); err != nil {
		return nil, err
	}
	u.Metadata.Topology = treeStats(st)
	return u, nil
}

type memberResult struct {
	u     *celestial.Universe
	stats map[string]int
	err   error
}

func (g *Generator) generateMulti(cfg Config, value uint64, n int) (*celestial.Universe, error) {
	member, err := memberPipeline()
	if err != nil {
		return nil, errors.WrapInternal("invalid stage order", err)
	}
	merged, err := mergedPipeline()
	if err != nil {
		return nil, errors.WrapInternal("invalid stage order", err)
	}

	// Seeds are drawn up front and in order; the systems themselves share
	// nothing and may be built concurrently.
	master := random.New(value)
	systems := master.Fork("systems")
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = uint64(systems.Uint32())
	}

	results := make([]memberResult, n)
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range seeds {
		eg.Go(func() error {
			u := celestial.NewUniverse()
			ids := celestial.NewIDSource(seeds[i], "system-"+strconv.Itoa(i))
			st, err := g.newState(cfg, random.New(seeds[i]), ids, u)
			if err == nil {
				err = g.run(member, st)
			}
			if err != nil {
				results[i] = memberResult{err: fmt.Errorf("system %d: %w", i, err)}
				return results[i].err
			}
			results[i] = memberResult{u: u, stats: treeStats(st)}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		// Report the lowest failing index, not whichever failed first.
		for _, r := range results {
			if r.err != nil {
				return nil, r.err
			}
		}
		return nil, err
	}

	out := celestial.NewUniverse()
	topo := map[string]int{}
	for _, r := range results {
		if err := out.Merge(r.u); err != nil {
			return nil, err
		}
		for k, v := range r.stats {
			topo[k] += v
		}
	}
	out.Metadata.Topology = topo

	st := &state{
		cfg:  cfg,
		root: master,
		ids:  celestial.NewIDSource(value, "shared"),
		u:    out,
	}
	if err := g.run(merged, st); err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Generator) newState(cfg Config, root *random.Stream, ids *celestial.IDSource, u *celestial.Universe) (*state, error) {
	interp, err := cfg.interpreter()
	if err != nil {
		return nil, err
	}
	return &state{
		cfg:    cfg,
		root:   root,
		ids:    ids,
		u:      u,
		interp: interp,
		mat:    materializer.New(cfg.Entities, phenomena.BlackHoleFactory(cfg.BlackHole), g.logger),
	}, nil
}

// run executes the enabled stages in order, each on its own fork of root.
func (g *Generator) run(p pipeline, st *state) error {
	for _, stage := range p {
		if !stage.enabled(st.cfg) {
			continue
		}
		g.logger.Debug("Running stage", "stage", stage.name)
		if err := stage.run(st, st.root.Fork(stage.name)); err != nil {
			return fmt.Errorf("stage %s: %w", stage.name, err)
		}
	}
	return nil
}

func (g *Generator) observe(cfg Config, systems int, u *celestial.Universe, start time.Time, err error) {
	if g.observer == nil {
		return
	}
	var counts map[celestial.BodyType]int
	if u != nil && err == nil {
		counts = u.CountByType()
	}
	g.observer.ObserveGeneration(cfg.presetName(), systems, counts, time.Since(start), err)
}

func treeStats(st *state) map[string]int {
	if st.tree == nil {
		return nil
	}
	return st.tree.Stats.Flatten()
}

func metadata(cfg Config, seed random.Seed, value uint64, systems int, topo map[string]int) celestial.Metadata {
	return celestial.Metadata{
		Seed:        seedLabel(seed, value),
		SeedValue:   value,
		Preset:      cfg.presetName(),
		Version:     Version,
		SystemCount: systems,
		Topology:    topo,
	}
}

// seedLabel is the caller's seed, or the resolved value when none was given.
func seedLabel(seed random.Seed, value uint64) string {
	if seed.IsSet() {
		return seed.String()
	}
	return strconv.FormatUint(value, 10)
}

// Presets lists the topology presets a Config may name.
func Presets() []string {
	return topology.Presets()
}
