package generator

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/celestial"
	"starforge/internal/random"
	"starforge/internal/shared/errors"
)

type recordedRun struct {
	preset  string
	systems int
	bodies  map[celestial.BodyType]int
	err     error
}

type recorder struct {
	mu   sync.Mutex
	runs []recordedRun
}

func (r *recorder) ObserveGeneration(preset string, systems int, bodies map[celestial.BodyType]int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, recordedRun{preset: preset, systems: systems, bodies: bodies, err: err})
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newTestGenerator(opts ...Option) *Generator {
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return New(slog.New(slog.DiscardHandler), opts...)
}

// everything turns on every optional pass with generous probabilities.
func everything(t *testing.T) Config {
	t.Helper()
	one := 1.0
	s := Settings{
		EnableEllipticalOrbits:    true,
		EnableAsteroidBelts:       true,
		BeltPlacementMode:         "both",
		BeltProbability:           &one,
		EnableKuiperBelt:          true,
		KuiperProbability:         &one,
		EnablePlanetaryRings:      true,
		EnableComets:              true,
		EnableLagrangePoints:      true,
		GenerateL1L2L3Markers:     true,
		LagrangeForMoons:          true,
		EnableTrojans:             true,
		TrojanProbability:         &one,
		EnableProtoplanetaryDisks: true,
		DiskProbability:           &one,
		EnableNebulae:             true,
		EnableRoguePlanets:        true,
		RogueCurvedTrajectories:   true,
		EnableBlackHoles:          true,
		EnableGroups:              true,
	}
	cfg, err := s.ToConfig()
	require.NoError(t, err)
	return cfg
}

func encode(t *testing.T, u *celestial.Universe) string {
	t.Helper()
	data, err := json.Marshal(u)
	require.NoError(t, err)
	return string(data)
}

func TestGenerateDeterministic(t *testing.T) {
	g := newTestGenerator()
	cfg := everything(t)

	a, err := g.Generate(cfg, random.StringSeed("andromeda"))
	require.NoError(t, err)
	b, err := g.Generate(cfg, random.StringSeed("andromeda"))
	require.NoError(t, err)
	assert.Equal(t, encode(t, a), encode(t, b))

	c, err := g.Generate(cfg, random.StringSeed("triangulum"))
	require.NoError(t, err)
	assert.NotEqual(t, encode(t, a), encode(t, c))
}

func TestGenerateStructure(t *testing.T) {
	g := newTestGenerator()
	cfg := everything(t)

	for _, preset := range Presets() {
		cfg.Preset = preset
		for seed := range 10 {
			u, err := g.Generate(cfg, random.NumberSeed(float64(seed)))
			require.NoError(t, err, "preset %s seed %d", preset, seed)
			assert.Empty(t, celestial.Verify(u), "preset %s seed %d", preset, seed)
			assert.Len(t, u.RootIDs, 1)
			assert.Equal(t, preset, u.Metadata.Preset)
			assert.Equal(t, Version, u.Metadata.Version)
			assert.Equal(t, 1, u.Metadata.SystemCount)
			assert.Equal(t, strconv.Itoa(seed), u.Metadata.Seed)
			assert.NotEmpty(t, u.Metadata.Topology)
		}
	}
}

func TestGenerateDefaultsAreMinimal(t *testing.T) {
	g := newTestGenerator()
	u, err := g.Generate(DefaultConfig(), random.StringSeed("plain"))
	require.NoError(t, err)

	counts := u.CountByType()
	assert.Positive(t, counts[celestial.BodyTypeStar])
	assert.Positive(t, counts[celestial.BodyTypePlanet])
	assert.Zero(t, counts[celestial.BodyTypeComet])
	assert.Zero(t, counts[celestial.BodyTypeLagrangePoint])
	assert.Zero(t, counts[celestial.BodyTypeRoguePlanet])
	assert.Empty(t, u.Groups)
	assert.Empty(t, u.SmallBodyFields)
	assert.Empty(t, u.Nebulae)
}

func TestGenerateAbsentSeedUsesClock(t *testing.T) {
	g := newTestGenerator()
	a, err := g.Generate(DefaultConfig(), random.NoSeed)
	require.NoError(t, err)
	b, err := g.Generate(DefaultConfig(), random.NoSeed)
	require.NoError(t, err)

	assert.Equal(t, encode(t, a), encode(t, b))
	assert.Equal(t, uint64(fixedClock().UnixNano()), a.Metadata.SeedValue)
	assert.Equal(t, strconv.FormatUint(a.Metadata.SeedValue, 10), a.Metadata.Seed)
}

func TestEnablingAPassKeepsEarlierOutput(t *testing.T) {
	g := newTestGenerator()
	base, err := g.Generate(DefaultConfig(), random.StringSeed("stable"))
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Comets.Enabled = true
	cfg.Comets.Count.Min = 2
	withComets, err := g.Generate(cfg, random.StringSeed("stable"))
	require.NoError(t, err)

	for id, b := range base.Bodies {
		other, ok := withComets.Bodies[id]
		require.True(t, ok, id)
		assert.Equal(t, b.Name, other.Name)
		assert.Equal(t, b.Mass, other.Mass)
		assert.Equal(t, b.Orbit, other.Orbit)
	}
	assert.Greater(t, len(withComets.Bodies), len(base.Bodies))
}

func TestGenerateMulti(t *testing.T) {
	g := newTestGenerator()
	cfg := everything(t)

	u, err := g.GenerateMulti(cfg, random.StringSeed("cluster"), 5)
	require.NoError(t, err)
	assert.Len(t, u.RootIDs, 5)
	assert.Equal(t, 5, u.Metadata.SystemCount)
	assert.Empty(t, celestial.Verify(u))
	require.NotEmpty(t, u.Groups)

	seen := map[string]int{}
	for _, grp := range u.Groups {
		for _, c := range grp.Children {
			if c.Kind == celestial.GroupChildSystem {
				seen[c.ID]++
			}
		}
	}
	for _, root := range u.RootIDs {
		assert.Equal(t, 1, seen[root], root)
	}

	again, err := g.GenerateMulti(cfg, random.StringSeed("cluster"), 5)
	require.NoError(t, err)
	assert.Equal(t, encode(t, u), encode(t, again))
}

func TestGenerateMultiBounds(t *testing.T) {
	g := newTestGenerator()
	for _, n := range []int{0, -1, MaxSystems + 1} {
		_, err := g.GenerateMulti(DefaultConfig(), random.StringSeed("x"), n)
		assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err), "n=%d", n)
	}
}

func TestObserver(t *testing.T) {
	rec := &recorder{}
	g := newTestGenerator(WithObserver(rec))

	_, err := g.GenerateMulti(DefaultConfig(), random.StringSeed("seen"), 2)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Preset = "no-such-preset"
	_, err = g.Generate(cfg, random.StringSeed("seen"))
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	require.Len(t, rec.runs, 2)
	assert.Equal(t, "classic", rec.runs[0].preset)
	assert.Equal(t, 2, rec.runs[0].systems)
	assert.NoError(t, rec.runs[0].err)
	assert.Positive(t, rec.runs[0].bodies[celestial.BodyTypePlanet])

	assert.Error(t, rec.runs[1].err)
	assert.Nil(t, rec.runs[1].bodies)
}
