// Package phenomena holds the secondary generators that decorate a
// materialized system: belts, rings, comets, Lagrange markers, disks, nebulae,
// rogue planets and black holes. Each pass reads the existing graph, draws only
// from the stream it is handed, and only appends new entities or attaches
// metadata to existing bodies; orbital topology is never changed.
package phenomena

import (
	"math"
	"sort"

	"starforge/internal/celestial"
	"starforge/internal/materializer"
	"starforge/internal/random"
)

// Range is a closed float interval sampled uniformly.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (r Range) sample(s *random.Stream) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return s.Uniform(r.Min, r.Max)
}

// CountRange samples geometric(P) and clamps into [Min, Max].
type CountRange struct {
	P   float64 `yaml:"p" json:"p"`
	Min int     `yaml:"min" json:"min"`
	Max int     `yaml:"max" json:"max"`
}

func (c CountRange) sample(s *random.Stream) int {
	lo, hi := c.Min, c.Max
	if hi < lo {
		hi = lo
	}
	return random.ClampInt(s.Geometric(c.P), lo, hi)
}

// IntRange samples an integer uniformly in [Min, Max].
type IntRange struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

func (r IntRange) sample(s *random.Stream) int {
	if r.Max <= r.Min {
		return max(r.Min, 0)
	}
	return max(s.IntRange(r.Min, r.Max), 0)
}

// Target is one materialized system plus the snapshot it lives in.
type Target struct {
	System   *materializer.System
	Universe *celestial.Universe
	IDs      *celestial.IDSource
}

// center resolves the system's root body.
func (t Target) center() (*celestial.Body, error) {
	return t.Universe.Host(t.System.RootID)
}

// planets returns the system's planets ordered by orbit distance. Ties keep
// orbit-index order.
func (t Target) planets() []*celestial.Body {
	out := make([]*celestial.Body, 0, len(t.System.PlanetIDs))
	for _, id := range t.System.PlanetIDs {
		if b, ok := t.Universe.Body(id); ok {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Orbit.Distance < out[j].Orbit.Distance
	})
	return out
}

// outermost is the largest planet distance, or fallback when there are none.
func (t Target) outermost(fallback float64) float64 {
	ps := t.planets()
	if len(ps) == 0 {
		return fallback
	}
	return ps[len(ps)-1].Orbit.Distance
}

// defaultReferenceDistance stands in for the outermost orbit of a planetless
// system when the configured fallback is unusable.
const defaultReferenceDistance = 120

// positive returns v when it is finite and above zero, fallback otherwise.
func positive(v, fallback float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// reference is the outermost planet distance, or a positive fallback.
func (t Target) reference(fallback float64) float64 {
	return positive(t.outermost(positive(fallback, defaultReferenceDistance)), defaultReferenceDistance)
}

func safe(v, fallback, lo, hi float64) float64 {
	return random.Clamp(random.Finite(v, fallback), lo, hi)
}

func wrapDegrees(d float64) float64 {
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return d
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
