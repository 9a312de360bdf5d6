package phenomena

import (
	"math"
	"strconv"

	"starforge/internal/celestial"
	"starforge/internal/random"
)

type NebulaMode string

const (
	NebulaModeScattered NebulaMode = "scattered"
	NebulaModeAnchored  NebulaMode = "anchored"
	NebulaModeMixed     NebulaMode = "mixed"
)

// NebulaConfig places volumetric nebulae. Scattered nebulae sit anywhere in
// a cube of half-size Extent; anchored ones orbit a group center at
// AnchorDistance. Mixed picks per nebula with AnchoredProbability.
type NebulaConfig struct {
	Enabled             bool       `yaml:"enabled" json:"enabled"`
	Mode                NebulaMode `yaml:"mode" json:"mode"`
	Count               IntRange   `yaml:"count" json:"count"`
	Extent              float64    `yaml:"extent" json:"extent"`
	AnchoredProbability float64    `yaml:"anchoredProbability" json:"anchoredProbability"`
	AnchorDistance      Range      `yaml:"anchorDistance" json:"anchorDistance"`
	Radius              Range      `yaml:"radius" json:"radius"`
	Flattening          Range      `yaml:"flattening" json:"flattening"`
	Density             Range      `yaml:"density" json:"density"`
	Brightness          Range      `yaml:"brightness" json:"brightness"`
	Particles           CountRange `yaml:"particles" json:"particles"`
}

func DefaultNebulaConfig() NebulaConfig {
	return NebulaConfig{
		Enabled:             false,
		Mode:                NebulaModeMixed,
		Count:               IntRange{Min: 1, Max: 4},
		Extent:              4000,
		AnchoredProbability: 0.5,
		AnchorDistance:      Range{Min: 300, Max: 1200},
		Radius:              Range{Min: 200, Max: 900},
		Flattening:          Range{Min: 0.2, Max: 0.8},
		Density:             Range{Min: 0.1, Max: 0.6},
		Brightness:          Range{Min: 0.3, Max: 0.9},
		Particles:           CountRange{P: 0.0002, Min: 3000, Max: 20000},
	}
}

var nebulaPalettes = [][]string{
	{"#ff6b9d", "#c44dff", "#3d1a78"},
	{"#4dd2ff", "#1a6bff", "#0b1f4d"},
	{"#ffb86b", "#ff5e3a", "#5a1a0b"},
	{"#7affc4", "#2bb58f", "#0b3d2e"},
	{"#e0d4ff", "#9c7aff", "#2e1f5a"},
}

var nebulaNames = []string{
	"Veil", "Lagoon", "Crab", "Helix", "Rosette", "Eagle", "Trifid",
	"Carina", "Orion", "Horsehead", "Cat's Eye", "Ring", "Tarantula",
}

// Nebulae runs once over the merged snapshot, after groups exist. Anchored
// placement without any groups falls back to scattered.
func Nebulae(u *celestial.Universe, ids *celestial.IDSource, s *random.Stream, cfg NebulaConfig) error {
	groupIDs := sortedKeys(u.Groups)
	extent := safe(cfg.Extent, 4000, 1, 1e9)

	count := cfg.Count.sample(s)
	for i := 0; i < count; i++ {
		ns := s.ForkIndex("nebula", i)

		anchored := false
		switch cfg.Mode {
		case NebulaModeAnchored:
			anchored = true
		case NebulaModeMixed:
			anchored = ns.Bool(cfg.AnchoredProbability)
		}
		if len(groupIDs) == 0 {
			anchored = false
		}

		neb := &celestial.Nebula{
			ID:        ids.Next("nebula"),
			Name:      random.Pick(ns, nebulaNames) + " Nebula " + strconv.Itoa(i+1),
			Placement: celestial.NebulaScattered,
		}
		if anchored {
			group := u.Groups[random.Pick(ns, groupIDs)]
			theta := ns.Uniform(0, 2*math.Pi)
			elevation := ns.Uniform(-0.25, 0.25)
			dist := safe(cfg.AnchorDistance.sample(ns), 500, 0, extent*4)
			neb.Placement = celestial.NebulaAnchored
			neb.AnchorGroupID = group.ID
			neb.Position = group.Position.Add(celestial.Vec3{
				X: dist * math.Cos(theta) * math.Cos(elevation),
				Y: dist * math.Sin(elevation),
				Z: dist * math.Sin(theta) * math.Cos(elevation),
			})
		} else {
			neb.Position = celestial.Vec3{
				X: ns.Uniform(-extent, extent),
				Y: ns.Uniform(-extent, extent) * 0.25,
				Z: ns.Uniform(-extent, extent),
			}
		}

		neb.Radius = safe(cfg.Radius.sample(ns), 400, 1, extent)
		neb.Flattening = safe(cfg.Flattening.sample(ns), 0.5, 0, 1)
		neb.Density = safe(cfg.Density.sample(ns), 0.3, 0, 1)
		neb.Brightness = safe(cfg.Brightness.sample(ns), 0.6, 0, 1)
		neb.ParticleCount = cfg.Particles.sample(ns)
		neb.Palette = append([]string(nil), random.Pick(ns, nebulaPalettes)...)
		neb.Seed = ns.Uint32()

		if err := u.AddNebula(neb); err != nil {
			return err
		}
	}
	return nil
}
