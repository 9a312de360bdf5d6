package phenomena

import (
	"math"

	"starforge/internal/celestial"
	"starforge/internal/random"
)

type LagrangeConfig struct {
	Enabled           bool     `yaml:"enabled" json:"enabled"`
	StarPlanet        bool     `yaml:"starPlanet" json:"starPlanet"`
	PlanetMoon        bool     `yaml:"planetMoon" json:"planetMoon"`
	GenerateL1L2L3    bool     `yaml:"generateL1L2L3" json:"generateL1L2L3"`
	GenerateL4L5      bool     `yaml:"generateL4L5" json:"generateL4L5"`
	MarkerRadius      float64  `yaml:"markerRadius" json:"markerRadius"`
	EnableTrojans     bool     `yaml:"enableTrojans" json:"enableTrojans"`
	TrojanProbability float64  `yaml:"trojanProbability" json:"trojanProbability"`
	TrojanCount       IntRange `yaml:"trojanCount" json:"trojanCount"`
	TrojanSpread      Range    `yaml:"trojanSpread" json:"trojanSpread"`
	TrojanRadialWidth float64  `yaml:"trojanRadialWidth" json:"trojanRadialWidth"`
}

func DefaultLagrangeConfig() LagrangeConfig {
	return LagrangeConfig{
		Enabled:           false,
		StarPlanet:        true,
		PlanetMoon:        false,
		GenerateL1L2L3:    false,
		GenerateL4L5:      true,
		MarkerRadius:      0.3,
		EnableTrojans:     false,
		TrojanProbability: 0.5,
		TrojanCount:       IntRange{Min: 20, Max: 200},
		TrojanSpread:      Range{Min: 8, Max: 20},
		TrojanRadialWidth: 0.04,
	}
}

const markerMass = 1e-9

var markerColors = map[bool]string{true: "#7cf29c", false: "#f2c27c"}

type lagrangePair struct {
	primary, secondary *celestial.Body
}

// LagrangePosition gives the distance and phase offset of point p for a
// secondary of mass m2 orbiting a primary of mass m1 at distance r. L1 and L2
// use the Hill-radius cube-root correction, L3 the first-order mass-ratio term.
func LagrangePosition(p celestial.LagrangePoint, m1, m2, r float64) (distance, phaseOffset float64) {
	ratio := 0.0
	if m1 > 0 {
		ratio = m2 / m1
	}
	hill := math.Cbrt(ratio / 3)
	mu := 0.0
	if m1+m2 > 0 {
		mu = m2 / (m1 + m2)
	}
	switch p {
	case celestial.L1:
		return r * (1 - hill), 0
	case celestial.L2:
		return r * (1 + hill), 0
	case celestial.L3:
		return r * (1 + 5*mu/12), 180
	case celestial.L4:
		return r, 60
	case celestial.L5:
		return r, -60
	}
	return r, 0
}

// Lagrange adds point markers for every eligible two-body pair, and Trojan
// clusters at stable points.
func Lagrange(t Target, s *random.Stream, cfg LagrangeConfig) error {
	center, err := t.center()
	if err != nil {
		return err
	}

	var pairs []lagrangePair
	planets := t.planets()
	if cfg.StarPlanet {
		for _, p := range planets {
			pairs = append(pairs, lagrangePair{primary: center, secondary: p})
		}
	}
	if cfg.PlanetMoon {
		for _, p := range planets {
			for _, moonID := range t.System.MoonIDs[p.ID] {
				if moon, ok := t.Universe.Body(moonID); ok {
					pairs = append(pairs, lagrangePair{primary: p, secondary: moon})
				}
			}
		}
	}

	var points []celestial.LagrangePoint
	if cfg.GenerateL1L2L3 {
		points = append(points, celestial.L1, celestial.L2, celestial.L3)
	}
	if cfg.GenerateL4L5 {
		points = append(points, celestial.L4, celestial.L5)
	}

	for i, pair := range pairs {
		ps := s.ForkIndex("pair", i)
		for _, point := range points {
			if err := addMarker(t, ps.Fork(string(point)), cfg, pair, point); err != nil {
				return err
			}
		}
	}
	return nil
}

func addMarker(t Target, s *random.Stream, cfg LagrangeConfig, pair lagrangePair, point celestial.LagrangePoint) error {
	sec := pair.secondary
	distance, offset := LagrangePosition(point, pair.primary.Mass, sec.Mass, sec.Orbit.Distance)
	distance = safe(distance, sec.Orbit.Distance, 0, math.MaxFloat64)
	stable := point == celestial.L4 || point == celestial.L5

	details := &celestial.LagrangeDetails{
		Point:       point,
		PrimaryID:   pair.primary.ID,
		SecondaryID: sec.ID,
		Stable:      stable,
	}
	marker := celestial.NewBody(t.IDs.Next("lagrange"), sec.Name+" "+string(point), details)
	marker.Mass = markerMass
	marker.Radius = cfg.MarkerRadius
	if marker.Radius <= 0 {
		marker.Radius = 0.1
	}
	marker.Color = markerColors[stable]
	// Markers co-rotate with the secondary.
	marker.Orbit = celestial.Orbit{
		Distance:     distance,
		Speed:        sec.Orbit.Speed,
		Phase:        wrapDegrees(sec.Orbit.Phase + offset),
		Eccentricity: sec.Orbit.Eccentricity,
		Inclination:  sec.Orbit.Inclination,
		Rotation:     sec.Orbit.Rotation,
	}

	if err := t.Universe.AddBody(marker); err != nil {
		return err
	}
	if err := t.Universe.Attach(marker.ID, pair.primary.ID); err != nil {
		return err
	}

	if !stable || !cfg.EnableTrojans || !s.Bool(cfg.TrojanProbability) {
		return nil
	}

	width := cfg.TrojanRadialWidth
	if width <= 0 {
		width = 0.04
	}
	field := &celestial.SmallBodyField{
		ID:            t.IDs.Next("trojan"),
		Kind:          celestial.FieldKindTrojan,
		HostID:        pair.primary.ID,
		InnerRadius:   distance * (1 - width),
		OuterRadius:   distance * (1 + width),
		Thickness:     distance * width,
		ParticleCount: cfg.TrojanCount.sample(s),
		ParticleSize:  0.08,
		Color:         "#9c8f7a",
		Opacity:       0.8,
		Seed:          s.Uint32(),
		LagrangeID:    marker.ID,
		CenterPhase:   marker.Orbit.Phase,
		AngularSpread: safe(cfg.TrojanSpread.sample(s), 10, 0.1, 60),
		OrbitSpeed:    marker.Orbit.Speed,
	}
	if err := t.Universe.AddField(field); err != nil {
		return err
	}
	details.TrojanField = field.ID
	return nil
}
