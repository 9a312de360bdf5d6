package phenomena

import (
	"starforge/internal/celestial"
	"starforge/internal/random"
)

// RingConfig drives the per-planet ring roll. MassBoost is added in full once
// a planet reaches MassReference, DistanceBoost in full for the outermost planet.
type RingConfig struct {
	Enabled         bool    `yaml:"enabled" json:"enabled"`
	BaseProbability float64 `yaml:"baseProbability" json:"baseProbability"`
	MassBoost       float64 `yaml:"massBoost" json:"massBoost"`
	MassReference   float64 `yaml:"massReference" json:"massReference"`
	DistanceBoost   float64 `yaml:"distanceBoost" json:"distanceBoost"`
	Inner           Range   `yaml:"inner" json:"inner"`
	Width           Range   `yaml:"width" json:"width"`
	Margin          float64 `yaml:"margin" json:"margin"`
	Thickness       Range   `yaml:"thickness" json:"thickness"`
	Opacity         Range   `yaml:"opacity" json:"opacity"`
	Albedo          Range   `yaml:"albedo" json:"albedo"`
	Density         Range   `yaml:"density" json:"density"`
	ColorJitter     float64 `yaml:"colorJitter" json:"colorJitter"`
}

func DefaultRingConfig() RingConfig {
	return RingConfig{
		Enabled:         false,
		BaseProbability: 0.1,
		MassBoost:       0.45,
		MassReference:   60,
		DistanceBoost:   0.2,
		Inner:           Range{Min: 1.2, Max: 1.6},
		Width:           Range{Min: 0.4, Max: 1.4},
		Margin:          0.1,
		Thickness:       Range{Min: 0.01, Max: 0.08},
		Opacity:         Range{Min: 0.35, Max: 0.9},
		Albedo:          Range{Min: 0.3, Max: 0.8},
		Density:         Range{Min: 0.3, Max: 1},
		ColorJitter:     28,
	}
}

// RingProbability is the chance that a planet of the given mass at the given
// fraction of the outermost orbit carries a ring.
func RingProbability(cfg RingConfig, mass, distanceFraction float64) float64 {
	massFactor := 0.0
	if cfg.MassReference > 0 {
		massFactor = random.Clamp01(mass / cfg.MassReference)
	}
	return random.Clamp01(cfg.BaseProbability +
		cfg.MassBoost*massFactor +
		cfg.DistanceBoost*random.Clamp01(distanceFraction))
}

// Rings rolls once per planet and attaches ring metadata on success.
func Rings(t Target, s *random.Stream, cfg RingConfig) error {
	planets := t.planets()
	outermost := t.outermost(0)

	for i, planet := range planets {
		details, ok := planet.Planet()
		if !ok {
			continue
		}
		rs := s.ForkIndex("ring", i)

		fraction := 0.0
		if outermost > 0 {
			fraction = planet.Orbit.Distance / outermost
		}
		if !rs.Bool(RingProbability(cfg, planet.Mass, fraction)) {
			continue
		}

		inner := safe(cfg.Inner.sample(rs), 1.3, 1.05, 10)
		outer := inner + positive(cfg.Margin, 0.05) + safe(cfg.Width.sample(rs), 0.5, 0, 20)

		jitter := cfg.ColorJitter
		color := celestial.ParseHex(planet.Color).Shift(
			rs.Uniform(-jitter, jitter),
			rs.Uniform(-jitter, jitter),
			rs.Uniform(-jitter, jitter),
		)

		details.Ring = &celestial.Ring{
			InnerRadiusMultiplier: inner,
			OuterRadiusMultiplier: outer,
			Thickness:             safe(cfg.Thickness.sample(rs), 0.02, 0, 1),
			Opacity:               safe(cfg.Opacity.sample(rs), 0.6, 0, 1),
			Albedo:                safe(cfg.Albedo.sample(rs), 0.5, 0, 1),
			Density:               safe(cfg.Density.sample(rs), 0.6, 0, 1),
			Color:                 color.Hex(),
			Seed:                  rs.Uint32(),
		}
	}
	return nil
}
