package phenomena

import (
	"starforge/internal/celestial"
	"starforge/internal/random"
)

type BeltPlacement string

const (
	BeltBetweenPlanets  BeltPlacement = "betweenPlanets"
	BeltBeyondOutermost BeltPlacement = "beyondOutermost"
	BeltBoth            BeltPlacement = "both"
)

// BeltConfig places main belts. GapFraction is the sub-range of a planet gap
// the belt occupies; BeyondMultiplier scales the outermost planet distance.
type BeltConfig struct {
	Enabled          bool          `yaml:"enabled" json:"enabled"`
	Placement        BeltPlacement `yaml:"placement" json:"placement"`
	Probability      float64       `yaml:"probability" json:"probability"`
	GapFraction      Range         `yaml:"gapFraction" json:"gapFraction"`
	BeyondMultiplier Range         `yaml:"beyondMultiplier" json:"beyondMultiplier"`
	Thickness        Range         `yaml:"thickness" json:"thickness"`
	Particles        CountRange    `yaml:"particles" json:"particles"`
	ParticleSize     Range         `yaml:"particleSize" json:"particleSize"`
	Opacity          Range         `yaml:"opacity" json:"opacity"`
}

type KuiperConfig struct {
	Enabled          bool       `yaml:"enabled" json:"enabled"`
	Probability      float64    `yaml:"probability" json:"probability"`
	RadialMultiplier Range      `yaml:"radialMultiplier" json:"radialMultiplier"`
	FallbackDistance float64    `yaml:"fallbackDistance" json:"fallbackDistance"`
	Thickness        Range      `yaml:"thickness" json:"thickness"`
	Inclination      float64    `yaml:"inclination" json:"inclination"`
	Particles        CountRange `yaml:"particles" json:"particles"`
	ParticleSize     Range      `yaml:"particleSize" json:"particleSize"`
	Opacity          Range      `yaml:"opacity" json:"opacity"`
}

func DefaultBeltConfig() BeltConfig {
	return BeltConfig{
		Enabled:          false,
		Placement:        BeltBetweenPlanets,
		Probability:      0.5,
		GapFraction:      Range{Min: 0.35, Max: 0.65},
		BeyondMultiplier: Range{Min: 1.15, Max: 1.35},
		Thickness:        Range{Min: 0.5, Max: 2.5},
		Particles:        CountRange{P: 0.001, Min: 400, Max: 3000},
		ParticleSize:     Range{Min: 0.05, Max: 0.2},
		Opacity:          Range{Min: 0.5, Max: 0.9},
	}
}

func DefaultKuiperConfig() KuiperConfig {
	return KuiperConfig{
		Enabled:          false,
		Probability:      0.7,
		RadialMultiplier: Range{Min: 1.4, Max: 2.2},
		FallbackDistance: 120,
		Thickness:        Range{Min: 4, Max: 12},
		Inclination:      6,
		Particles:        CountRange{P: 0.0004, Min: 1000, Max: 6000},
		ParticleSize:     Range{Min: 0.05, Max: 0.15},
		Opacity:          Range{Min: 0.3, Max: 0.6},
	}
}

var beltColors = []string{"#8a7f72", "#a39382", "#6e665c", "#9c8f7a", "#7d7468"}

var kuiperColors = []string{"#a9c4d6", "#c7d8e3", "#8fa9bb", "#b8c6cf"}

// Belts places main-belt fields in planet gaps and/or past the outermost
// planet. Every eligible slot rolls independently.
func Belts(t Target, s *random.Stream, cfg BeltConfig) error {
	center, err := t.center()
	if err != nil {
		return err
	}
	planets := t.planets()

	type slot struct{ inner, outer float64 }
	var slots []slot

	if cfg.Placement == BeltBetweenPlanets || cfg.Placement == BeltBoth {
		for i := 0; i+1 < len(planets); i++ {
			a, b := planets[i].Orbit.Distance, planets[i+1].Orbit.Distance
			gap := b - a
			if gap <= 0 {
				continue
			}
			lo, hi := cfg.GapFraction.Min, cfg.GapFraction.Max
			if hi <= lo {
				lo, hi = 0.35, 0.65
			}
			slots = append(slots, slot{inner: a + gap*random.Clamp01(lo), outer: a + gap*random.Clamp01(hi)})
		}
	}
	if (cfg.Placement == BeltBeyondOutermost || cfg.Placement == BeltBoth) && len(planets) > 0 {
		last := planets[len(planets)-1].Orbit.Distance
		lo, hi := cfg.BeyondMultiplier.Min, cfg.BeyondMultiplier.Max
		if lo <= 1 {
			lo = 1.1
		}
		if hi <= lo {
			hi = lo + 0.2
		}
		slots = append(slots, slot{inner: last * lo, outer: last * hi})
	}

	for i, sl := range slots {
		bs := s.ForkIndex("belt", i)
		if !bs.Bool(cfg.Probability) {
			continue
		}
		if !(sl.inner < sl.outer) {
			continue
		}
		field := &celestial.SmallBodyField{
			ID:            t.IDs.Next("belt"),
			Kind:          celestial.FieldKindMainBelt,
			HostID:        center.ID,
			InnerRadius:   sl.inner,
			OuterRadius:   sl.outer,
			Thickness:     safe(cfg.Thickness.sample(bs), 1, 0, sl.outer),
			ParticleCount: cfg.Particles.sample(bs),
			ParticleSize:  safe(cfg.ParticleSize.sample(bs), 0.1, 0.001, 10),
			Color:         random.Pick(bs, beltColors),
			Opacity:       safe(cfg.Opacity.sample(bs), 0.7, 0, 1),
			Seed:          bs.Uint32(),
		}
		if err := t.Universe.AddField(field); err != nil {
			return err
		}
	}
	return nil
}

// Kuiper places one outer field scaled from the outermost planet distance.
func Kuiper(t Target, s *random.Stream, cfg KuiperConfig) error {
	center, err := t.center()
	if err != nil {
		return err
	}
	if !s.Bool(cfg.Probability) {
		return nil
	}

	ref := t.reference(cfg.FallbackDistance)
	lo, hi := cfg.RadialMultiplier.Min, cfg.RadialMultiplier.Max
	if lo <= 1 {
		lo = 1.2
	}
	if hi <= lo {
		hi = lo + 0.5
	}
	inner := ref * s.Uniform(lo, (lo+hi)/2)
	outer := ref * s.Uniform((lo+hi)/2, hi)
	if !(inner < outer) {
		outer = inner * 1.1
	}

	var inclination float64
	if cfg.Inclination > 0 {
		inclination = s.Uniform(-cfg.Inclination, cfg.Inclination)
	}

	field := &celestial.SmallBodyField{
		ID:            t.IDs.Next("kuiper"),
		Kind:          celestial.FieldKindKuiperBelt,
		HostID:        center.ID,
		InnerRadius:   inner,
		OuterRadius:   outer,
		Thickness:     safe(cfg.Thickness.sample(s), 5, 0, outer),
		Inclination:   inclination,
		ParticleCount: cfg.Particles.sample(s),
		ParticleSize:  safe(cfg.ParticleSize.sample(s), 0.1, 0.001, 10),
		Color:         random.Pick(s, kuiperColors),
		Opacity:       safe(cfg.Opacity.sample(s), 0.5, 0, 1),
		Seed:          s.Uint32(),
	}
	return t.Universe.AddField(field)
}
