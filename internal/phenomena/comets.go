package phenomena

import (
	"math"
	"strconv"

	"starforge/internal/celestial"
	"starforge/internal/random"
)

// CometConfig sizes comet orbits relative to the outermost planet.
type CometConfig struct {
	Enabled                bool     `yaml:"enabled" json:"enabled"`
	Count                  IntRange `yaml:"count" json:"count"`
	ShortPeriodProbability float64  `yaml:"shortPeriodProbability" json:"shortPeriodProbability"`
	SemiMajorAxis          Range    `yaml:"semiMajorAxis" json:"semiMajorAxis"`
	ShortPeriodFactor      float64  `yaml:"shortPeriodFactor" json:"shortPeriodFactor"`
	Eccentricity           Range    `yaml:"eccentricity" json:"eccentricity"`
	ShortInclination       float64  `yaml:"shortInclination" json:"shortInclination"`
	LongInclination        float64  `yaml:"longInclination" json:"longInclination"`
	TailLength             Range    `yaml:"tailLength" json:"tailLength"`
	TailWidth              Range    `yaml:"tailWidth" json:"tailWidth"`
	TailOpacity            Range    `yaml:"tailOpacity" json:"tailOpacity"`
	IonTailProbability     float64  `yaml:"ionTailProbability" json:"ionTailProbability"`
	Mass                   Range    `yaml:"mass" json:"mass"`
	RadiusScale            float64  `yaml:"radiusScale" json:"radiusScale"`
	OrbitK                 float64  `yaml:"orbitK" json:"orbitK"`
	FallbackDistance       float64  `yaml:"fallbackDistance" json:"fallbackDistance"`
}

func DefaultCometConfig() CometConfig {
	return CometConfig{
		Enabled:                false,
		Count:                  IntRange{Min: 0, Max: 4},
		ShortPeriodProbability: 0.4,
		SemiMajorAxis:          Range{Min: 1.2, Max: 3},
		ShortPeriodFactor:      0.5,
		Eccentricity:           Range{Min: 0.4, Max: 0.95},
		ShortInclination:       25,
		LongInclination:        90,
		TailLength:             Range{Min: 8, Max: 40},
		TailWidth:              Range{Min: 0.5, Max: 3},
		TailOpacity:            Range{Min: 0.3, Max: 0.8},
		IonTailProbability:     0.6,
		Mass:                   Range{Min: 0.0001, Max: 0.001},
		RadiusScale:            2,
		OrbitK:                 30,
		FallbackDistance:       120,
	}
}

var cometBodyColors = []string{"#d8d4c8", "#bfb8a8", "#e6e2d6"}

var cometTailColors = []string{"#9ad7ff", "#c4ecff", "#fff6d8", "#b5f2e8"}

// Comets samples a per-system count; every comet draws from its own fork so
// adding one never shifts the others.
func Comets(t Target, s *random.Stream, cfg CometConfig) error {
	center, err := t.center()
	if err != nil {
		return err
	}
	ref := t.reference(cfg.FallbackDistance)

	count := cfg.Count.sample(s)
	for i := 0; i < count; i++ {
		cs := s.ForkIndex("comet", i)

		short := cs.Bool(cfg.ShortPeriodProbability)
		a := ref * safe(cfg.SemiMajorAxis.sample(cs), 1.5, 0.1, 100)
		inclinationMax := cfg.LongInclination
		if short {
			a *= positive(cfg.ShortPeriodFactor, 0.5)
			inclinationMax = cfg.ShortInclination
		}

		// e stays strictly inside (0, 1) so perihelion < aphelion.
		e := safe(cfg.Eccentricity.sample(cs), 0.6, 0.01, 0.99)

		var incl celestial.Vec3
		if inclinationMax > 0 {
			incl = celestial.Vec3{
				X: cs.Uniform(-inclinationMax, inclinationMax),
				Y: cs.Uniform(-inclinationMax, inclinationMax),
				Z: cs.Uniform(-inclinationMax, inclinationMax),
			}
		}

		mass := safe(cfg.Mass.sample(cs), 0.0005, 1e-9, math.MaxFloat64)
		body := celestial.NewBody(t.IDs.Next("comet"), center.Name+" C/"+strconv.Itoa(i+1), &celestial.CometDetails{
			ShortPeriod:        short,
			SemiMajorAxis:      a,
			Eccentricity:       e,
			PerihelionDistance: a * (1 - e),
			AphelionDistance:   a * (1 + e),
			Inclination:        incl,
			TailLength:         safe(cfg.TailLength.sample(cs), 10, 0, 1000),
			TailWidth:          safe(cfg.TailWidth.sample(cs), 1, 0, 100),
			TailColor:          random.Pick(cs, cometTailColors),
			TailOpacity:        safe(cfg.TailOpacity.sample(cs), 0.5, 0, 1),
			IonTail:            cs.Bool(cfg.IonTailProbability),
		})
		body.Mass = mass
		body.Radius = safe(math.Cbrt(mass)*cfg.RadiusScale, 0.1, 0.01, 10)
		body.Color = random.Pick(cs, cometBodyColors)
		body.Orbit = celestial.Orbit{
			Distance:     a,
			Speed:        safe(cfg.OrbitK/math.Sqrt(a), 0, 0, math.MaxFloat64),
			Phase:        cs.Uniform(0, 360),
			Eccentricity: e,
			Inclination:  incl.X,
		}

		if err := t.Universe.AddBody(body); err != nil {
			return err
		}
		if err := t.Universe.Attach(body.ID, center.ID); err != nil {
			return err
		}
	}
	return nil
}
