package phenomena

import (
	"math"

	"starforge/internal/celestial"
	"starforge/internal/materializer"
	"starforge/internal/random"
)

type ShadowMode string

const (
	ShadowPhysical  ShadowMode = "physical"
	ShadowCinematic ShadowMode = "cinematic"
)

// BlackHoleClassConfig is one weighted mass class. Masses are in the same
// units as star masses.
type BlackHoleClassConfig struct {
	Weight float64 `yaml:"weight" json:"weight"`
	Mass   Range   `yaml:"mass" json:"mass"`
}

// BlackHoleConfig shapes black-hole bodies. Placement is decided by the
// materializer; this only builds the body.
type BlackHoleConfig struct {
	Classes          map[celestial.BlackHoleClass]BlackHoleClassConfig `yaml:"classes" json:"classes"`
	ShadowMode       ShadowMode                                        `yaml:"shadowMode" json:"shadowMode"`
	ShadowScale      float64                                           `yaml:"shadowScale" json:"shadowScale"`
	CinematicShadow  Range                                             `yaml:"cinematicShadow" json:"cinematicShadow"`
	MaxShadowRadius  float64                                           `yaml:"maxShadowRadius" json:"maxShadowRadius"`
	DiskProbability  float64                                           `yaml:"diskProbability" json:"diskProbability"`
	DiskInner        Range                                             `yaml:"diskInner" json:"diskInner"`
	DiskOuter        Range                                             `yaml:"diskOuter" json:"diskOuter"`
	DiskBrightness   Range                                             `yaml:"diskBrightness" json:"diskBrightness"`
	DiskTemperature  Range                                             `yaml:"diskTemperature" json:"diskTemperature"`
	JetProbability   float64                                           `yaml:"jetProbability" json:"jetProbability"`
	JetLength        Range                                             `yaml:"jetLength" json:"jetLength"`
	DopplerBeaming   Range                                             `yaml:"dopplerBeaming" json:"dopplerBeaming"`
	LensingStrength  Range                                             `yaml:"lensingStrength" json:"lensingStrength"`
	PhotonRingWidth  Range                                             `yaml:"photonRingWidth" json:"photonRingWidth"`
	SpinBias         float64                                           `yaml:"spinBias" json:"spinBias"`
	RenderSafeRadius float64                                           `yaml:"renderSafeRadius" json:"renderSafeRadius"`
}

func DefaultBlackHoleConfig() BlackHoleConfig {
	return BlackHoleConfig{
		Classes: map[celestial.BlackHoleClass]BlackHoleClassConfig{
			celestial.BlackHoleStellar:      {Weight: 70, Mass: Range{Min: 3000, Max: 30000}},
			celestial.BlackHoleIntermediate: {Weight: 25, Mass: Range{Min: 1e5, Max: 1e7}},
			celestial.BlackHoleSupermassive: {Weight: 5, Mass: Range{Min: 1e8, Max: 1e10}},
		},
		ShadowMode:       ShadowPhysical,
		ShadowScale:      0.6,
		CinematicShadow:  Range{Min: 2, Max: 8},
		MaxShadowRadius:  12,
		DiskProbability:  0.8,
		DiskInner:        Range{Min: 1.5, Max: 3},
		DiskOuter:        Range{Min: 4, Max: 10},
		DiskBrightness:   Range{Min: 0.5, Max: 1},
		DiskTemperature:  Range{Min: 4000, Max: 20000},
		JetProbability:   0.4,
		JetLength:        Range{Min: 10, Max: 60},
		DopplerBeaming:   Range{Min: 0.2, Max: 0.9},
		LensingStrength:  Range{Min: 0.3, Max: 1},
		PhotonRingWidth:  Range{Min: 0.02, Max: 0.12},
		SpinBias:         0.5,
		RenderSafeRadius: 80,
	}
}

var blackHoleClassOrder = []celestial.BlackHoleClass{
	celestial.BlackHoleStellar,
	celestial.BlackHoleIntermediate,
	celestial.BlackHoleSupermassive,
}

var diskColors = []string{"#ffb347", "#ff8c42", "#ffd28a", "#f9a65a"}

var jetColors = []string{"#9fc9ff", "#c3b6ff", "#d7f0ff"}

// BlackHoleFactory returns the constructor the materializer calls when it
// places a black hole.
func BlackHoleFactory(cfg BlackHoleConfig) materializer.BlackHoleFactory {
	return func(s *random.Stream, id, name string) *celestial.Body {
		return NewBlackHole(s, cfg, id, name)
	}
}

// NewBlackHole builds a black-hole body. Every stored number is finite and
// the visible geometry stays within RenderSafeRadius.
func NewBlackHole(s *random.Stream, cfg BlackHoleConfig, id, name string) *celestial.Body {
	limit := cfg.RenderSafeRadius
	if !(limit > 0) || math.IsInf(limit, 0) {
		limit = 80
	}
	maxShadow := safe(cfg.MaxShadowRadius, 12, 0.1, limit)

	class := blackHoleClass(s, cfg)
	classCfg := cfg.Classes[class]
	mass := random.Finite(classCfg.Mass.sample(s), 10000)
	if mass <= 0 {
		mass = 10000
	}

	details := &celestial.BlackHoleDetails{Class: class}
	switch cfg.ShadowMode {
	case ShadowCinematic:
		details.Cinematic = true
		details.ShadowRadius = safe(cfg.CinematicShadow.sample(s), 4, 0.1, maxShadow)
	default:
		// Schwarzschild radius grows linearly with mass; log scaling keeps
		// supermassive holes on screen.
		details.ShadowRadius = safe(cfg.ShadowScale*math.Log10(1+mass), 2, 0.1, maxShadow)
	}

	// Spin leans toward maximal rotation as the bias grows.
	bias := random.Clamp01(cfg.SpinBias)
	details.Spin = safe(math.Pow(s.Float64(), 1-0.9*bias), 0.5, 0, 0.998)
	details.DopplerBeaming = safe(cfg.DopplerBeaming.sample(s), 0.5, 0, 1)
	details.LensingStrength = safe(cfg.LensingStrength.sample(s), 0.6, 0, 1)
	details.PhotonRingWidth = safe(cfg.PhotonRingWidth.sample(s), 0.05, 0, 1)

	if s.Bool(cfg.DiskProbability) {
		inner := details.ShadowRadius * safe(cfg.DiskInner.sample(s), 2, 1.05, 10)
		outer := details.ShadowRadius * safe(cfg.DiskOuter.sample(s), 6, 1, 50)
		if outer <= inner {
			outer = inner * 1.5
		}
		details.AccretionDisk = &celestial.AccretionDisk{
			InnerRadius:   safe(inner, maxShadow, 0.1, limit),
			OuterRadius:   safe(outer, limit, 0.2, limit),
			Brightness:    safe(cfg.DiskBrightness.sample(s), 0.8, 0, 1),
			Temperature:   safe(cfg.DiskTemperature.sample(s), 8000, 0, 1e6),
			RotationSpeed: safe(0.2+details.Spin, 0.5, 0, 10),
			Color:         random.Pick(s, diskColors),
		}
		if details.AccretionDisk.OuterRadius <= details.AccretionDisk.InnerRadius {
			details.AccretionDisk.InnerRadius = details.AccretionDisk.OuterRadius / 2
		}
		// Jets need something to feed them.
		if s.Bool(cfg.JetProbability) {
			length := safe(cfg.JetLength.sample(s), 20, 1, limit)
			details.Jets = &celestial.Jets{
				Length:     length,
				Width:      safe(details.ShadowRadius*0.4, 0.5, 0.05, limit),
				Brightness: safe(s.Uniform(0.4, 1), 0.7, 0, 1),
				Color:      random.Pick(s, jetColors),
			}
		}
	}

	body := celestial.NewBody(id, name, details)
	body.Mass = mass
	body.Radius = details.ShadowRadius
	body.Color = "#000000"
	return body
}

func blackHoleClass(s *random.Stream, cfg BlackHoleConfig) celestial.BlackHoleClass {
	weights := make([]float64, len(blackHoleClassOrder))
	total := 0.0
	for i, c := range blackHoleClassOrder {
		w := cfg.Classes[c].Weight
		if w > 0 && !math.IsInf(w, 0) {
			weights[i] = w
			total += w
		}
	}
	if total == 0 {
		return celestial.BlackHoleStellar
	}
	return random.Weighted(s, blackHoleClassOrder, weights)
}
