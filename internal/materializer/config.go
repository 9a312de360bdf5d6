package materializer

import "starforge/internal/celestial"

type StarConfig struct {
	MassMu         float64 `yaml:"massMu" json:"massMu"`
	MassSigma      float64 `yaml:"massSigma" json:"massSigma"`
	MassMultiplier float64 `yaml:"massMultiplier" json:"massMultiplier"`
	RadiusPower    float64 `yaml:"radiusPower" json:"radiusPower"`
	RadiusScale    float64 `yaml:"radiusScale" json:"radiusScale"`
}

type PlanetConfig struct {
	MassMu       float64                           `yaml:"massMu" json:"massMu"`
	MassSigma    float64                           `yaml:"massSigma" json:"massSigma"`
	RadiusPower  float64                           `yaml:"radiusPower" json:"radiusPower"`
	RadiusScale  float64                           `yaml:"radiusScale" json:"radiusScale"`
	ClassWeights map[celestial.PlanetClass]float64 `yaml:"classWeights" json:"classWeights"`
	ClassMass    map[celestial.PlanetClass]float64 `yaml:"classMass" json:"classMass"`
}

// MoonConfig also sizes submoons, scaled by SubmoonMassFactor.
type MoonConfig struct {
	MassMu            float64 `yaml:"massMu" json:"massMu"`
	MassSigma         float64 `yaml:"massSigma" json:"massSigma"`
	RadiusPower       float64 `yaml:"radiusPower" json:"radiusPower"`
	RadiusScale       float64 `yaml:"radiusScale" json:"radiusScale"`
	SubmoonMassFactor float64 `yaml:"submoonMassFactor" json:"submoonMassFactor"`
}

// Ladder describes orbital slots: distance(i) = Base * Growth^i + U(0, Jitter)
// and speed(d) = K / sqrt(d).
type Ladder struct {
	Base   float64 `yaml:"base" json:"base"`
	Growth float64 `yaml:"growth" json:"growth"`
	Jitter float64 `yaml:"jitter" json:"jitter"`
	K      float64 `yaml:"k" json:"k"`
}

type OrbitConfig struct {
	Planets  Ladder `yaml:"planets" json:"planets"`
	Moons    Ladder `yaml:"moons" json:"moons"`
	Submoons Ladder `yaml:"submoons" json:"submoons"`
}

// EllipticalConfig controls orbit augmentation. OffsetMax is a fraction of the
// orbit distance.
type EllipticalConfig struct {
	Enabled         bool    `yaml:"enabled" json:"enabled"`
	EccentricityMin float64 `yaml:"eccentricityMin" json:"eccentricityMin"`
	EccentricityMax float64 `yaml:"eccentricityMax" json:"eccentricityMax"`
	InclinationMax  float64 `yaml:"inclinationMax" json:"inclinationMax"`
	RotationMax     float64 `yaml:"rotationMax" json:"rotationMax"`
	OffsetMax       float64 `yaml:"offsetMax" json:"offsetMax"`
}

// BlackHoleConfig decides whether a system gets a black hole and where.
type BlackHoleConfig struct {
	Enabled              bool    `yaml:"enabled" json:"enabled"`
	SystemProbability    float64 `yaml:"systemProbability" json:"systemProbability"`
	CompanionProbability float64 `yaml:"companionProbability" json:"companionProbability"`
}

type Config struct {
	Stars      StarConfig       `yaml:"stars" json:"stars"`
	Planets    PlanetConfig     `yaml:"planets" json:"planets"`
	Moons      MoonConfig       `yaml:"moons" json:"moons"`
	Orbits     OrbitConfig      `yaml:"orbits" json:"orbits"`
	Elliptical EllipticalConfig `yaml:"elliptical" json:"elliptical"`
	BlackHoles BlackHoleConfig  `yaml:"blackHoles" json:"blackHoles"`
}

func DefaultConfig() Config {
	return Config{
		Stars: StarConfig{
			MassMu:         0,
			MassSigma:      0.45,
			MassMultiplier: 1000,
			RadiusPower:    0.8,
			RadiusScale:    0.35,
		},
		Planets: PlanetConfig{
			MassMu:      0,
			MassSigma:   0.6,
			RadiusPower: 0.33,
			RadiusScale: 1.0,
			ClassWeights: map[celestial.PlanetClass]float64{
				celestial.PlanetClassBarren:      15,
				celestial.PlanetClassTerrestrial: 40,
				celestial.PlanetClassGasGiant:    20,
				celestial.PlanetClassIce:         15,
				celestial.PlanetClassVolcanic:    10,
			},
			ClassMass: map[celestial.PlanetClass]float64{
				celestial.PlanetClassBarren:      0.4,
				celestial.PlanetClassTerrestrial: 1,
				celestial.PlanetClassGasGiant:    60,
				celestial.PlanetClassIce:         12,
				celestial.PlanetClassVolcanic:    0.8,
			},
		},
		Moons: MoonConfig{
			MassMu:            -3,
			MassSigma:         0.7,
			RadiusPower:       0.33,
			RadiusScale:       1.0,
			SubmoonMassFactor: 0.1,
		},
		Orbits: OrbitConfig{
			Planets:  Ladder{Base: 40, Growth: 1.6, Jitter: 6, K: 30},
			Moons:    Ladder{Base: 4, Growth: 1.5, Jitter: 0.8, K: 6},
			Submoons: Ladder{Base: 1, Growth: 1.4, Jitter: 0.2, K: 2},
		},
		Elliptical: EllipticalConfig{
			Enabled:         false,
			EccentricityMin: 0,
			EccentricityMax: 0.2,
			InclinationMax:  8,
			RotationMax:     360,
			OffsetMax:       0.05,
		},
		BlackHoles: BlackHoleConfig{
			Enabled:              false,
			SystemProbability:    0.05,
			CompanionProbability: 0,
		},
	}
}
