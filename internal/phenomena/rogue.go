package phenomena

import (
	"fmt"
	"math"

	"starforge/internal/celestial"
	"starforge/internal/random"
)

// RogueConfig drives unbound planets. Positions are relative to a random
// group center with GroupReferenceProbability, otherwise to the origin. With
// CurvedTrajectories on, a sampled Curvature above zero bends the path into
// an orbit-like arc; zero or below keeps the linear drift.
type RogueConfig struct {
	Enabled                   bool     `yaml:"enabled" json:"enabled"`
	Count                     IntRange `yaml:"count" json:"count"`
	Extent                    float64  `yaml:"extent" json:"extent"`
	GroupReferenceProbability float64  `yaml:"groupReferenceProbability" json:"groupReferenceProbability"`
	Distance                  Range    `yaml:"distance" json:"distance"`
	Speed                     Range    `yaml:"speed" json:"speed"`
	Mass                      Range    `yaml:"mass" json:"mass"`
	RadiusPower               float64  `yaml:"radiusPower" json:"radiusPower"`
	RadiusScale               float64  `yaml:"radiusScale" json:"radiusScale"`
	CurvedTrajectories        bool     `yaml:"curvedTrajectories" json:"curvedTrajectories"`
	Curvature                 Range    `yaml:"curvature" json:"curvature"`
	Eccentricity              Range    `yaml:"eccentricity" json:"eccentricity"`
}

func DefaultRogueConfig() RogueConfig {
	return RogueConfig{
		Enabled:                   false,
		Count:                     IntRange{Min: 1, Max: 5},
		Extent:                    3000,
		GroupReferenceProbability: 0.6,
		Distance:                  Range{Min: 200, Max: 1500},
		Speed:                     Range{Min: 0.2, Max: 2},
		Mass:                      Range{Min: 0.3, Max: 40},
		RadiusPower:               0.33,
		RadiusScale:               1.0,
		CurvedTrajectories:        false,
		Curvature:                 Range{Min: -0.5, Max: 1},
		Eccentricity:              Range{Min: 0.1, Max: 0.9},
	}
}

var rogueClasses = []celestial.PlanetClass{
	celestial.PlanetClassBarren,
	celestial.PlanetClassIce,
	celestial.PlanetClassGasGiant,
}

var rogueColors = map[celestial.PlanetClass][]string{
	celestial.PlanetClassBarren:   {"#5b5650", "#6e6259", "#48443f"},
	celestial.PlanetClassIce:      {"#8fb3c9", "#6d8fa6", "#a9c8d8"},
	celestial.PlanetClassGasGiant: {"#5a4a6e", "#3f4c6b", "#6b5a4a"},
}

// Rogues adds unbound planets to the merged snapshot. They have no parent and
// are not system roots.
func Rogues(u *celestial.Universe, ids *celestial.IDSource, s *random.Stream, cfg RogueConfig) error {
	groupIDs := sortedKeys(u.Groups)
	extent := safe(cfg.Extent, 3000, 1, 1e9)

	count := cfg.Count.sample(s)
	for i := 0; i < count; i++ {
		rs := s.ForkIndex("rogue", i)

		details := &celestial.RogueDetails{Class: random.Pick(rs, rogueClasses)}

		var origin celestial.Vec3
		if len(groupIDs) > 0 && rs.Bool(cfg.GroupReferenceProbability) {
			group := u.Groups[random.Pick(rs, groupIDs)]
			details.ReferenceID = group.ID
			origin = group.Position
		}
		dist := safe(cfg.Distance.sample(rs), 500, 0, extent)
		x, y, z := direction(rs)
		details.Position = origin.Add(celestial.Vec3{X: x, Y: y, Z: z}.Scale(dist))

		speed := safe(cfg.Speed.sample(rs), 1, 0, 1e6)
		vx, vy, vz := direction(rs)
		details.Velocity = celestial.Vec3{X: vx, Y: vy, Z: vz}.Scale(speed)

		if cfg.CurvedTrajectories {
			if curvature := random.Finite(cfg.Curvature.sample(rs), 0); curvature > 0 {
				details.Trajectory = trajectory(rs, cfg, curvature, dist, speed)
			}
		}

		mass := random.Finite(cfg.Mass.sample(rs), 1)
		if mass <= 0 {
			mass = 1
		}
		body := celestial.NewBody(ids.Next("rogue"), fmt.Sprintf("Rogue %03d", i+1), details)
		body.Mass = mass
		body.Radius = safe(math.Pow(mass, cfg.RadiusPower)*cfg.RadiusScale, 1, 0.01, 1e6)
		body.Color = random.Pick(rs, rogueColors[details.Class])

		if err := u.AddBody(body); err != nil {
			return err
		}
	}
	return nil
}

// trajectory derives an arc whose tightness follows curvature: the higher
// the curvature, the smaller the semi-major axis relative to the start
// distance.
func trajectory(s *random.Stream, cfg RogueConfig, curvature, dist, speed float64) *celestial.Trajectory {
	a := safe(dist/(1+curvature), dist, 1, 1e9)
	e := safe(cfg.Eccentricity.sample(s), 0.5, 0, 0.99)
	period := 0.0
	if speed > 0 {
		period = safe(2*math.Pi*a/speed, 0, 0, 1e12)
	}
	return &celestial.Trajectory{
		Curvature:     curvature,
		SemiMajorAxis: a,
		Eccentricity:  e,
		Orientation: celestial.Vec3{
			X: s.Uniform(0, 360),
			Y: s.Uniform(0, 360),
			Z: s.Uniform(0, 360),
		},
		Period: period,
	}
}

// direction samples a unit vector uniformly on the sphere.
func direction(s *random.Stream) (x, y, z float64) {
	theta := s.Uniform(0, 2*math.Pi)
	cosPhi := s.Uniform(-1, 1)
	sinPhi := math.Sqrt(1 - cosPhi*cosPhi)
	return sinPhi * math.Cos(theta), cosPhi, sinPhi * math.Sin(theta)
}
