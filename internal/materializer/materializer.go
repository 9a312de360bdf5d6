package materializer

import (
	"log/slog"
	"math"
	"sort"

	"starforge/internal/celestial"
	"starforge/internal/random"
	"starforge/internal/topology"
)

// BlackHoleFactory builds a black-hole body. It is supplied by the black-hole
// generator so this package only decides where one goes.
type BlackHoleFactory func(s *random.Stream, id, name string) *celestial.Body

// System indexes the bodies created for one topology tree.
type System struct {
	Name        string
	RootID      string
	StarIDs     []string // center first, then companions in descending mass
	PlanetIDs   []string // ascending orbit index
	MoonIDs     map[string][]string
	SubmoonIDs  map[string][]string
	BlackHoleID string
}

// CompanionCount is the number of non-center stellar bodies.
func (s *System) CompanionCount() int {
	if len(s.StarIDs) == 0 {
		return 0
	}
	return len(s.StarIDs) - 1
}

type Materializer struct {
	cfg       Config
	blackHole BlackHoleFactory
	logger    *slog.Logger
}

func New(cfg Config, blackHole BlackHoleFactory, logger *slog.Logger) *Materializer {
	return &Materializer{
		cfg:       cfg,
		blackHole: blackHole,
		logger:    logger,
	}
}

type starDraft struct {
	node *topology.Node
	mass float64
}

// Materialize converts a topology tree into bodies inside u. It never reads
// bodies it did not create.
func (m *Materializer) Materialize(tree *topology.Tree, s *random.Stream, ids *celestial.IDSource, u *celestial.Universe) (*System, error) {
	root := tree.Root
	sys := &System{
		Name:       random.Pick(s.Fork("naming"), systemNames),
		MoonIDs:    make(map[string][]string),
		SubmoonIDs: make(map[string][]string),
	}

	starNodes := root.ChildrenOf(topology.NodeStar)
	planetNodes := root.ChildrenOf(topology.NodePlanet)

	// A system needs an anchor. Topologies without stars still get one.
	if len(starNodes) == 0 {
		starNodes = []*topology.Node{{Type: topology.NodeStar, Parent: root, Depth: 1}}
	}

	starStream := s.Fork("stars")
	drafts := make([]starDraft, len(starNodes))
	for i, n := range starNodes {
		ss := starStream.ForkIndex("star", i)
		mass := ss.LogNormal(m.cfg.Stars.MassMu, m.cfg.Stars.MassSigma) * m.cfg.Stars.MassMultiplier
		drafts[i] = starDraft{node: n, mass: random.Finite(mass, m.cfg.Stars.MassMultiplier)}
	}
	sort.SliceStable(drafts, func(a, b int) bool {
		return drafts[a].mass > drafts[b].mass
	})

	bhRole, bhIndex := m.blackHolePlacement(s.Fork("blackhole"), len(drafts)-1)

	orbitStream := s.Fork("orbits")
	companions := len(drafts) - 1
	var companionDistance float64
	if companions > 0 {
		companionDistance = m.cfg.Orbits.Planets.distance(orbitStream.Fork("companions"), 0)
	}

	var centerMass float64
	for i, d := range drafts {
		name := sys.Name
		if len(drafts) > 1 {
			name = sys.Name + " " + string(rune('A'+i%26))
		}

		var body *celestial.Body
		isBH := (bhRole == roleCenter && i == 0) || (bhRole == roleCompanion && i-1 == bhIndex)
		if isBH {
			body = m.blackHole(s.Fork("blackhole").Fork("body"), ids.Next("blackhole"), name)
			if bh, ok := body.BlackHole(); ok && i > 0 {
				bh.ReplacesCompanion = true
				// A companion never outweighs the center it orbits.
				body.Mass = math.Min(body.Mass, centerMass)
			}
			sys.BlackHoleID = body.ID
		} else {
			class, color := starAppearance(d.mass, m.cfg.Stars.MassMultiplier)
			body = celestial.NewBody(ids.Next("star"), name, &celestial.StarDetails{SpectralClass: class})
			body.Mass = d.mass
			body.Radius = radius(d.mass/m.cfg.Stars.MassMultiplier, m.cfg.Stars.RadiusPower, m.cfg.Stars.RadiusScale)
			body.Color = color
		}
		if err := u.AddBody(body); err != nil {
			return nil, err
		}

		if i == 0 {
			centerMass = body.Mass
			body.Orbit = celestial.Orbit{}
			sys.RootID = body.ID
			u.AddRoot(body.ID)
		} else {
			cs := orbitStream.ForkIndex("companion", i-1)
			body.Orbit = celestial.Orbit{
				Distance: companionDistance,
				Speed:    m.cfg.Orbits.Planets.speed(companionDistance),
				Phase:    siblingPhase(cs, i-1, companions),
			}
			m.shape(cs, &body.Orbit)
			if err := u.Attach(body.ID, sys.RootID); err != nil {
				return nil, err
			}
		}
		sys.StarIDs = append(sys.StarIDs, body.ID)
	}

	planetStream := s.Fork("planets")
	moonStream := s.Fork("moons")
	for i, n := range planetNodes {
		planet := m.planet(planetStream.ForkIndex("planet", i), orbitStream.ForkIndex("planet", i), ids, sys, i, companions)
		if err := u.AddBody(planet); err != nil {
			return nil, err
		}
		// Planets hang off the system node in the tree and are parented to
		// the resolved center only now.
		if err := u.Attach(planet.ID, sys.RootID); err != nil {
			return nil, err
		}
		sys.PlanetIDs = append(sys.PlanetIDs, planet.ID)

		if err := m.moons(moonStream.ForkIndex("planet", i), n, planet, ids, sys, u); err != nil {
			return nil, err
		}
	}

	m.logger.Debug("System materialized",
		"system", sys.Name,
		"stars", len(sys.StarIDs),
		"planets", len(sys.PlanetIDs),
		"black_hole", sys.BlackHoleID != "",
	)
	return sys, nil
}

func (m *Materializer) planet(ps, orb *random.Stream, ids *celestial.IDSource, sys *System, i, companions int) *celestial.Body {
	class := random.Weighted(ps, celestial.PlanetClasses, m.classWeights())
	mass := ps.LogNormal(m.cfg.Planets.MassMu, m.cfg.Planets.MassSigma) * m.classMass(class)

	body := celestial.NewBody(ids.Next("planet"), sys.Name+" "+letter(i+1), &celestial.PlanetDetails{Class: class})
	body.Mass = random.Finite(mass, 1)
	body.Radius = radius(body.Mass, m.cfg.Planets.RadiusPower, m.cfg.Planets.RadiusScale)
	body.Color = paletteColor(ps, class)

	// Planet slots start after the index shared by companion stars.
	index := i + companions
	distance := m.cfg.Orbits.Planets.distance(orb, index)
	body.Orbit = celestial.Orbit{
		Distance: distance,
		Speed:    m.cfg.Orbits.Planets.speed(distance),
		Phase:    orb.Uniform(0, 360),
	}
	m.shape(orb, &body.Orbit)
	return body
}

func (m *Materializer) moons(s *random.Stream, node *topology.Node, planet *celestial.Body, ids *celestial.IDSource, sys *System, u *celestial.Universe) error {
	for j, mn := range node.ChildrenOf(topology.NodeMoon) {
		ms := s.ForkIndex("moon", j)
		moon := m.satellite(ms, ids, planet.Name+" "+roman(j), 1, j, m.cfg.Orbits.Moons, 1)
		if err := u.AddBody(moon); err != nil {
			return err
		}
		if err := u.Attach(moon.ID, planet.ID); err != nil {
			return err
		}
		sys.MoonIDs[planet.ID] = append(sys.MoonIDs[planet.ID], moon.ID)

		for k := range mn.ChildrenOf(topology.NodeSubmoon) {
			ss := ms.ForkIndex("submoon", k)
			sub := m.satellite(ss, ids, moon.Name+"-"+letter(k), 2, k, m.cfg.Orbits.Submoons, m.cfg.Moons.SubmoonMassFactor)
			if err := u.AddBody(sub); err != nil {
				return err
			}
			if err := u.Attach(sub.ID, moon.ID); err != nil {
				return err
			}
			sys.SubmoonIDs[moon.ID] = append(sys.SubmoonIDs[moon.ID], sub.ID)
		}
	}
	return nil
}

// satellite builds a moon or submoon on its own orbit index around its parent.
func (m *Materializer) satellite(s *random.Stream, ids *celestial.IDSource, name string, level, index int, ladder Ladder, massFactor float64) *celestial.Body {
	class := random.Pick(s, moonClasses)
	body := celestial.NewBody(ids.Next("moon"), name, &celestial.MoonDetails{Class: class, Level: level})
	mass := s.LogNormal(m.cfg.Moons.MassMu, m.cfg.Moons.MassSigma) * massFactor
	body.Mass = random.Finite(mass, 0.01)
	if body.Mass <= 0 {
		body.Mass = math.SmallestNonzeroFloat64
	}
	body.Radius = radius(body.Mass, m.cfg.Moons.RadiusPower, m.cfg.Moons.RadiusScale)
	body.Color = paletteColor(s, class)

	distance := ladder.distance(s, index)
	body.Orbit = celestial.Orbit{
		Distance: distance,
		Speed:    ladder.speed(distance),
		Phase:    s.Uniform(0, 360),
	}
	m.shape(s, &body.Orbit)
	return body
}

func (m *Materializer) classWeights() []float64 {
	weights := make([]float64, len(celestial.PlanetClasses))
	for i, c := range celestial.PlanetClasses {
		weights[i] = m.cfg.Planets.ClassWeights[c]
	}
	return weights
}

func (m *Materializer) classMass(c celestial.PlanetClass) float64 {
	if k, ok := m.cfg.Planets.ClassMass[c]; ok && k > 0 {
		return k
	}
	return 1
}

type bhRole int

const (
	roleNone bhRole = iota
	roleCenter
	roleCompanion
)

// blackHolePlacement rolls whether this system carries a black hole and, if
// so, whether it replaces the center or one companion.
func (m *Materializer) blackHolePlacement(s *random.Stream, companions int) (bhRole, int) {
	cfg := m.cfg.BlackHoles
	if !cfg.Enabled || m.blackHole == nil {
		return roleNone, 0
	}
	if !s.Bool(cfg.SystemProbability) {
		return roleNone, 0
	}
	if companions > 0 && s.Bool(cfg.CompanionProbability) {
		return roleCompanion, s.Intn(companions)
	}
	return roleCenter, 0
}

func (l Ladder) distance(s *random.Stream, index int) float64 {
	d := l.Base*math.Pow(l.Growth, float64(index)) + s.Uniform(0, l.Jitter)
	return random.Finite(d, l.Base)
}

func (l Ladder) speed(distance float64) float64 {
	if distance <= 0 {
		return 0
	}
	return l.K / math.Sqrt(distance)
}

// siblingPhase spaces bodies that share an orbit index evenly; a lone body
// gets a random phase.
func siblingPhase(s *random.Stream, i, n int) float64 {
	if n <= 1 {
		return s.Uniform(0, 360)
	}
	return float64(i) * 360 / float64(n)
}

// shape adds optional eccentricity, inclination, rotation and center offset.
// Values that come out as exactly zero stay zero and are omitted on output.
func (m *Materializer) shape(s *random.Stream, o *celestial.Orbit) {
	cfg := m.cfg.Elliptical
	if !cfg.Enabled {
		return
	}
	sh := s.Fork("shape")
	if cfg.EccentricityMin != 0 || cfg.EccentricityMax != 0 {
		o.Eccentricity = random.Clamp(sh.Uniform(cfg.EccentricityMin, cfg.EccentricityMax), 0, 0.95)
	}
	if cfg.InclinationMax > 0 {
		o.Inclination = sh.Uniform(-cfg.InclinationMax, cfg.InclinationMax)
	}
	if cfg.RotationMax > 0 {
		o.Rotation = sh.Uniform(0, cfg.RotationMax)
	}
	if cfg.OffsetMax > 0 && o.Distance > 0 {
		x, y, z := sh.InSphere(cfg.OffsetMax * o.Distance)
		if x != 0 || y != 0 || z != 0 {
			o.Offset = &celestial.Vec3{X: x, Y: y, Z: z}
		}
	}
}
