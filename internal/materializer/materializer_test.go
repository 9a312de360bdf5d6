package materializer

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/celestial"
	"starforge/internal/random"
	"starforge/internal/topology"
)

// buildTree returns a system node with the given star count and one planet
// per entry of moons, each carrying that many moons. The first moon of the
// first planet gets one submoon.
func buildTree(stars int, moons ...int) *topology.Tree {
	root := &topology.Node{Type: topology.NodeSystem}
	add := func(t topology.NodeType, parent *topology.Node) *topology.Node {
		n := &topology.Node{Type: t, Parent: parent, Depth: parent.Depth + 1}
		parent.Children = append(parent.Children, n)
		return n
	}
	for range stars {
		add(topology.NodeStar, root)
	}
	for i, count := range moons {
		p := add(topology.NodePlanet, root)
		for j := range count {
			m := add(topology.NodeMoon, p)
			if i == 0 && j == 0 {
				add(topology.NodeSubmoon, m)
			}
		}
	}
	return &topology.Tree{Root: root}
}

func heavyBlackHole(_ *random.Stream, id, name string) *celestial.Body {
	b := celestial.NewBody(id, name, &celestial.BlackHoleDetails{Class: "stellar"})
	b.Mass = 1e12
	b.Radius = 1
	return b
}

func materialize(t *testing.T, cfg Config, bh BlackHoleFactory, tree *topology.Tree, seed uint64) (*System, *celestial.Universe) {
	t.Helper()
	m := New(cfg, bh, slog.New(slog.DiscardHandler))
	u := celestial.NewUniverse()
	sys, err := m.Materialize(tree, random.New(seed), celestial.NewIDSource(seed, "system"), u)
	require.NoError(t, err)
	return sys, u
}

func TestMaterializeStructure(t *testing.T) {
	sys, u := materialize(t, DefaultConfig(), nil, buildTree(3, 2, 0, 1, 0), 42)

	assert.Empty(t, celestial.Verify(u))
	assert.Equal(t, []string{sys.RootID}, u.RootIDs)
	require.Len(t, sys.StarIDs, 3)
	assert.Equal(t, 2, sys.CompanionCount())
	assert.Len(t, sys.PlanetIDs, 4)

	center := u.Bodies[sys.RootID]
	assert.Nil(t, center.ParentID)
	assert.Zero(t, center.Orbit.Distance)

	for i := 1; i < len(sys.StarIDs); i++ {
		prev, cur := u.Bodies[sys.StarIDs[i-1]], u.Bodies[sys.StarIDs[i]]
		assert.GreaterOrEqual(t, prev.Mass, cur.Mass, "stars are ordered by mass")
		require.NotNil(t, cur.ParentID)
		assert.Equal(t, sys.RootID, *cur.ParentID)
	}

	var last float64
	for _, id := range sys.PlanetIDs {
		p := u.Bodies[id]
		require.NotNil(t, p.ParentID)
		assert.Equal(t, sys.RootID, *p.ParentID)
		assert.Greater(t, p.Orbit.Distance, last, "planet slots move outward")
		assert.Greater(t, p.Orbit.Speed, 0.0)
		last = p.Orbit.Distance
	}

	first := sys.PlanetIDs[0]
	require.Len(t, sys.MoonIDs[first], 2)
	moon := sys.MoonIDs[first][0]
	require.Len(t, sys.SubmoonIDs[moon], 1)
	sub := u.Bodies[sys.SubmoonIDs[moon][0]]
	assert.Equal(t, moon, *sub.ParentID)
	assert.Equal(t, celestial.BodyTypeMoon, sub.Type())
}

func TestMaterializeDeterministic(t *testing.T) {
	tree := func() *topology.Tree { return buildTree(2, 3, 1) }
	_, a := materialize(t, DefaultConfig(), nil, tree(), 7)
	_, b := materialize(t, DefaultConfig(), nil, tree(), 7)
	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.JSONEq(t, string(ja), string(jb))

	_, c := materialize(t, DefaultConfig(), nil, tree(), 8)
	jc, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotEqual(t, string(ja), string(jc))
}

func TestStarlessTreeGetsAnchor(t *testing.T) {
	sys, u := materialize(t, DefaultConfig(), nil, buildTree(0, 1), 3)
	require.Len(t, sys.StarIDs, 1)
	assert.Equal(t, celestial.BodyTypeStar, u.Bodies[sys.RootID].Type())
	assert.Equal(t, sys.RootID, *u.Bodies[sys.PlanetIDs[0]].ParentID)
}

func TestBlackHoleCompanionNeverOutweighsCenter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlackHoles = BlackHoleConfig{Enabled: true, SystemProbability: 1, CompanionProbability: 1}

	for seed := uint64(0); seed < 20; seed++ {
		sys, u := materialize(t, cfg, heavyBlackHole, buildTree(3, 1), seed)
		require.NotEmpty(t, sys.BlackHoleID)
		assert.NotEqual(t, sys.RootID, sys.BlackHoleID)

		bh := u.Bodies[sys.BlackHoleID]
		details, ok := bh.BlackHole()
		require.True(t, ok)
		assert.True(t, details.ReplacesCompanion)
		assert.LessOrEqual(t, bh.Mass, u.Bodies[sys.RootID].Mass)
		assert.Empty(t, celestial.Verify(u))
	}
}

func TestBlackHoleCenterWithoutCompanions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlackHoles = BlackHoleConfig{Enabled: true, SystemProbability: 1, CompanionProbability: 1}

	sys, u := materialize(t, cfg, heavyBlackHole, buildTree(1, 2), 11)
	assert.Equal(t, sys.RootID, sys.BlackHoleID)
	assert.Equal(t, celestial.BodyTypeBlackHole, u.Bodies[sys.RootID].Type())
	assert.Equal(t, 1e12, u.Bodies[sys.RootID].Mass)
}

func TestBlackHolesOffWithoutFactory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlackHoles = BlackHoleConfig{Enabled: true, SystemProbability: 1}
	sys, _ := materialize(t, cfg, nil, buildTree(2, 1), 5)
	assert.Empty(t, sys.BlackHoleID)
}

func TestEllipticalOrbits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Elliptical.Enabled = true
	sys, u := materialize(t, cfg, nil, buildTree(1, 0, 0, 0), 9)

	for _, id := range sys.PlanetIDs {
		o := u.Bodies[id].Orbit
		assert.GreaterOrEqual(t, o.Eccentricity, 0.0)
		assert.LessOrEqual(t, o.Eccentricity, cfg.Elliptical.EccentricityMax)
		assert.LessOrEqual(t, o.Inclination, cfg.Elliptical.InclinationMax)
		assert.GreaterOrEqual(t, o.Inclination, -cfg.Elliptical.InclinationMax)
	}
}

func TestStarAppearance(t *testing.T) {
	tests := []struct {
		mass  float64
		class string
	}{
		{0.2, "M"},
		{0.6, "K"},
		{1.0, "G"},
		{1.2, "F"},
		{2.0, "A"},
		{10, "B"},
		{80, "O"},
	}
	for _, tt := range tests {
		class, color := starAppearance(tt.mass*1000, 1000)
		assert.Equal(t, tt.class, class, "mass %v", tt.mass)
		assert.NotEmpty(t, color)
	}
}

func TestNaming(t *testing.T) {
	assert.Equal(t, "a", letter(0))
	assert.Equal(t, "z", letter(25))
	assert.Equal(t, "aa", letter(26))
	assert.Equal(t, "I", roman(0))
	assert.Equal(t, "XVI", roman(15))
	assert.Equal(t, "XVI+", roman(40))
}
