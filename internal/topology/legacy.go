package topology

import "starforge/internal/random"

// Legacy is the original hardcoded expansion behind the "classic" preset. Its
// draw sequence is frozen so stored classic universes regenerate unchanged;
// new topologies belong in grammars.
type Legacy struct{}

func (Legacy) Name() string {
	return PresetClassic
}

func (Legacy) Expand(s *random.Stream, maxDepth int) (*Tree, error) {
	b := newBuilder(DefaultMaxNodes)
	root := b.root()
	if maxDepth < 1 {
		b.stats.DepthCapped++
		return &Tree{Root: root, Stats: b.stats}, nil
	}

	starCount := 1 + random.ClampInt(s.Geometric(0.7), 0, 2)
	for i := 0; i < starCount; i++ {
		b.add(NodeStar, root, 1)
	}

	planetCount := 3 + s.Intn(7)
	for i := 0; i < planetCount; i++ {
		planet := b.add(NodePlanet, root, 1)
		if planet == nil {
			break
		}
		if maxDepth < 2 {
			b.stats.DepthCapped++
			continue
		}
		moons := random.ClampInt(s.Geometric(0.55), 0, 4)
		if moons == 0 {
			b.stats.EmptyRules++
		}
		for j := 0; j < moons; j++ {
			b.add(NodeMoon, planet, 2)
		}
	}
	return &Tree{Root: root, Stats: b.stats}, nil
}
