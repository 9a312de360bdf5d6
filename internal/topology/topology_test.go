package topology

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/random"
	"starforge/internal/shared/errors"
)

func shape(n *Node) string {
	var b strings.Builder
	n.Walk(func(c *Node) {
		fmt.Fprintf(&b, "%d:%s:%d;", c.ID, c.Type, c.Depth)
	})
	return b.String()
}

func intPtr(n int) *int { return &n }

func TestPresetsRegistered(t *testing.T) {
	ids := Presets()
	require.NotEmpty(t, ids)
	assert.Equal(t, PresetClassic, ids[0])
	for _, id := range []string{"binary", "deep", "dense", "sparse"} {
		assert.Contains(t, ids, id)
	}

	for _, id := range ids {
		interp, err := ForPreset(id)
		require.NoError(t, err, id)
		assert.Equal(t, id, interp.Name())
	}

	_, err := ForPreset("spiral")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestUndefinedSymbolRejected(t *testing.T) {
	tests := []struct {
		name    string
		grammar Grammar
	}{
		{
			name:    "axiom",
			grammar: Grammar{Name: "bad", Axiom: []string{"nebula"}},
		},
		{
			name: "production",
			grammar: Grammar{
				Name:  "bad",
				Axiom: []string{"planets"},
				Productions: map[string][]Rule{
					"planets": {{Weight: 1, Expand: []string{"planet", "asteroid"}}},
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.grammar)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
			assert.Contains(t, err.Error(), "undefined symbol")
		})
	}
}

func TestGrammarValidation(t *testing.T) {
	_, err := NewEngine(Grammar{
		Axiom:       []string{"p"},
		Productions: map[string][]Rule{"p": {{Weight: 0, Expand: []string{"planet"}}}},
	})
	assert.Error(t, err)

	_, err = NewEngine(Grammar{
		Axiom:       []string{"p"},
		Productions: map[string][]Rule{"p": {{Weight: 1, Expand: []string{"planet"}, MinCount: intPtr(3), MaxCount: intPtr(1)}}},
	})
	assert.Error(t, err)

	_, err = NewEngine(Grammar{
		Axiom:       []string{"p"},
		Productions: map[string][]Rule{"p": {{Weight: 1, Expand: []string{"planet"}, Repeat: &Repeat{Kind: "zipf"}}}},
	})
	assert.Error(t, err)
}

func TestParseGrammar(t *testing.T) {
	g, err := ParseGrammar([]byte(`
name: tiny
axiom: [star, planets]
productions:
  planets:
    - weight: 1
      expand: [planet]
      repeat: {kind: fixed, n: 2}
`))
	require.NoError(t, err)
	e, err := NewEngine(g)
	require.NoError(t, err)

	tree, err := e.Expand(random.New(1), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Root.Count(NodeStar))
	assert.Equal(t, 2, tree.Root.Count(NodePlanet))
	// One star and two planets, none with a production of their own.
	assert.Equal(t, 3, tree.Stats.MissingRules)

	_, err = ParseGrammar([]byte("axiom: [star"))
	assert.Error(t, err)
}

func TestCyclicGrammarTerminates(t *testing.T) {
	e, err := NewEngine(Grammar{
		Name:  "cycle",
		Axiom: []string{"a"},
		Productions: map[string][]Rule{
			"a":      {{Weight: 1, Expand: []string{"b"}, Repeat: &Repeat{Kind: RepeatFixed, N: 3}}},
			"b":      {{Weight: 1, Expand: []string{"a", "planet"}, Repeat: &Repeat{Kind: RepeatFixed, N: 2}}},
			"planet": {{Weight: 1, Expand: []string{"planet", "moon"}, Repeat: &Repeat{Kind: RepeatFixed, N: 2}}},
		},
	})
	require.NoError(t, err)

	tree, err := e.Expand(random.New(5), 4)
	require.NoError(t, err)
	assert.Positive(t, tree.Stats.Recursion)
	assert.Positive(t, tree.Stats.DepthCapped)
	tree.Root.Walk(func(n *Node) {
		assert.LessOrEqual(t, n.gen, 4)
	})
}

func TestNodeBudget(t *testing.T) {
	e, err := NewEngine(Grammar{
		Name:  "wide",
		Axiom: []string{"planets"},
		Productions: map[string][]Rule{
			"planets": {{Weight: 1, Expand: []string{"planet"}, Repeat: &Repeat{Kind: RepeatFixed, N: 32}}},
			"planet":  {{Weight: 1, Expand: []string{"moon"}, Repeat: &Repeat{Kind: RepeatFixed, N: 32}}},
			"moon":    {{Weight: 1, Expand: []string{"submoon"}, Repeat: &Repeat{Kind: RepeatFixed, N: 32}}},
		},
	})
	require.NoError(t, err)
	e.maxNodes = 100

	tree, err := e.Expand(random.New(1), 5)
	require.NoError(t, err)
	assert.True(t, tree.Stats.BudgetReached)
	count := 0
	tree.Root.Walk(func(*Node) { count++ })
	assert.LessOrEqual(t, count, 100)
}

func TestDeepContainerChainIsBounded(t *testing.T) {
	fan := func(next string) []Rule {
		return []Rule{{Weight: 1, Expand: []string{next}, Repeat: &Repeat{Kind: RepeatFixed, N: 32}}}
	}
	e, err := NewEngine(Grammar{
		Name:  "chain",
		Axiom: []string{"a"},
		Productions: map[string][]Rule{
			"a": fan("b"),
			"b": fan("c"),
			"c": fan("d"),
			"d": fan("e"),
			"e": fan("f"),
			"f": fan("g"),
			"g": fan("moon"),
		},
	})
	require.NoError(t, err)

	for _, depth := range []int{0, 1, 3} {
		tree, err := e.Expand(random.New(9), depth)
		require.NoError(t, err)
		assert.True(t, tree.Stats.BudgetReached, "depth %d", depth)
		assert.LessOrEqual(t, tree.Stats.DepthCapped+tree.Stats.Orphaned, DefaultMaxWork, "depth %d", depth)
		assert.LessOrEqual(t, tree.Root.MaxDepth(), max(depth, 0))
	}
}

func TestZeroDepthYieldsBareRoot(t *testing.T) {
	for _, id := range Presets() {
		interp, err := ForPreset(id)
		require.NoError(t, err)
		tree, err := interp.Expand(random.New(3), 0)
		require.NoError(t, err, id)
		assert.Empty(t, tree.Root.Children, id)
		assert.Equal(t, NodeSystem, tree.Root.Type)
	}
}

func checkAttachment(t *testing.T, root *Node) {
	t.Helper()
	root.Walk(func(n *Node) {
		switch n.Type {
		case NodeStar, NodePlanet:
			assert.Same(t, root, n.Parent)
		case NodeMoon:
			require.NotNil(t, n.Parent)
			assert.Equal(t, NodePlanet, n.Parent.Type)
		case NodeSubmoon:
			require.NotNil(t, n.Parent)
			assert.Equal(t, NodeMoon, n.Parent.Type)
		case NodeSystem:
			assert.Nil(t, n.Parent)
		}
	})
}

func TestPresetAttachmentAndDepth(t *testing.T) {
	for _, id := range Presets() {
		t.Run(id, func(t *testing.T) {
			interp, err := ForPreset(id)
			require.NoError(t, err)
			for seed := uint64(0); seed < 25; seed++ {
				tree, err := interp.Expand(random.New(seed), 3)
				require.NoError(t, err)
				checkAttachment(t, tree.Root)
				assert.LessOrEqual(t, tree.Root.MaxDepth(), 3)
			}
		})
	}
}

func TestExpansionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	presets := Presets()

	properties.Property("no node exceeds the generation cap", prop.ForAll(
		func(seed uint64, depth int, idx int) bool {
			interp, err := ForPreset(presets[idx%len(presets)])
			if err != nil {
				return false
			}
			tree, err := interp.Expand(random.New(seed), depth)
			if err != nil {
				return false
			}
			ok := true
			tree.Root.Walk(func(n *Node) {
				if n.gen > depth || n.Depth > depth {
					ok = false
				}
			})
			return ok
		},
		gen.UInt64(),
		gen.IntRange(0, 5),
		gen.IntRange(0, 100),
	))

	properties.Property("expansion is deterministic", prop.ForAll(
		func(seed uint64, idx int) bool {
			interp, err := ForPreset(presets[idx%len(presets)])
			if err != nil {
				return false
			}
			a, errA := interp.Expand(random.New(seed), 3)
			b, errB := interp.Expand(random.New(seed), 3)
			return errA == nil && errB == nil && shape(a.Root) == shape(b.Root)
		},
		gen.UInt64(),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}

func TestLegacyCounts(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		tree, err := Legacy{}.Expand(random.New(seed), 3)
		require.NoError(t, err)

		stars := tree.Root.ChildrenOf(NodeStar)
		planets := tree.Root.ChildrenOf(NodePlanet)
		assert.GreaterOrEqual(t, len(stars), 1)
		assert.LessOrEqual(t, len(stars), 3)
		assert.GreaterOrEqual(t, len(planets), 3)
		assert.LessOrEqual(t, len(planets), 9)
		for _, p := range planets {
			assert.LessOrEqual(t, len(p.ChildrenOf(NodeMoon)), 4)
		}
	}

	tree, err := Legacy{}.Expand(random.New(1), 1)
	require.NoError(t, err)
	assert.Zero(t, tree.Root.Count(NodeMoon))
}

func TestBinaryPresetHasTwoOrThreeStars(t *testing.T) {
	interp, err := ForPreset("binary")
	require.NoError(t, err)
	for seed := uint64(0); seed < 50; seed++ {
		tree, err := interp.Expand(random.New(seed), 3)
		require.NoError(t, err)
		n := tree.Root.Count(NodeStar)
		assert.GreaterOrEqual(t, n, 2)
		assert.LessOrEqual(t, n, 3)
	}
}

func TestStatsFlatten(t *testing.T) {
	s := newStats()
	s.Nodes[NodePlanet] = 4
	s.DepthCapped = 2
	s.BudgetReached = true

	flat := s.Flatten()
	assert.Equal(t, 4, flat["planet"])
	assert.Equal(t, 2, flat["depthCapped"])
	assert.Equal(t, 1, flat["budgetReached"])
}
