package grouping

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/celestial"
	"starforge/internal/random"
)

func universeWithRoots(t testing.TB, n int) *celestial.Universe {
	u := celestial.NewUniverse()
	for i := range n {
		id := fmt.Sprintf("star-%d", i)
		if err := u.AddBody(celestial.NewBody(id, id, &celestial.StarDetails{SpectralClass: "G"})); err != nil {
			t.Fatal(err)
		}
		u.AddRoot(id)
	}
	return u
}

// membership counts how often each root system appears in any group.
func membership(u *celestial.Universe) map[string]int {
	out := map[string]int{}
	for _, g := range u.Groups {
		for _, c := range g.Children {
			if c.Kind == celestial.GroupChildSystem {
				out[c.ID]++
			}
		}
	}
	return out
}

func TestAssignDisabled(t *testing.T) {
	u := universeWithRoots(t, 3)
	cfg := DefaultConfig()
	require.NoError(t, Assign(u, celestial.NewIDSource(1, "shared"), random.New(1), cfg))
	assert.Empty(t, u.Groups)
	assert.Empty(t, u.RootGroupIDs)
}

func TestAssignEmptyUniverse(t *testing.T) {
	u := celestial.NewUniverse()
	cfg := DefaultConfig()
	cfg.Enabled = true
	require.NoError(t, Assign(u, celestial.NewIDSource(1, "shared"), random.New(1), cfg))
	assert.Empty(t, u.Groups)
}

func TestGroupCountNeverExceedsSystems(t *testing.T) {
	u := universeWithRoots(t, 2)
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.MinGroups, cfg.MaxGroups = 5, 10
	require.NoError(t, Assign(u, celestial.NewIDSource(1, "shared"), random.New(1), cfg))
	assert.Len(t, u.Groups, 2)
}

func TestFullNestingLeavesOneRootGroup(t *testing.T) {
	u := universeWithRoots(t, 8)
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.MinGroups, cfg.MaxGroups = 4, 4
	cfg.NestingProbability = 1
	require.NoError(t, Assign(u, celestial.NewIDSource(1, "shared"), random.New(1), cfg))

	assert.Len(t, u.Groups, 4)
	assert.Len(t, u.RootGroupIDs, 1)
	assert.Empty(t, celestial.Verify(u))
}

// A group only gains a parent during its own visit, so a parent that ends up
// parented itself must have been visited after the child chose it.
func TestNestingPicksUnparentedParents(t *testing.T) {
	for seed := range uint64(50) {
		groups := make([]*celestial.Group, 4)
		index := map[string]int{}
		for i := range groups {
			id := fmt.Sprintf("group-%d", i)
			groups[i] = &celestial.Group{ID: id, Children: []celestial.GroupChild{}}
			index[id] = i
		}
		nest(groups, random.New(seed), 1)

		roots := 0
		for i, g := range groups {
			if g.ParentGroupID == nil {
				roots++
				continue
			}
			parent := groups[index[*g.ParentGroupID]]
			if parent.ParentGroupID != nil {
				assert.Greater(t, index[parent.ID], i, "seed %d: %s nested under already parented %s", seed, g.ID, parent.ID)
			}
		}
		assert.Equal(t, 1, roots, "seed %d", seed)
	}
}

func TestAssignDeterministic(t *testing.T) {
	run := func() []string {
		u := universeWithRoots(t, 6)
		cfg := DefaultConfig()
		cfg.Enabled = true
		cfg.NestingProbability = 0.5
		require.NoError(t, Assign(u, celestial.NewIDSource(9, "shared"), random.New(9), cfg))
		var out []string
		for _, id := range u.RootGroupIDs {
			g := u.Groups[id]
			out = append(out, fmt.Sprintf("%s:%s:%d", g.ID, g.Name, len(g.Children)))
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestAssignProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every system lands in exactly one group and nesting stays acyclic", prop.ForAll(
		func(seed uint64, systems int, nesting float64) bool {
			u := universeWithRoots(t, systems)
			cfg := DefaultConfig()
			cfg.Enabled = true
			cfg.MaxGroups = 6
			cfg.NestingProbability = nesting
			if err := Assign(u, celestial.NewIDSource(seed, "shared"), random.New(seed), cfg); err != nil {
				return false
			}

			counts := membership(u)
			if len(counts) != systems {
				return false
			}
			for _, n := range counts {
				if n != 1 {
					return false
				}
			}
			roots := 0
			for _, g := range u.Groups {
				if g.ParentGroupID == nil {
					roots++
				}
			}
			return roots == len(u.RootGroupIDs) && roots > 0 && len(celestial.Verify(u)) == 0
		},
		gen.UInt64(),
		gen.IntRange(1, 24),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
