// Package grouping clusters generated systems into an optional, possibly
// nested, group hierarchy.
package grouping

import (
	"fmt"

	"starforge/internal/celestial"
	"starforge/internal/random"
)

type Config struct {
	Enabled            bool    `yaml:"enabled" json:"enabled"`
	MinGroups          int     `yaml:"minGroups" json:"minGroups"`
	MaxGroups          int     `yaml:"maxGroups" json:"maxGroups"`
	NestingProbability float64 `yaml:"nestingProbability" json:"nestingProbability"`
	Extent             float64 `yaml:"extent" json:"extent"`
	Flattening         float64 `yaml:"flattening" json:"flattening"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:            false,
		MinGroups:          1,
		MaxGroups:          4,
		NestingProbability: 0.2,
		Extent:             2500,
		Flattening:         0.3,
	}
}

var groupColors = []string{"#6fa8ff", "#ff9f6f", "#8cff9a", "#e28cff", "#ffe36f", "#6fffe9"}

var groupNames = []string{
	"Cygnus", "Perseus", "Draco", "Lyra", "Aquila", "Hydra", "Corvus",
	"Fornax", "Pavo", "Octans", "Vela", "Carina", "Lupus", "Ara",
}

// Assign groups every root system in u. Each root lands in exactly one group;
// an optional nesting pass then parents some groups under others without
// ever forming a cycle. Disabled grouping or an empty universe leaves u
// untouched.
func Assign(u *celestial.Universe, ids *celestial.IDSource, s *random.Stream, cfg Config) error {
	if !cfg.Enabled || len(u.RootIDs) == 0 {
		return nil
	}

	lo := max(cfg.MinGroups, 1)
	hi := max(cfg.MaxGroups, lo)
	n := random.ClampInt(s.IntRange(lo, hi), 1, len(u.RootIDs))

	extent := random.Clamp(random.Finite(cfg.Extent, 2500), 0, 1e9)
	flat := random.Clamp01(random.Finite(cfg.Flattening, 0.3))

	layout := s.Fork("layout")
	groups := make([]*celestial.Group, n)
	names := append([]string(nil), groupNames...)
	random.Shuffle(layout, names)
	for i := range groups {
		gs := layout.ForkIndex("group", i)
		name := names[i%len(names)]
		if i >= len(names) {
			name = fmt.Sprintf("%s %d", name, i/len(names)+1)
		}
		groups[i] = &celestial.Group{
			ID:       ids.Next("group"),
			Name:     name + " Cluster",
			Children: []celestial.GroupChild{},
			Position: celestial.Vec3{
				X: gs.Uniform(-extent, extent),
				Y: gs.Uniform(-extent, extent) * flat,
				Z: gs.Uniform(-extent, extent),
			},
			Color: random.Pick(gs, groupColors),
		}
	}

	members := s.Fork("members")
	for _, rootID := range u.RootIDs {
		g := groups[members.Intn(n)]
		g.Children = append(g.Children, celestial.GroupChild{Kind: celestial.GroupChildSystem, ID: rootID})
	}

	nest(groups, s.Fork("nesting"), cfg.NestingProbability)

	for _, g := range groups {
		if err := u.AddGroup(g); err != nil {
			return err
		}
	}
	for _, g := range groups {
		if g.ParentGroupID == nil {
			u.RootGroupIDs = append(u.RootGroupIDs, g.ID)
		}
	}
	return nil
}

// nest visits groups in order. With probability p an unparented group tries
// the other unparented groups in random order and takes the first one that is
// not its own descendant as parent; if none qualifies it stays a root.
func nest(groups []*celestial.Group, s *random.Stream, p float64) {
	byID := make(map[string]*celestial.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}

	for i, g := range groups {
		gs := s.ForkIndex("group", i)
		if g.ParentGroupID != nil || !gs.Bool(p) {
			continue
		}
		candidates := make([]*celestial.Group, 0, len(groups)-1)
		for _, c := range groups {
			if c != g && c.ParentGroupID == nil {
				candidates = append(candidates, c)
			}
		}
		random.Shuffle(gs, candidates)
		for _, c := range candidates {
			if descends(c, g.ID, byID) {
				continue
			}
			parentID := c.ID
			g.ParentGroupID = &parentID
			c.Children = append(c.Children, celestial.GroupChild{Kind: celestial.GroupChildGroup, ID: g.ID})
			break
		}
	}
}

// descends reports whether g has ancestorID on its parent chain, or is it.
func descends(g *celestial.Group, ancestorID string, byID map[string]*celestial.Group) bool {
	seen := map[string]bool{}
	for cur := g; cur != nil; {
		if cur.ID == ancestorID {
			return true
		}
		if seen[cur.ID] || cur.ParentGroupID == nil {
			return false
		}
		seen[cur.ID] = true
		cur = byID[*cur.ParentGroupID]
	}
	return false
}
