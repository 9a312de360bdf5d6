package celestial

import (
	"encoding/json"
	"sort"

	"starforge/internal/shared/errors"
)

// Metadata describes how a snapshot was produced.
type Metadata struct {
	Seed        string         `json:"seed"`
	SeedValue   uint64         `json:"seedValue,string"`
	Preset      string         `json:"preset"`
	Version     string         `json:"version"`
	SystemCount int            `json:"systemCount"`
	Topology    map[string]int `json:"topology,omitempty"`
}

// Universe is the generator output. It is plain data: every cross reference
// is an id, and the JSON encoding has stable key order.
type Universe struct {
	Bodies              map[string]*Body               `json:"bodies"`
	RootIDs             []string                       `json:"rootIds"`
	Groups              map[string]*Group              `json:"groups"`
	RootGroupIDs        []string                       `json:"rootGroupIds"`
	SmallBodyFields     map[string]*SmallBodyField     `json:"smallBodyFields"`
	ProtoplanetaryDisks map[string]*ProtoplanetaryDisk `json:"protoplanetaryDisks"`
	Nebulae             map[string]*Nebula             `json:"nebulae"`

	// Kept empty for clients of the older snapshot format.
	Belts     []json.RawMessage          `json:"belts"`
	Asteroids map[string]json.RawMessage `json:"asteroids"`

	Metadata Metadata `json:"metadata"`
}

func NewUniverse() *Universe {
	return &Universe{
		Bodies:              make(map[string]*Body),
		RootIDs:             []string{},
		Groups:              make(map[string]*Group),
		RootGroupIDs:        []string{},
		SmallBodyFields:     make(map[string]*SmallBodyField),
		ProtoplanetaryDisks: make(map[string]*ProtoplanetaryDisk),
		Nebulae:             make(map[string]*Nebula),
		Belts:               []json.RawMessage{},
		Asteroids:           make(map[string]json.RawMessage),
	}
}

// AddBody inserts a new body. Existing keys are never overwritten.
func (u *Universe) AddBody(b *Body) error {
	if _, exists := u.Bodies[b.ID]; exists {
		return errors.Conflictf("body %s already exists", b.ID)
	}
	u.Bodies[b.ID] = b
	return nil
}

// Attach sets child.ParentID and appends the child to the parent's children,
// keeping both directions of the edge in step.
func (u *Universe) Attach(childID, parentID string) error {
	child, ok := u.Bodies[childID]
	if !ok {
		return errors.NotFoundf("body %s not found", childID)
	}
	parent, ok := u.Bodies[parentID]
	if !ok {
		return errors.NotFoundf("parent body %s not found", parentID)
	}
	if child.ParentID != nil {
		return errors.Conflictf("body %s already has parent %s", childID, *child.ParentID)
	}
	id := parent.ID
	child.ParentID = &id
	parent.Children = append(parent.Children, child.ID)
	return nil
}

func (u *Universe) Body(id string) (*Body, bool) {
	b, ok := u.Bodies[id]
	return b, ok
}

// Host resolves a body that a secondary pass anchors to. A missing host is an
// orchestration bug, reported as not found.
func (u *Universe) Host(id string) (*Body, error) {
	b, ok := u.Bodies[id]
	if !ok {
		return nil, errors.NotFoundf("host body %s not found", id)
	}
	return b, nil
}

func (u *Universe) AddRoot(id string) {
	u.RootIDs = append(u.RootIDs, id)
}

func (u *Universe) AddField(f *SmallBodyField) error {
	if _, exists := u.SmallBodyFields[f.ID]; exists {
		return errors.Conflictf("small body field %s already exists", f.ID)
	}
	u.SmallBodyFields[f.ID] = f
	return nil
}

func (u *Universe) AddDisk(d *ProtoplanetaryDisk) error {
	if _, exists := u.ProtoplanetaryDisks[d.ID]; exists {
		return errors.Conflictf("protoplanetary disk %s already exists", d.ID)
	}
	u.ProtoplanetaryDisks[d.ID] = d
	return nil
}

func (u *Universe) AddNebula(n *Nebula) error {
	if _, exists := u.Nebulae[n.ID]; exists {
		return errors.Conflictf("nebula %s already exists", n.ID)
	}
	u.Nebulae[n.ID] = n
	return nil
}

func (u *Universe) AddGroup(g *Group) error {
	if _, exists := u.Groups[g.ID]; exists {
		return errors.Conflictf("group %s already exists", g.ID)
	}
	u.Groups[g.ID] = g
	return nil
}

// Merge moves everything from other into u. Any key collision fails the merge.
func (u *Universe) Merge(other *Universe) error {
	for _, id := range sortedKeys(other.Bodies) {
		if err := u.AddBody(other.Bodies[id]); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(other.SmallBodyFields) {
		if err := u.AddField(other.SmallBodyFields[id]); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(other.ProtoplanetaryDisks) {
		if err := u.AddDisk(other.ProtoplanetaryDisks[id]); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(other.Nebulae) {
		if err := u.AddNebula(other.Nebulae[id]); err != nil {
			return err
		}
	}
	for _, id := range sortedKeys(other.Groups) {
		if err := u.AddGroup(other.Groups[id]); err != nil {
			return err
		}
	}
	u.RootIDs = append(u.RootIDs, other.RootIDs...)
	u.RootGroupIDs = append(u.RootGroupIDs, other.RootGroupIDs...)
	return nil
}

// CountByType tallies bodies per body type.
func (u *Universe) CountByType() map[BodyType]int {
	counts := make(map[BodyType]int)
	for _, b := range u.Bodies {
		counts[b.Type()]++
	}
	return counts
}

// SystemBodies returns the ids of every body reachable from root through
// children, in breadth-first order.
func (u *Universe) SystemBodies(rootID string) []string {
	var out []string
	queue := []string{rootID}
	seen := map[string]bool{}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		b, ok := u.Bodies[id]
		if !ok {
			continue
		}
		out = append(out, id)
		queue = append(queue, b.Children...)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
