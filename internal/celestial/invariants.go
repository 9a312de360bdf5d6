package celestial

import "fmt"

// Verify checks the structural guarantees of a generated universe. Parent ids
// must resolve and children must mirror them exactly. Parent chains of bodies
// and of groups must be acyclic. Listed roots must exist without a parent, and
// no stellar companion may outmass a star at the center of its system. A
// black-hole center is exempt from the mass rule. It returns every violation
// found.
func Verify(u *Universe) []error {
	var problems []error

	for id, b := range u.Bodies {
		if b.ParentID != nil {
			parent, ok := u.Bodies[*b.ParentID]
			if !ok {
				problems = append(problems, fmt.Errorf("body %s: parent %s does not exist", id, *b.ParentID))
			} else if !contains(parent.Children, id) {
				problems = append(problems, fmt.Errorf("body %s: missing from children of %s", id, parent.ID))
			}
		}
		for _, childID := range b.Children {
			child, ok := u.Bodies[childID]
			if !ok {
				problems = append(problems, fmt.Errorf("body %s: child %s does not exist", id, childID))
				continue
			}
			if child.ParentID == nil || *child.ParentID != id {
				problems = append(problems, fmt.Errorf("body %s: child %s does not point back", id, childID))
			}
		}
		if cyclic(id, func(cur string) (string, bool) {
			body, ok := u.Bodies[cur]
			if !ok || body.ParentID == nil {
				return "", false
			}
			return *body.ParentID, true
		}) {
			problems = append(problems, fmt.Errorf("body %s: parent chain has a cycle", id))
		}
	}

	for _, rootID := range u.RootIDs {
		root, ok := u.Bodies[rootID]
		if !ok || root.ParentID != nil {
			problems = append(problems, fmt.Errorf("root %s is missing or has a parent", rootID))
			continue
		}
		if root.Type() == BodyTypeBlackHole {
			continue
		}
		for _, childID := range root.Children {
			if c, ok := u.Bodies[childID]; ok && c.IsStellar() && c.Mass > root.Mass {
				problems = append(problems, fmt.Errorf("root %s: companion %s outmasses it", rootID, childID))
			}
		}
	}

	for id := range u.Groups {
		if cyclic(id, func(cur string) (string, bool) {
			g, ok := u.Groups[cur]
			if !ok || g.ParentGroupID == nil {
				return "", false
			}
			return *g.ParentGroupID, true
		}) {
			problems = append(problems, fmt.Errorf("group %s: parent chain has a cycle", id))
		}
	}

	return problems
}

func cyclic(start string, parent func(string) (string, bool)) bool {
	seen := map[string]bool{start: true}
	cur := start
	for {
		next, ok := parent(cur)
		if !ok {
			return false
		}
		if seen[next] {
			return true
		}
		seen[next] = true
		cur = next
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
