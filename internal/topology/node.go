package topology

type NodeType string

const (
	NodeSystem  NodeType = "system"
	NodeStar    NodeType = "star"
	NodePlanet  NodeType = "planet"
	NodeMoon    NodeType = "moon"
	NodeSubmoon NodeType = "submoon"
)

// Node is an ephemeral topology node. Each node is created once with its
// single owning parent, so the tree is cycle-free by construction.
type Node struct {
	ID       int
	Type     NodeType
	Parent   *Node
	Children []*Node
	Depth    int

	// generation depth: how many node creations led to this node. Depth never
	// exceeds it because planets and stars re-attach to the system node.
	gen int
}

// Walk visits n and its descendants depth-first in child order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// ChildrenOf returns the direct children of the given type in creation order.
func (n *Node) ChildrenOf(t NodeType) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) MaxDepth() int {
	max := n.Depth
	for _, c := range n.Children {
		if d := c.MaxDepth(); d > max {
			max = d
		}
	}
	return max
}

func (n *Node) Count(t NodeType) int {
	total := 0
	n.Walk(func(c *Node) {
		if c.Type == t {
			total++
		}
	})
	return total
}

// nearest returns n or its closest ancestor of type t.
func (n *Node) nearest(t NodeType) *Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == t {
			return cur
		}
	}
	return nil
}

// Stats records expansion outcomes. Empty expansions and missing rules both
// add no children; they are only told apart here.
type Stats struct {
	Nodes         map[NodeType]int `json:"nodes"`
	EmptyRules    int              `json:"emptyRules"`
	MissingRules  int              `json:"missingRules"`
	DepthCapped   int              `json:"depthCapped"`
	Orphaned      int              `json:"orphaned"`
	Recursion     int              `json:"recursion"`
	BudgetReached bool             `json:"budgetReached"`
}

func newStats() Stats {
	return Stats{Nodes: make(map[NodeType]int)}
}

// Flatten renders the stats as counters for snapshot metadata.
func (s Stats) Flatten() map[string]int {
	out := map[string]int{
		"emptyRules":   s.EmptyRules,
		"missingRules": s.MissingRules,
		"depthCapped":  s.DepthCapped,
		"orphaned":     s.Orphaned,
		"recursion":    s.Recursion,
	}
	for t, n := range s.Nodes {
		out[string(t)] = n
	}
	if s.BudgetReached {
		out["budgetReached"] = 1
	}
	return out
}

// Tree is the result of one expansion.
type Tree struct {
	Root  *Node
	Stats Stats
}

type builder struct {
	nextID   int
	maxNodes int
	work     int
	maxWork  int
	stats    Stats
}

func newBuilder(maxNodes int) *builder {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	return &builder{maxNodes: maxNodes, maxWork: DefaultMaxWork, stats: newStats()}
}

// spend charges one unit of expansion work. It reports false once either
// budget is exhausted.
func (b *builder) spend() bool {
	if b.stats.BudgetReached {
		return false
	}
	if b.work >= b.maxWork {
		b.stats.BudgetReached = true
		return false
	}
	b.work++
	return true
}

func (b *builder) root() *Node {
	n := &Node{ID: b.nextID, Type: NodeSystem}
	b.nextID++
	b.stats.Nodes[NodeSystem]++
	return n
}

// add creates a node of type t under parent. It returns nil when the node
// budget is exhausted.
func (b *builder) add(t NodeType, parent *Node, gen int) *Node {
	if b.nextID >= b.maxNodes {
		b.stats.BudgetReached = true
		return nil
	}
	n := &Node{ID: b.nextID, Type: t, Parent: parent, Depth: parent.Depth + 1, gen: gen}
	b.nextID++
	parent.Children = append(parent.Children, n)
	b.stats.Nodes[t]++
	return n
}
