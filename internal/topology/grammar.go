package topology

import (
	"fmt"
	"sort"

	"starforge/internal/random"
	"starforge/internal/shared/errors"
)

const (
	// DefaultRepeatP is the geometric parameter for rules without a repeat.
	DefaultRepeatP = 0.5
	// DefaultMaxCount bounds one repeat when a rule sets no maxCount.
	DefaultMaxCount = 32
	// DefaultMaxNodes bounds the whole tree.
	DefaultMaxNodes = 4096
	// DefaultMaxWork bounds symbol applications per expansion, including
	// those that end up creating nothing.
	DefaultMaxWork = 16 * DefaultMaxNodes
)

type RepeatKind string

const (
	RepeatGeometric RepeatKind = "geometric"
	RepeatFixed     RepeatKind = "fixed"
	RepeatUniform   RepeatKind = "uniform"
	RepeatPoisson   RepeatKind = "poisson"
)

type Repeat struct {
	Kind   RepeatKind `yaml:"kind" json:"kind"`
	P      float64    `yaml:"p,omitempty" json:"p,omitempty"`
	N      int        `yaml:"n,omitempty" json:"n,omitempty"`
	Min    int        `yaml:"min,omitempty" json:"min,omitempty"`
	Max    int        `yaml:"max,omitempty" json:"max,omitempty"`
	Lambda float64    `yaml:"lambda,omitempty" json:"lambda,omitempty"`
}

func (r Repeat) sample(s *random.Stream) int {
	switch r.Kind {
	case RepeatFixed:
		return r.N
	case RepeatUniform:
		return s.IntRange(r.Min, r.Max)
	case RepeatPoisson:
		return s.Poisson(r.Lambda)
	default:
		return s.Geometric(r.P)
	}
}

// Rule is one weighted alternative for a symbol. An empty Expand is a valid
// terminal outcome.
type Rule struct {
	Weight   float64  `yaml:"weight" json:"weight"`
	Expand   []string `yaml:"expand" json:"expand"`
	Repeat   *Repeat  `yaml:"repeat,omitempty" json:"repeat,omitempty"`
	MinCount *int     `yaml:"minCount,omitempty" json:"minCount,omitempty"`
	MaxCount *int     `yaml:"maxCount,omitempty" json:"maxCount,omitempty"`
}

type Grammar struct {
	Name        string            `yaml:"name" json:"name"`
	Axiom       []string          `yaml:"axiom" json:"axiom"`
	Productions map[string][]Rule `yaml:"productions" json:"productions"`
}

// terminalTypes maps the symbols that create nodes.
var terminalTypes = map[string]NodeType{
	"star":    NodeStar,
	"planet":  NodePlanet,
	"moon":    NodeMoon,
	"submoon": NodeSubmoon,
}

// Validate rejects grammars that reference undefined symbols or carry rules
// that cannot be sampled.
func (g *Grammar) Validate() error {
	check := func(sym, where string) error {
		if _, ok := terminalTypes[sym]; ok {
			return nil
		}
		if _, ok := g.Productions[sym]; ok {
			return nil
		}
		return errors.Validationf("grammar %q: %s references undefined symbol %q", g.Name, where, sym)
	}

	for _, sym := range g.Axiom {
		if err := check(sym, "axiom"); err != nil {
			return err
		}
	}

	symbols := make([]string, 0, len(g.Productions))
	for sym := range g.Productions {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		for i, rule := range g.Productions[sym] {
			where := fmt.Sprintf("rule %s[%d]", sym, i)
			if !(rule.Weight > 0) {
				return errors.Validationf("grammar %q: %s has non-positive weight", g.Name, where)
			}
			if rule.MinCount != nil && rule.MaxCount != nil && *rule.MinCount > *rule.MaxCount {
				return errors.Validationf("grammar %q: %s has minCount above maxCount", g.Name, where)
			}
			if rule.Repeat != nil {
				switch rule.Repeat.Kind {
				case RepeatGeometric, RepeatFixed, RepeatUniform, RepeatPoisson:
				default:
					return errors.Validationf("grammar %q: %s has unknown repeat kind %q", g.Name, where, rule.Repeat.Kind)
				}
			}
			for _, target := range rule.Expand {
				if err := check(target, where); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Engine is the general grammar interpreter.
type Engine struct {
	grammar  Grammar
	maxNodes int
	maxWork  int
}

func NewEngine(g Grammar) (*Engine, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Engine{grammar: g, maxNodes: DefaultMaxNodes, maxWork: DefaultMaxWork}, nil
}

func (e *Engine) Name() string {
	return e.grammar.Name
}

// Expand grows a system tree from the axiom. No node is created deeper than
// maxDepth generations below the root; maxDepth <= 0 yields the bare root.
func (e *Engine) Expand(s *random.Stream, maxDepth int) (*Tree, error) {
	x := &expansion{
		grammar:  &e.grammar,
		stream:   s,
		maxDepth: maxDepth,
		b:        newBuilder(e.maxNodes),
	}
	if e.maxWork > 0 {
		x.b.maxWork = e.maxWork
	}
	root := x.b.root()
	active := map[string]bool{}
	for _, sym := range e.grammar.Axiom {
		if err := x.apply(sym, root, active); err != nil {
			return nil, err
		}
	}
	return &Tree{Root: root, Stats: x.b.stats}, nil
}

type expansion struct {
	grammar  *Grammar
	stream   *random.Stream
	maxDepth int
	b        *builder
}

// apply expands symbol in the context of ctx. active holds the container
// symbols already being expanded for ctx, which stops container cycles that
// would otherwise recurse without creating nodes.
func (x *expansion) apply(symbol string, ctx *Node, active map[string]bool) error {
	if !x.b.spend() {
		return nil
	}
	if t, ok := terminalTypes[symbol]; ok {
		return x.create(symbol, t, ctx)
	}

	rules, ok := x.grammar.Productions[symbol]
	if !ok {
		return errors.Validationf("grammar %q: undefined symbol %q", x.grammar.Name, symbol)
	}
	if active[symbol] {
		x.b.stats.Recursion++
		return nil
	}
	active[symbol] = true
	defer delete(active, symbol)

	rule := x.choose(rules)
	count := x.count(rule, true)
	return x.expandRule(rule, count, ctx, active)
}

func (x *expansion) create(symbol string, t NodeType, ctx *Node) error {
	gen := ctx.gen + 1
	if gen > x.maxDepth {
		x.b.stats.DepthCapped++
		return nil
	}

	parent := attachTarget(t, ctx)
	if parent == nil {
		x.b.stats.Orphaned++
		return nil
	}

	node := x.b.add(t, parent, gen)
	if node == nil {
		return nil
	}

	rules, ok := x.grammar.Productions[symbol]
	if !ok || len(rules) == 0 {
		x.b.stats.MissingRules++
		return nil
	}
	rule := x.choose(rules)
	return x.expandRule(rule, x.count(rule, false), node, map[string]bool{})
}

func (x *expansion) expandRule(rule Rule, count int, ctx *Node, active map[string]bool) error {
	if len(rule.Expand) == 0 {
		x.b.stats.EmptyRules++
		return nil
	}
	for i := 0; i < count; i++ {
		for _, sym := range rule.Expand {
			if err := x.apply(sym, ctx, active); err != nil {
				return err
			}
		}
	}
	return nil
}

// choose skips the draw when only one rule exists. Stored regression vectors
// depend on that draw count.
func (x *expansion) choose(rules []Rule) Rule {
	if len(rules) == 1 {
		return rules[0]
	}
	weights := make([]float64, len(rules))
	for i, r := range rules {
		weights[i] = r.Weight
	}
	return random.Weighted(x.stream, rules, weights)
}

// count samples a repeat and clamps it. Containers default to a geometric
// repeat; terminal productions default to a single application.
func (x *expansion) count(rule Rule, container bool) int {
	var n int
	switch {
	case rule.Repeat != nil:
		n = rule.Repeat.sample(x.stream)
	case container:
		n = x.stream.Geometric(DefaultRepeatP)
	default:
		n = 1
	}

	lo, hi := 0, DefaultMaxCount
	if rule.MinCount != nil {
		lo = *rule.MinCount
	}
	if rule.MaxCount != nil {
		hi = *rule.MaxCount
	}
	return random.ClampInt(n, lo, hi)
}

// attachTarget places stars and planets on the system node regardless of
// which node spawned them; the center star is picked later by mass. Moons
// attach to their planet and submoons to their moon.
func attachTarget(t NodeType, ctx *Node) *Node {
	switch t {
	case NodeStar, NodePlanet:
		return ctx.nearest(NodeSystem)
	case NodeMoon:
		return ctx.nearest(NodePlanet)
	case NodeSubmoon:
		return ctx.nearest(NodeMoon)
	}
	return nil
}
