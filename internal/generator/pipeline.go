package generator

import (
	"fmt"

	"starforge/internal/celestial"
	"starforge/internal/grouping"
	"starforge/internal/materializer"
	"starforge/internal/phenomena"
	"starforge/internal/random"
	"starforge/internal/topology"
)

// artifact names something a stage reads or produces.
type artifact string

const (
	artTree     artifact = "tree"
	artStars    artifact = "stars"
	artPlanets  artifact = "planets"
	artMoons    artifact = "moons"
	artFields   artifact = "fields"
	artRings    artifact = "rings"
	artComets   artifact = "comets"
	artLagrange artifact = "lagrange"
	artGroups   artifact = "groups"
	artDisks    artifact = "disks"
	artNebulae  artifact = "nebulae"
	artRogues   artifact = "rogues"
)

// state is what the stages of one run share. The fork label of every stage
// is its name, taken from root.
type state struct {
	cfg    Config
	root   *random.Stream
	ids    *celestial.IDSource
	u      *celestial.Universe
	interp topology.Interpreter
	mat    *materializer.Materializer
	tree   *topology.Tree
	system *materializer.System
}

func (st *state) target() phenomena.Target {
	return phenomena.Target{System: st.system, Universe: st.u, IDs: st.ids}
}

type stage struct {
	name     string
	requires []artifact
	provides []artifact
	enabled  func(Config) bool
	run      func(*state, *random.Stream) error
}

// pipeline is an ordered stage list whose dependencies were checked when it
// was built.
type pipeline []stage

// newPipeline fails when a stage requires an artifact that neither the
// initial inputs nor an earlier stage provide. Disabled stages still count as
// providers: their output may be empty but consumers may run after them.
func newPipeline(inputs []artifact, stages ...stage) (pipeline, error) {
	have := map[artifact]bool{}
	for _, in := range inputs {
		have[in] = true
	}
	seen := map[string]bool{}
	for _, st := range stages {
		if seen[st.name] {
			return nil, fmt.Errorf("stage %q declared twice", st.name)
		}
		seen[st.name] = true
		for _, req := range st.requires {
			if !have[req] {
				return nil, fmt.Errorf("stage %q requires %q before it is provided", st.name, req)
			}
		}
		for _, p := range st.provides {
			have[p] = true
		}
	}
	return pipeline(stages), nil
}

func always(Config) bool { return true }

// systemStages build and decorate one system.
func systemStages() []stage {
	return []stage{
		{
			name:     "topology",
			provides: []artifact{artTree},
			enabled:  always,
			run: func(st *state, s *random.Stream) error {
				tree, err := st.interp.Expand(s, st.cfg.MaxDepth)
				if err != nil {
					return err
				}
				st.tree = tree
				return nil
			},
		},
		{
			name:     "entities",
			requires: []artifact{artTree},
			provides: []artifact{artStars, artPlanets, artMoons},
			enabled:  always,
			run: func(st *state, s *random.Stream) error {
				sys, err := st.mat.Materialize(st.tree, s, st.ids, st.u)
				if err != nil {
					return err
				}
				st.system = sys
				return nil
			},
		},
		{
			name:     "belts",
			requires: []artifact{artStars, artPlanets},
			provides: []artifact{artFields},
			enabled:  func(c Config) bool { return c.Belts.Enabled },
			run: func(st *state, s *random.Stream) error {
				return phenomena.Belts(st.target(), s, st.cfg.Belts)
			},
		},
		{
			name:     "kuiper",
			requires: []artifact{artStars, artPlanets},
			provides: []artifact{artFields},
			enabled:  func(c Config) bool { return c.Kuiper.Enabled },
			run: func(st *state, s *random.Stream) error {
				return phenomena.Kuiper(st.target(), s, st.cfg.Kuiper)
			},
		},
		{
			name:     "rings",
			requires: []artifact{artPlanets},
			provides: []artifact{artRings},
			enabled:  func(c Config) bool { return c.Rings.Enabled },
			run: func(st *state, s *random.Stream) error {
				return phenomena.Rings(st.target(), s, st.cfg.Rings)
			},
		},
		{
			name:     "comets",
			requires: []artifact{artStars, artPlanets},
			provides: []artifact{artComets},
			enabled:  func(c Config) bool { return c.Comets.Enabled },
			run: func(st *state, s *random.Stream) error {
				return phenomena.Comets(st.target(), s, st.cfg.Comets)
			},
		},
		{
			name:     "lagrange",
			requires: []artifact{artStars, artPlanets, artMoons},
			provides: []artifact{artLagrange, artFields},
			enabled:  func(c Config) bool { return c.Lagrange.Enabled },
			run: func(st *state, s *random.Stream) error {
				return phenomena.Lagrange(st.target(), s, st.cfg.Lagrange)
			},
		},
	}
}

func groupStage() stage {
	return stage{
		name:     "groups",
		requires: []artifact{artStars},
		provides: []artifact{artGroups},
		enabled:  func(c Config) bool { return c.Groups.Enabled },
		run: func(st *state, s *random.Stream) error {
			return grouping.Assign(st.u, st.ids, s, st.cfg.Groups)
		},
	}
}

func diskStage() stage {
	return stage{
		name:     "disks",
		requires: []artifact{artStars, artGroups},
		provides: []artifact{artDisks},
		enabled:  func(c Config) bool { return c.Disks.Enabled },
		run: func(st *state, s *random.Stream) error {
			return phenomena.Disks(st.target(), s, st.cfg.Disks)
		},
	}
}

// sharedStages run once over the whole snapshot.
func sharedStages() []stage {
	return []stage{
		{
			name:     "nebulae",
			requires: []artifact{artGroups},
			provides: []artifact{artNebulae},
			enabled:  func(c Config) bool { return c.Nebulae.Enabled },
			run: func(st *state, s *random.Stream) error {
				return phenomena.Nebulae(st.u, st.ids, s, st.cfg.Nebulae)
			},
		},
		{
			name:     "rogue",
			requires: []artifact{artGroups},
			provides: []artifact{artRogues},
			enabled:  func(c Config) bool { return c.Rogue.Enabled },
			run: func(st *state, s *random.Stream) error {
				return phenomena.Rogues(st.u, st.ids, s, st.cfg.Rogue)
			},
		},
	}
}

// singlePipeline is the full order for one system: topology, entities,
// belts, kuiper, rings, comets, lagrange, groups, disks, nebulae, rogue.
func singlePipeline() (pipeline, error) {
	stages := append(systemStages(), groupStage(), diskStage())
	stages = append(stages, sharedStages()...)
	return newPipeline(nil, stages...)
}

// memberPipeline builds one system inside a multi-system run. Grouping and
// the shared passes are left to the merged snapshot; disks only need the
// system center, so they run here.
func memberPipeline() (pipeline, error) {
	disk := diskStage()
	disk.requires = []artifact{artStars}
	return newPipeline(nil, append(systemStages(), disk)...)
}

// mergedPipeline runs over the merged multi-system snapshot, whose systems
// already exist.
func mergedPipeline() (pipeline, error) {
	stages := append([]stage{groupStage()}, sharedStages()...)
	return newPipeline([]artifact{artStars, artPlanets, artMoons}, stages...)
}
