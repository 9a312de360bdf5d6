package generator

import (
	"gopkg.in/yaml.v3"

	"starforge/internal/grouping"
	"starforge/internal/materializer"
	"starforge/internal/phenomena"
	"starforge/internal/shared/errors"
	"starforge/internal/topology"
)

const (
	DefaultMaxDepth = 3
	MaxSystems      = 256
)

// Config is the internal generation configuration, one section per pass.
type Config struct {
	Preset   string            `yaml:"preset" json:"preset"`
	Grammar  *topology.Grammar `yaml:"grammar,omitempty" json:"grammar,omitempty"`
	MaxDepth int               `yaml:"maxDepth" json:"maxDepth"`

	Entities  materializer.Config       `yaml:"entities" json:"entities"`
	BlackHole phenomena.BlackHoleConfig `yaml:"blackHole" json:"blackHole"`
	Belts     phenomena.BeltConfig      `yaml:"belts" json:"belts"`
	Kuiper    phenomena.KuiperConfig    `yaml:"kuiper" json:"kuiper"`
	Rings     phenomena.RingConfig      `yaml:"rings" json:"rings"`
	Comets    phenomena.CometConfig     `yaml:"comets" json:"comets"`
	Lagrange  phenomena.LagrangeConfig  `yaml:"lagrange" json:"lagrange"`
	Groups    grouping.Config           `yaml:"groups" json:"groups"`
	Disks     phenomena.DiskConfig      `yaml:"disks" json:"disks"`
	Nebulae   phenomena.NebulaConfig    `yaml:"nebulae" json:"nebulae"`
	Rogue     phenomena.RogueConfig     `yaml:"rogue" json:"rogue"`
}

func DefaultConfig() Config {
	return Config{
		Preset:    topology.PresetClassic,
		MaxDepth:  DefaultMaxDepth,
		Entities:  materializer.DefaultConfig(),
		BlackHole: phenomena.DefaultBlackHoleConfig(),
		Belts:     phenomena.DefaultBeltConfig(),
		Kuiper:    phenomena.DefaultKuiperConfig(),
		Rings:     phenomena.DefaultRingConfig(),
		Comets:    phenomena.DefaultCometConfig(),
		Lagrange:  phenomena.DefaultLagrangeConfig(),
		Groups:    grouping.DefaultConfig(),
		Disks:     phenomena.DefaultDiskConfig(),
		Nebulae:   phenomena.DefaultNebulaConfig(),
		Rogue:     phenomena.DefaultRogueConfig(),
	}
}

// LoadConfig overlays a YAML document on the defaults. Keys the document does
// not mention keep their default values.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.WrapValidation("invalid generation config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports structural problems only. Out-of-range numbers are
// clamped during generation instead.
func (c Config) Validate() error {
	if c.Grammar != nil {
		return c.Grammar.Validate()
	}
	_, err := c.interpreter()
	return err
}

// interpreter resolves the topology strategy: an inline grammar wins over the
// preset id.
func (c Config) interpreter() (topology.Interpreter, error) {
	if c.Grammar != nil {
		return topology.NewEngine(*c.Grammar)
	}
	preset := c.Preset
	if preset == "" {
		preset = topology.PresetClassic
	}
	return topology.ForPreset(preset)
}

func (c Config) presetName() string {
	switch {
	case c.Grammar != nil && c.Grammar.Name != "":
		return c.Grammar.Name
	case c.Grammar != nil:
		return "custom"
	case c.Preset == "":
		return topology.PresetClassic
	}
	return c.Preset
}
