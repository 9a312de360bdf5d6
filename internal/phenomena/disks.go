package phenomena

import (
	"starforge/internal/celestial"
	"starforge/internal/random"
)

type DiskConfig struct {
	Enabled       bool       `yaml:"enabled" json:"enabled"`
	Probability   float64    `yaml:"probability" json:"probability"`
	InnerRadius   Range      `yaml:"innerRadius" json:"innerRadius"`
	OuterFactor   Range      `yaml:"outerFactor" json:"outerFactor"`
	Thickness     Range      `yaml:"thickness" json:"thickness"`
	Particles     CountRange `yaml:"particles" json:"particles"`
	Density       Range      `yaml:"density" json:"density"`
	Brightness    Range      `yaml:"brightness" json:"brightness"`
	RotationSpeed Range      `yaml:"rotationSpeed" json:"rotationSpeed"`
}

func DefaultDiskConfig() DiskConfig {
	return DiskConfig{
		Enabled:       false,
		Probability:   0.25,
		InnerRadius:   Range{Min: 8, Max: 20},
		OuterFactor:   Range{Min: 4, Max: 10},
		Thickness:     Range{Min: 1, Max: 6},
		Particles:     CountRange{P: 0.0003, Min: 2000, Max: 12000},
		Density:       Range{Min: 0.3, Max: 0.9},
		Brightness:    Range{Min: 0.4, Max: 1},
		RotationSpeed: Range{Min: 0.05, Max: 0.3},
	}
}

var diskPalettes = [][]string{
	{"#ffcf8a", "#e38b4f", "#7a3b2e"},
	{"#ffe8c2", "#d9a066", "#6b4a3a"},
	{"#f6d6ff", "#b57edc", "#4b2e5a"},
	{"#fff2d1", "#ffb56c", "#a0522d"},
}

// Disks rolls once per system for a protoplanetary disk around the center.
// Black-hole centers carry their own accretion disk and are skipped.
func Disks(t Target, s *random.Stream, cfg DiskConfig) error {
	host, err := t.center()
	if err != nil {
		return err
	}
	if host.Type() != celestial.BodyTypeStar {
		return nil
	}
	if !s.Bool(cfg.Probability) {
		return nil
	}

	inner := safe(cfg.InnerRadius.sample(s), 10, host.Radius, 1e6)
	outer := inner * safe(cfg.OuterFactor.sample(s), 5, 1.1, 100)

	palette := random.Pick(s, diskPalettes)
	disk := &celestial.ProtoplanetaryDisk{
		ID:            t.IDs.Next("disk"),
		HostID:        host.ID,
		InnerRadius:   inner,
		OuterRadius:   outer,
		Thickness:     safe(cfg.Thickness.sample(s), 2, 0, outer),
		ParticleCount: cfg.Particles.sample(s),
		Density:       safe(cfg.Density.sample(s), 0.5, 0, 1),
		Brightness:    safe(cfg.Brightness.sample(s), 0.7, 0, 1),
		RotationSpeed: safe(cfg.RotationSpeed.sample(s), 0.1, 0, 10),
		Palette:       append([]string(nil), palette...),
		Seed:          s.Uint32(),
	}
	return t.Universe.AddDisk(disk)
}
