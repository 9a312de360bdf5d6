package generator

import (
	"starforge/internal/phenomena"
	"starforge/internal/shared/errors"
	"starforge/internal/shared/validation"
)

// Settings is the flat, user-facing configuration. Nil pointers and empty
// strings keep the defaults; ToConfig maps the rest onto Config.
type Settings struct {
	Preset   string `json:"preset" validate:"omitempty,max=64"`
	MaxDepth *int   `json:"maxDepth" validate:"omitempty,min=0,max=8"`

	EnableEllipticalOrbits bool     `json:"enableEllipticalOrbits"`
	MaxEccentricity        *float64 `json:"maxEccentricity" validate:"omitempty,min=0,max=0.95"`
	MaxInclination         *float64 `json:"maxInclination" validate:"omitempty,min=0,max=90"`

	EnableAsteroidBelts bool     `json:"enableAsteroidBelts"`
	BeltPlacementMode   string   `json:"beltPlacementMode" validate:"omitempty,oneof=betweenPlanets beyondOutermost both"`
	BeltProbability     *float64 `json:"beltProbability" validate:"omitempty,min=0,max=1"`
	BeltMinParticles    *int     `json:"beltMinParticles" validate:"omitempty,min=0,max=100000"`
	BeltMaxParticles    *int     `json:"beltMaxParticles" validate:"omitempty,min=0,max=100000"`

	EnableKuiperBelt  bool     `json:"enableKuiperBelt"`
	KuiperProbability *float64 `json:"kuiperProbability" validate:"omitempty,min=0,max=1"`

	EnablePlanetaryRings bool     `json:"enablePlanetaryRings"`
	RingProbability      *float64 `json:"ringProbability" validate:"omitempty,min=0,max=1"`

	EnableComets bool `json:"enableComets"`
	MaxComets    *int `json:"maxComets" validate:"omitempty,min=0,max=64"`

	EnableLagrangePoints  bool     `json:"enableLagrangePoints"`
	GenerateL1L2L3Markers bool     `json:"generateL1L2L3Markers"`
	GenerateL4L5Markers   *bool    `json:"generateL4L5Markers"`
	LagrangeForMoons      bool     `json:"lagrangeForMoons"`
	EnableTrojans         bool     `json:"enableTrojans"`
	TrojanProbability     *float64 `json:"trojanProbability" validate:"omitempty,min=0,max=1"`
	TrojanMinCount        *int     `json:"trojanMinCount" validate:"omitempty,min=0,max=10000"`
	TrojanMaxCount        *int     `json:"trojanMaxCount" validate:"omitempty,min=0,max=10000"`

	EnableProtoplanetaryDisks bool     `json:"enableProtoplanetaryDisks"`
	DiskProbability           *float64 `json:"diskProbability" validate:"omitempty,min=0,max=1"`

	EnableNebulae   bool   `json:"enableNebulae"`
	NebulaPlacement string `json:"nebulaPlacement" validate:"omitempty,oneof=scattered anchored mixed"`
	MaxNebulae      *int   `json:"maxNebulae" validate:"omitempty,min=0,max=32"`

	EnableRoguePlanets      bool `json:"enableRoguePlanets"`
	MaxRoguePlanets         *int `json:"maxRoguePlanets" validate:"omitempty,min=0,max=64"`
	RogueCurvedTrajectories bool `json:"rogueCurvedTrajectories"`

	EnableBlackHoles              bool     `json:"enableBlackHoles"`
	BlackHoleSystemProbability    *float64 `json:"blackHoleSystemProbability" validate:"omitempty,min=0,max=1"`
	BlackHoleCompanionProbability *float64 `json:"blackHoleCompanionProbability" validate:"omitempty,min=0,max=1"`
	BlackHoleShadowMode           string   `json:"blackHoleShadowMode" validate:"omitempty,oneof=physical cinematic"`

	EnableGroups            bool     `json:"enableGroups"`
	MaxGroups               *int     `json:"maxGroups" validate:"omitempty,min=1,max=64"`
	GroupNestingProbability *float64 `json:"groupNestingProbability" validate:"omitempty,min=0,max=1"`
}

// Validate checks field ranges and returns the first problem as a
// validation error.
func (s *Settings) Validate() error {
	if err := validation.Struct(s); err != nil {
		return err
	}
	if s.BeltMinParticles != nil && s.BeltMaxParticles != nil && *s.BeltMinParticles > *s.BeltMaxParticles {
		return errors.Validation("beltMinParticles: must not exceed beltMaxParticles")
	}
	if s.TrojanMinCount != nil && s.TrojanMaxCount != nil && *s.TrojanMinCount > *s.TrojanMaxCount {
		return errors.Validation("trojanMinCount: must not exceed trojanMaxCount")
	}
	return nil
}

// ToConfig validates the settings and maps them onto DefaultConfig.
func (s *Settings) ToConfig() (Config, error) {
	return s.Apply(DefaultConfig())
}

// Apply validates the settings and maps them onto base. Feature switches are
// always taken from the settings; tuning values only when present.
func (s *Settings) Apply(base Config) (Config, error) {
	if err := s.Validate(); err != nil {
		return Config{}, err
	}
	cfg := base
	if s.Preset != "" {
		cfg.Preset = s.Preset
	}
	if s.MaxDepth != nil {
		cfg.MaxDepth = *s.MaxDepth
	}

	cfg.Entities.Elliptical.Enabled = s.EnableEllipticalOrbits
	setFloat(&cfg.Entities.Elliptical.EccentricityMax, s.MaxEccentricity)
	setFloat(&cfg.Entities.Elliptical.InclinationMax, s.MaxInclination)

	cfg.Belts.Enabled = s.EnableAsteroidBelts
	if s.BeltPlacementMode != "" {
		cfg.Belts.Placement = phenomena.BeltPlacement(s.BeltPlacementMode)
	}
	setFloat(&cfg.Belts.Probability, s.BeltProbability)
	setInt(&cfg.Belts.Particles.Min, s.BeltMinParticles)
	setInt(&cfg.Belts.Particles.Max, s.BeltMaxParticles)
	if cfg.Belts.Particles.Max < cfg.Belts.Particles.Min {
		cfg.Belts.Particles.Max = cfg.Belts.Particles.Min
	}

	cfg.Kuiper.Enabled = s.EnableKuiperBelt
	setFloat(&cfg.Kuiper.Probability, s.KuiperProbability)

	cfg.Rings.Enabled = s.EnablePlanetaryRings
	if s.RingProbability != nil {
		// A flat probability replaces the mass and distance boosts.
		cfg.Rings.BaseProbability = *s.RingProbability
		cfg.Rings.MassBoost = 0
		cfg.Rings.DistanceBoost = 0
	}

	cfg.Comets.Enabled = s.EnableComets
	setInt(&cfg.Comets.Count.Max, s.MaxComets)

	cfg.Lagrange.Enabled = s.EnableLagrangePoints
	cfg.Lagrange.GenerateL1L2L3 = s.GenerateL1L2L3Markers
	if s.GenerateL4L5Markers != nil {
		cfg.Lagrange.GenerateL4L5 = *s.GenerateL4L5Markers
	}
	cfg.Lagrange.PlanetMoon = s.LagrangeForMoons
	cfg.Lagrange.EnableTrojans = s.EnableTrojans
	setFloat(&cfg.Lagrange.TrojanProbability, s.TrojanProbability)
	setInt(&cfg.Lagrange.TrojanCount.Min, s.TrojanMinCount)
	setInt(&cfg.Lagrange.TrojanCount.Max, s.TrojanMaxCount)
	if cfg.Lagrange.TrojanCount.Max < cfg.Lagrange.TrojanCount.Min {
		cfg.Lagrange.TrojanCount.Max = cfg.Lagrange.TrojanCount.Min
	}

	cfg.Disks.Enabled = s.EnableProtoplanetaryDisks
	setFloat(&cfg.Disks.Probability, s.DiskProbability)

	cfg.Nebulae.Enabled = s.EnableNebulae
	if s.NebulaPlacement != "" {
		cfg.Nebulae.Mode = phenomena.NebulaMode(s.NebulaPlacement)
	}
	setInt(&cfg.Nebulae.Count.Max, s.MaxNebulae)
	cfg.Nebulae.Count.Min = min(cfg.Nebulae.Count.Min, cfg.Nebulae.Count.Max)

	cfg.Rogue.Enabled = s.EnableRoguePlanets
	setInt(&cfg.Rogue.Count.Max, s.MaxRoguePlanets)
	cfg.Rogue.Count.Min = min(cfg.Rogue.Count.Min, cfg.Rogue.Count.Max)
	cfg.Rogue.CurvedTrajectories = s.RogueCurvedTrajectories

	cfg.Entities.BlackHoles.Enabled = s.EnableBlackHoles
	setFloat(&cfg.Entities.BlackHoles.SystemProbability, s.BlackHoleSystemProbability)
	setFloat(&cfg.Entities.BlackHoles.CompanionProbability, s.BlackHoleCompanionProbability)
	if s.BlackHoleShadowMode != "" {
		cfg.BlackHole.ShadowMode = phenomena.ShadowMode(s.BlackHoleShadowMode)
	}

	cfg.Groups.Enabled = s.EnableGroups
	setInt(&cfg.Groups.MaxGroups, s.MaxGroups)
	cfg.Groups.MinGroups = min(cfg.Groups.MinGroups, cfg.Groups.MaxGroups)
	setFloat(&cfg.Groups.NestingProbability, s.GroupNestingProbability)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
