package celestial

type FieldKind string

const (
	FieldKindMainBelt   FieldKind = "mainBelt"
	FieldKindKuiperBelt FieldKind = "kuiperBelt"
	FieldKindTrojan     FieldKind = "trojan"
)

// SmallBodyField is a visual-only population of tiny bodies. HostID is a
// lookup reference, the field is not a child of the host.
type SmallBodyField struct {
	ID            string    `json:"id"`
	Kind          FieldKind `json:"kind"`
	HostID        string    `json:"hostId"`
	InnerRadius   float64   `json:"innerRadius"`
	OuterRadius   float64   `json:"outerRadius"`
	Thickness     float64   `json:"thickness"`
	Inclination   float64   `json:"inclination,omitempty"`
	ParticleCount int       `json:"particleCount"`
	ParticleSize  float64   `json:"particleSize"`
	Color         string    `json:"color"`
	Opacity       float64   `json:"opacity"`
	Seed          uint32    `json:"seed"`

	// Trojan clusters only.
	LagrangeID    string  `json:"lagrangeId,omitempty"`
	CenterPhase   float64 `json:"centerPhase,omitempty"`
	AngularSpread float64 `json:"angularSpread,omitempty"`
	OrbitSpeed    float64 `json:"orbitSpeed,omitempty"`
}

type ProtoplanetaryDisk struct {
	ID            string   `json:"id"`
	HostID        string   `json:"hostId"`
	InnerRadius   float64  `json:"innerRadius"`
	OuterRadius   float64  `json:"outerRadius"`
	Thickness     float64  `json:"thickness"`
	ParticleCount int      `json:"particleCount"`
	Density       float64  `json:"density"`
	Brightness    float64  `json:"brightness"`
	RotationSpeed float64  `json:"rotationSpeed"`
	Palette       []string `json:"palette"`
	Seed          uint32   `json:"seed"`
}

type NebulaPlacement string

const (
	NebulaScattered NebulaPlacement = "scattered"
	NebulaAnchored  NebulaPlacement = "anchored"
)

type Nebula struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Placement     NebulaPlacement `json:"placement"`
	AnchorGroupID string          `json:"anchorGroupId,omitempty"`
	Position      Vec3            `json:"position"`
	Radius        float64         `json:"radius"`
	Flattening    float64         `json:"flattening"`
	Density       float64         `json:"density"`
	Brightness    float64         `json:"brightness"`
	ParticleCount int             `json:"particleCount"`
	Palette       []string        `json:"palette"`
	Seed          uint32          `json:"seed"`
}

type GroupChildKind string

const (
	GroupChildSystem GroupChildKind = "system"
	GroupChildGroup  GroupChildKind = "group"
)

type GroupChild struct {
	Kind GroupChildKind `json:"kind"`
	ID   string         `json:"id"`
}

type Group struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Children      []GroupChild `json:"children"`
	ParentGroupID *string      `json:"parentGroupId"`
	Position      Vec3         `json:"position"`
	Color         string       `json:"color"`
}
