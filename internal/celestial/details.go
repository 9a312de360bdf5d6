package celestial

type PlanetClass string

const (
	PlanetClassBarren      PlanetClass = "barren"
	PlanetClassTerrestrial PlanetClass = "terrestrial"
	PlanetClassGasGiant    PlanetClass = "gas_giant"
	PlanetClassIce         PlanetClass = "ice"
	PlanetClassVolcanic    PlanetClass = "volcanic"
)

// PlanetClasses lists the classes in the order their weights are declared.
var PlanetClasses = []PlanetClass{
	PlanetClassBarren,
	PlanetClassTerrestrial,
	PlanetClassGasGiant,
	PlanetClassIce,
	PlanetClassVolcanic,
}

type StarDetails struct {
	SpectralClass string `json:"spectralClass"`
}

func (*StarDetails) bodyType() BodyType { return BodyTypeStar }

type PlanetDetails struct {
	Class PlanetClass `json:"planetClass"`
	Ring  *Ring       `json:"ring,omitempty"`
}

func (*PlanetDetails) bodyType() BodyType { return BodyTypePlanet }

// MoonDetails also covers submoons; Level is 1 for moons and 2 for submoons.
type MoonDetails struct {
	Class PlanetClass `json:"planetClass"`
	Level int         `json:"level"`
}

func (*MoonDetails) bodyType() BodyType { return BodyTypeMoon }

type Ring struct {
	InnerRadiusMultiplier float64 `json:"innerRadiusMultiplier"`
	OuterRadiusMultiplier float64 `json:"outerRadiusMultiplier"`
	Thickness             float64 `json:"thickness"`
	Opacity               float64 `json:"opacity"`
	Albedo                float64 `json:"albedo"`
	Density               float64 `json:"density"`
	Color                 string  `json:"color"`
	Seed                  uint32  `json:"seed"`
}

type CometDetails struct {
	ShortPeriod        bool    `json:"shortPeriod"`
	SemiMajorAxis      float64 `json:"semiMajorAxis"`
	Eccentricity       float64 `json:"eccentricity"`
	PerihelionDistance float64 `json:"perihelionDistance"`
	AphelionDistance   float64 `json:"aphelionDistance"`
	Inclination        Vec3    `json:"inclination"`
	TailLength         float64 `json:"tailLength"`
	TailWidth          float64 `json:"tailWidth"`
	TailColor          string  `json:"tailColor"`
	TailOpacity        float64 `json:"tailOpacity"`
	IonTail            bool    `json:"ionTail"`
}

func (*CometDetails) bodyType() BodyType { return BodyTypeComet }

type BlackHoleClass string

const (
	BlackHoleStellar      BlackHoleClass = "stellar"
	BlackHoleIntermediate BlackHoleClass = "intermediate"
	BlackHoleSupermassive BlackHoleClass = "supermassive"
)

type AccretionDisk struct {
	InnerRadius   float64 `json:"innerRadius"`
	OuterRadius   float64 `json:"outerRadius"`
	Brightness    float64 `json:"brightness"`
	Temperature   float64 `json:"temperature"`
	RotationSpeed float64 `json:"rotationSpeed"`
	Color         string  `json:"color"`
}

type Jets struct {
	Length     float64 `json:"length"`
	Width      float64 `json:"width"`
	Brightness float64 `json:"brightness"`
	Color      string  `json:"color"`
}

type BlackHoleDetails struct {
	Class             BlackHoleClass `json:"class"`
	ShadowRadius      float64        `json:"shadowRadius"`
	Cinematic         bool           `json:"cinematic"`
	Spin              float64        `json:"spin"`
	DopplerBeaming    float64        `json:"dopplerBeaming"`
	LensingStrength   float64        `json:"lensingStrength"`
	PhotonRingWidth   float64        `json:"photonRingWidth"`
	AccretionDisk     *AccretionDisk `json:"accretionDisk,omitempty"`
	Jets              *Jets          `json:"jets,omitempty"`
	ReplacesCompanion bool           `json:"replacesCompanion,omitempty"`
}

func (*BlackHoleDetails) bodyType() BodyType { return BodyTypeBlackHole }

type LagrangePoint string

const (
	L1 LagrangePoint = "L1"
	L2 LagrangePoint = "L2"
	L3 LagrangePoint = "L3"
	L4 LagrangePoint = "L4"
	L5 LagrangePoint = "L5"
)

type LagrangeDetails struct {
	Point       LagrangePoint `json:"point"`
	PrimaryID   string        `json:"primaryId"`
	SecondaryID string        `json:"secondaryId"`
	Stable      bool          `json:"stable"`
	TrojanField string        `json:"trojanFieldId,omitempty"`
}

func (*LagrangeDetails) bodyType() BodyType { return BodyTypeLagrangePoint }

// Trajectory describes a curved rogue path. A nil trajectory means the body
// drifts linearly along its velocity.
type Trajectory struct {
	Curvature     float64 `json:"curvature"`
	SemiMajorAxis float64 `json:"semiMajorAxis"`
	Eccentricity  float64 `json:"eccentricity"`
	Orientation   Vec3    `json:"orientation"`
	Period        float64 `json:"period"`
}

type RogueDetails struct {
	Class       PlanetClass `json:"planetClass"`
	Position    Vec3        `json:"position"`
	Velocity    Vec3        `json:"velocity"`
	ReferenceID string      `json:"referenceGroupId,omitempty"`
	Trajectory  *Trajectory `json:"trajectory,omitempty"`
}

func (*RogueDetails) bodyType() BodyType { return BodyTypeRoguePlanet }
