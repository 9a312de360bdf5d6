package celestial

import "encoding/json"

type BodyType string

const (
	BodyTypeStar          BodyType = "star"
	BodyTypePlanet        BodyType = "planet"
	BodyTypeMoon          BodyType = "moon"
	BodyTypeComet         BodyType = "comet"
	BodyTypeBlackHole     BodyType = "blackHole"
	BodyTypeLagrangePoint BodyType = "lagrangePoint"
	BodyTypeRoguePlanet   BodyType = "roguePlanet"
)

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Scale(k float64) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// Orbit is parametric. Zero-valued optional fields are omitted so a circular,
// coplanar orbit has one canonical encoding.
type Orbit struct {
	Distance     float64 `json:"distance"`
	Speed        float64 `json:"speed"`
	Phase        float64 `json:"phase"`
	Eccentricity float64 `json:"eccentricity,omitempty"`
	Inclination  float64 `json:"inclination,omitempty"`
	Rotation     float64 `json:"rotation,omitempty"`
	Offset       *Vec3   `json:"offset,omitempty"`
}

// Details is the type-specific part of a body. The concrete type fixes the
// body type, so a moon can never carry black-hole data.
type Details interface {
	bodyType() BodyType
}

// Body is one generated celestial entity. Its type is derived from its
// details and cannot be changed after construction.
type Body struct {
	ID       string
	Name     string
	Mass     float64
	Radius   float64
	Color    string
	ParentID *string
	Children []string
	Orbit    Orbit

	details Details
}

func NewBody(id, name string, details Details) *Body {
	return &Body{
		ID:       id,
		Name:     name,
		Children: []string{},
		details:  details,
	}
}

func (b *Body) Type() BodyType {
	return b.details.bodyType()
}

func (b *Body) Details() Details {
	return b.details
}

func (b *Body) IsRoot() bool {
	return b.ParentID == nil
}

// Planet returns the planet details when the body is a planet.
func (b *Body) Planet() (*PlanetDetails, bool) {
	d, ok := b.details.(*PlanetDetails)
	return d, ok
}

func (b *Body) Star() (*StarDetails, bool) {
	d, ok := b.details.(*StarDetails)
	return d, ok
}

func (b *Body) BlackHole() (*BlackHoleDetails, bool) {
	d, ok := b.details.(*BlackHoleDetails)
	return d, ok
}

func (b *Body) Comet() (*CometDetails, bool) {
	d, ok := b.details.(*CometDetails)
	return d, ok
}

func (b *Body) Lagrange() (*LagrangeDetails, bool) {
	d, ok := b.details.(*LagrangeDetails)
	return d, ok
}

func (b *Body) Rogue() (*RogueDetails, bool) {
	d, ok := b.details.(*RogueDetails)
	return d, ok
}

// IsStellar reports whether the body can anchor a system.
func (b *Body) IsStellar() bool {
	t := b.Type()
	return t == BodyTypeStar || t == BodyTypeBlackHole
}

type bodyJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Mass          float64           `json:"mass"`
	Radius        float64           `json:"radius"`
	Color         string            `json:"color"`
	ParentID      *string           `json:"parentId"`
	Children      []string          `json:"children"`
	BodyType      BodyType          `json:"bodyType"`
	Orbit         Orbit             `json:"orbit"`
	SpectralClass string            `json:"spectralClass,omitempty"`
	PlanetClass   PlanetClass       `json:"planetClass,omitempty"`
	Ring          *Ring             `json:"ring,omitempty"`
	Comet         *CometDetails     `json:"comet,omitempty"`
	BlackHole     *BlackHoleDetails `json:"blackHole,omitempty"`
	Lagrange      *LagrangeDetails  `json:"lagrange,omitempty"`
	Rogue         *RogueDetails     `json:"rogue,omitempty"`
}

func (b *Body) MarshalJSON() ([]byte, error) {
	out := bodyJSON{
		ID:       b.ID,
		Name:     b.Name,
		Mass:     b.Mass,
		Radius:   b.Radius,
		Color:    b.Color,
		ParentID: b.ParentID,
		Children: b.Children,
		BodyType: b.Type(),
		Orbit:    b.Orbit,
	}
	if out.Children == nil {
		out.Children = []string{}
	}

	switch d := b.details.(type) {
	case *StarDetails:
		out.SpectralClass = d.SpectralClass
	case *PlanetDetails:
		out.PlanetClass = d.Class
		out.Ring = d.Ring
	case *MoonDetails:
		out.PlanetClass = d.Class
	case *CometDetails:
		out.Comet = d
	case *BlackHoleDetails:
		out.BlackHole = d
	case *LagrangeDetails:
		out.Lagrange = d
	case *RogueDetails:
		out.PlanetClass = d.Class
		out.Rogue = d
	}
	return json.Marshal(out)
}
