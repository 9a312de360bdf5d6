package universe

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"starforge/internal/generator"
	"starforge/internal/random"
)

// Record is a stored universe without its snapshot.
type Record struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Seed             string          `json:"seed"`
	SeedValue        uint64          `json:"seed_value,string"`
	Preset           string          `json:"preset"`
	GeneratorVersion string          `json:"generator_version"`
	SystemCount      int             `json:"system_count"`
	BodyCount        int             `json:"body_count"`
	Settings         json.RawMessage `json:"settings"`
	CreatedAt        time.Time       `json:"created_at"`
}

type CreateRequest struct {
	Name     string             `json:"name" validate:"required,max=255"`
	Seed     random.Seed        `json:"seed"`
	Systems  int                `json:"systems" validate:"omitempty,min=1"`
	Settings generator.Settings `json:"settings"`
}

type PreviewRequest struct {
	Seed     random.Seed        `json:"seed"`
	Systems  int                `json:"systems" validate:"omitempty,min=1"`
	Settings generator.Settings `json:"settings"`
}

// ListFilter narrows List. An empty preset list matches every preset.
type ListFilter struct {
	Presets []string
	Limit   int
	Offset  int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)
