package topology

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"starforge/internal/random"
	"starforge/internal/shared/errors"
)

const PresetClassic = "classic"

// Interpreter turns a seeded stream into a system topology. Presets choose
// between the legacy path and the grammar engine.
type Interpreter interface {
	Name() string
	Expand(s *random.Stream, maxDepth int) (*Tree, error)
}

//go:embed presets/*.yaml
var presetFS embed.FS

var loadPresets = sync.OnceValues(func() (map[string]Grammar, error) {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar presets: %w", err)
	}
	grammars := make(map[string]Grammar, len(entries))
	for _, entry := range entries {
		data, err := presetFS.ReadFile(path.Join("presets", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read grammar preset %s: %w", entry.Name(), err)
		}
		g, err := ParseGrammar(data)
		if err != nil {
			return nil, fmt.Errorf("grammar preset %s: %w", entry.Name(), err)
		}
		if g.Name == "" {
			g.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		grammars[g.Name] = g
	}
	return grammars, nil
})

// ParseGrammar decodes a YAML grammar and validates it.
func ParseGrammar(data []byte) (Grammar, error) {
	var g Grammar
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Grammar{}, errors.WrapValidation("invalid grammar document", err)
	}
	if err := g.Validate(); err != nil {
		return Grammar{}, err
	}
	return g, nil
}

// ForPreset returns the interpreter registered under id.
func ForPreset(id string) (Interpreter, error) {
	if id == PresetClassic {
		return Legacy{}, nil
	}
	grammars, err := loadPresets()
	if err != nil {
		return nil, errors.WrapInternal("grammar presets unavailable", err)
	}
	g, ok := grammars[id]
	if !ok {
		return nil, errors.Validationf("unknown topology preset %q", id)
	}
	return NewEngine(g)
}

// Presets lists every preset id, classic first.
func Presets() []string {
	ids := []string{PresetClassic}
	grammars, err := loadPresets()
	if err != nil {
		return ids
	}
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(ids, names...)
}
