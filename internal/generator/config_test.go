package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/internal/random"
	"starforge/internal/shared/errors"
)

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	doc := []byte(`
preset: dense
maxDepth: 2
belts:
  enabled: true
  probability: 1
comets:
  enabled: true
  count: {min: 1, max: 2}
`)
	cfg, err := LoadConfig(doc)
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, "dense", cfg.Preset)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.True(t, cfg.Belts.Enabled)
	assert.Equal(t, 1.0, cfg.Belts.Probability)
	assert.Equal(t, defaults.Belts.Particles, cfg.Belts.Particles)
	assert.Equal(t, defaults.Belts.Placement, cfg.Belts.Placement)
	assert.Equal(t, 2, cfg.Comets.Count.Max)
	assert.Equal(t, defaults.Entities, cfg.Entities)
}

func TestLoadConfigRejectsBadInput(t *testing.T) {
	_, err := LoadConfig([]byte("preset: [unclosed"))
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	_, err = LoadConfig([]byte("preset: nowhere"))
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))

	_, err = LoadConfig([]byte(`
grammar:
  name: broken
  axiom: [galaxy]
`))
	assert.Equal(t, errors.ErrorTypeValidation, errors.GetType(err))
}

func TestInlineGrammarWinsOverPreset(t *testing.T) {
	cfg, err := LoadConfig([]byte(`
preset: binary
grammar:
  name: twins
  axiom: [star, star, planet]
  productions:
    planet:
      - weight: 1
        expand: []
`))
	require.NoError(t, err)

	u, err := newTestGenerator().Generate(cfg, random.StringSeed("twins"))
	require.NoError(t, err)
	assert.Equal(t, "twins", u.Metadata.Preset)

	counts := u.CountByType()
	assert.Equal(t, 2, counts["star"])
	assert.Equal(t, 1, counts["planet"])
	assert.Zero(t, counts["moon"])
}

func TestPresetName(t *testing.T) {
	assert.Equal(t, "classic", Config{}.presetName())
	assert.Equal(t, "sparse", Config{Preset: "sparse"}.presetName())
}
