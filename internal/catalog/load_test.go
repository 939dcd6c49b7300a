package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

const overrideYAML = `
lines:
  - id: spectrum
    materials:
      - name: "AK-47 | 血腥运动"
        wear: {low: 0.0, high: 0.5}
      - name: "M4A1-S | Decimator"
        wear: {low: 0.0, high: 0.85}
    weapons:
      - name: "M4A1-S | Decimator"
    names:
      - display: "M4A1-S | Decimator"
        base: "M4A1-S | Decimator"
        family: weapon
      - display: "蝴蝶刀｜大马士革钢"
        base: "★ Butterfly Knife | Damascus Steel"
        family: knife
        forced_tier: Minimal Wear
  - id: fracture
    title: Fracture case knives
    primary_key: knives
    default_kind: knife
    kinds:
      - id: knife
        name: Knife
        mode: pass_through
        domain: {low: 0, high: 1}
        tiers:
          - {name: Factory New, range: {low: 0, high: 0.07}}
          - {name: Minimal Wear, range: {low: 0.07, high: 0.15}}
          - {name: Field-Tested, range: {low: 0.15, high: 0.38}}
          - {name: Well-Worn, range: {low: 0.38, high: 0.45}}
          - {name: Battle-Scarred, range: {low: 0.45, high: 1}}
`

func TestParse_MergesOverrides(t *testing.T) {
	c, err := Parse([]byte(overrideYAML))
	require.NoError(t, err)
	require.Len(t, c.Lines(), 3)

	spectrum, err := c.Line(LineSpectrum)
	require.NoError(t, err)

	m, err := spectrum.Material("AK-47 | 血腥运动")
	require.NoError(t, err)
	assert.InDelta(t, 0.5, m.Wear.High, 1e-9)
	assert.Len(t, spectrum.Materials, 5)
	assert.Len(t, spectrum.Weapons, 5)

	got, err := spectrum.ResolveCanonicalName("蝴蝶刀｜大马士革钢", tier(models.BattleScarred))
	require.NoError(t, err)
	assert.Equal(t, "★ Butterfly Knife | Damascus Steel (Minimal Wear)", got)

	fracture, err := c.Line("fracture")
	require.NoError(t, err)
	assert.Equal(t, defaultCraftSize, fracture.CraftSize)
	k, err := fracture.Kind("")
	require.NoError(t, err)
	assert.Equal(t, models.PassThrough, k.Mode)
}

func TestParse_RejectsInvalidTables(t *testing.T) {
	_, err := Parse([]byte(`
lines:
  - id: revolution
    materials:
      - name: "AWP | 迷人眼 (久经沙场)"
        wear: {low: 0.9, high: 0.1}
`))
	assert.ErrorIs(t, err, models.ErrInvalidCatalog)

	_, err = Parse([]byte("lines: [oops"))
	assert.ErrorIs(t, err, models.ErrInvalidCatalog)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(overrideYAML), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Lines(), 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
