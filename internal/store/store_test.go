package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mswatii/cs2-craftcalc/internal/catalog"
	"github.com/mswatii/cs2-craftcalc/internal/models"
)

func spectrum(t *testing.T) *catalog.Line {
	t.Helper()
	l, err := catalog.Default().Line(catalog.LineSpectrum)
	require.NoError(t, err)
	return l
}

func TestOpen_MissingFileUsesDefaults(t *testing.T) {
	line := spectrum(t)
	s, err := Open(filepath.Join(t.TempDir(), "spectrum.json"), line)
	require.NoError(t, err)

	assert.Equal(t, line.DefaultState(), s.State())
}

func TestOpen_BareListKeepsDefaultWeapons(t *testing.T) {
	line := spectrum(t)
	path := filepath.Join(t.TempDir(), "spectrum.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"蝴蝶刀｜多普勒","min_price":9000}]`), 0o644))

	s, err := Open(path, line)
	require.NoError(t, err)

	items := s.Items(models.CategoryPrimary)
	require.Len(t, items, 1)
	assert.InDelta(t, 9000, items[0].MinPrice, 1e-9)
	assert.Equal(t, line.Weapons, s.Items(models.CategoryWeapons))
}

func TestOpen_RecordFallsBackPerList(t *testing.T) {
	line := spectrum(t)
	path := filepath.Join(t.TempDir(), "spectrum.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"weapons":[{"name":"AK-47 | 皇后","min_price":120}]}`), 0o644))

	s, err := Open(path, line)
	require.NoError(t, err)

	assert.Equal(t, line.Outputs, s.Items(models.CategoryPrimary))
	assert.Equal(t, []models.PriceableItem{{Name: "AK-47 | 皇后", MinPrice: 120}}, s.Items(models.CategoryWeapons))
}

func TestOpen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spectrum.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"knives": 7}`), 0o644))

	_, err := Open(path, spectrum(t))
	assert.Error(t, err)
}

func TestStore_SetPriceRoundTrip(t *testing.T) {
	line := spectrum(t)
	path := filepath.Join(t.TempDir(), "nested", "spectrum.json")
	s, err := Open(path, line)
	require.NoError(t, err)

	require.NoError(t, s.SetPrice(models.CategoryWeapons, "AK-47 | 血腥运动", 88.5))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "{\n  \"knives\": ["), text)
	assert.Contains(t, text, "AK-47 | 血腥运动")
	assert.NotContains(t, text, `\u`)

	reopened, err := Open(path, line)
	require.NoError(t, err)
	item, err := reopened.Find(models.CategoryWeapons, "AK-47 | 血腥运动")
	require.NoError(t, err)
	assert.InDelta(t, 88.5, item.MinPrice, 1e-9)
	assert.Equal(t, s.State(), reopened.State())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_SetPriceErrors(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "spectrum.json"), spectrum(t))
	require.NoError(t, err)

	err = s.SetPrice(models.CategoryWeapons, "AK-47 | 血腥运", 1)
	assert.ErrorIs(t, err, models.ErrUnknownItem)
	var lookupErr *models.LookupError
	require.ErrorAs(t, err, &lookupErr)
	require.NotEmpty(t, lookupErr.Suggestions)
	assert.Equal(t, "AK-47 | 血腥运动", lookupErr.Suggestions[0])

	assert.Error(t, s.SetPrice(models.CategoryWeapons, "AK-47 | 血腥运动", -1))
}

func TestStore_ApplyPrices(t *testing.T) {
	line := spectrum(t)
	path := filepath.Join(t.TempDir(), "spectrum.json")
	s, err := Open(path, line)
	require.NoError(t, err)

	n, err := s.ApplyPrices(models.CategoryPrimary, map[string]float64{
		"蝴蝶刀｜多普勒":     12000,
		"鲍伊猎刀｜外表生锈":   0,
		"not in list": 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	item, err := s.Find(models.CategoryPrimary, "蝴蝶刀｜多普勒")
	require.NoError(t, err)
	assert.InDelta(t, 12000, item.MinPrice, 1e-9)
	assert.FileExists(t, path)

	n, err = s.ApplyPrices(models.CategoryPrimary, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_ItemsIsCopy(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "spectrum.json"), spectrum(t))
	require.NoError(t, err)

	items := s.Items(models.CategoryWeapons)
	items[0].MinPrice = 999
	assert.NotEqual(t, 999.0, s.Items(models.CategoryWeapons)[0].MinPrice)
	assert.Len(t, s.Names(models.CategoryWeapons), len(items))
}

func TestStore_Reset(t *testing.T) {
	line := spectrum(t)
	s, err := Open(filepath.Join(t.TempDir(), "spectrum.json"), line)
	require.NoError(t, err)
	require.NoError(t, s.SetPrice(models.CategoryWeapons, "AK-47 | 皇后", 1))

	require.NoError(t, s.Reset())
	assert.Equal(t, line.DefaultState(), s.State())
}
