package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

func tier(t models.TierName) *models.TierName {
	return &t
}

func TestDefault_IsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, LineSpectrum, lines[0].ID)
	assert.Equal(t, LineRevolution, lines[1].ID)

	spectrum := lines[0]
	assert.Len(t, spectrum.Outputs, 30)
	assert.Len(t, spectrum.Weapons, 4)
	assert.Len(t, spectrum.Materials, 4)

	revolution := lines[1]
	assert.Len(t, revolution.Outputs, 24)
	assert.InDelta(t, 4744, revolution.Outputs[23].MinPrice, 1e-9)
}

func TestResolveCanonicalName_Knives(t *testing.T) {
	line := SpectrumLine()
	line.reindex()

	tests := []struct {
		name    string
		display string
		chosen  *models.TierName
		want    string
	}{
		{"rust coat forced to well-worn", "蝴蝶刀｜外表生锈", tier(models.FactoryNew), "★ Butterfly Knife | Rust Coat (Well-Worn)"},
		{"rust coat without choice", "弯刀｜外表生锈", nil, "★ Falchion Knife | Rust Coat (Well-Worn)"},
		{"doppler forced to factory new", "鲍伊猎刀｜多普勒", tier(models.BattleScarred), "★ Bowie Knife | Doppler (Factory New)"},
		{"tiger tooth forced to factory new", "暗影双匕｜虎牙", tier(models.FieldTested), "★ Shadow Daggers | Tiger Tooth (Factory New)"},
		{"marble fade forced to factory new", "猎杀者匕首｜渐变大理石", nil, "★ Huntsman Knife | Marble Fade (Factory New)"},
		{"plain finish uses choice", "蝴蝶刀｜大马士革钢", tier(models.MinimalWear), "★ Butterfly Knife | Damascus Steel (Minimal Wear)"},
		{"plain finish defaults to field-tested", "蝴蝶刀｜致命紫罗兰", nil, "★ Butterfly Knife | Ultraviolet (Field-Tested)"},
		{"halfwidth separator", "蝴蝶刀|致命紫罗兰", tier(models.WellWorn), "★ Butterfly Knife | Ultraviolet (Well-Worn)"},
		{"weapon uses choice", "AK-47 | 血腥运动", tier(models.MinimalWear), "AK-47 | Bloodsport (Minimal Wear)"},
		{"weapon defaults to field-tested", "P250 | 生化短吻鳄", nil, "P250 | See Ya Later (Field-Tested)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := line.ResolveCanonicalName(tt.display, tt.chosen)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveCanonicalName_EmbeddedTier(t *testing.T) {
	line := RevolutionLine()
	line.reindex()

	got, err := line.ResolveCanonicalName("运动手套 | 夜行衣", tier(models.FactoryNew))
	require.NoError(t, err)
	assert.Equal(t, "★ Sport Gloves | Nocts (Field-Tested)", got)

	got, err = line.ResolveCanonicalName("裹手 | 警告!", nil)
	require.NoError(t, err)
	assert.Equal(t, "★ Hand Wraps | CAUTION! (Field-Tested)", got)

	got, err = line.ResolveCanonicalName("AWP | 迷人眼 (久经沙场)", tier(models.BattleScarred))
	require.NoError(t, err)
	assert.Equal(t, "AWP | Chromatic Aberration (Field-Tested)", got)
}

func TestResolveCanonicalName_NotMapped(t *testing.T) {
	line := SpectrumLine()
	line.reindex()

	_, err := line.ResolveCanonicalName("蝴蝶刀｜致命紫罗", nil)
	require.ErrorIs(t, err, models.ErrNotMapped)

	var lookupErr *models.LookupError
	require.True(t, errors.As(err, &lookupErr))
	require.NotEmpty(t, lookupErr.Suggestions)
	assert.Equal(t, "蝴蝶刀｜致命紫罗兰", lookupErr.Suggestions[0])
	assert.Contains(t, err.Error(), "did you mean")
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, normalizeName("暗影双匕｜多普勒"), normalizeName("暗影双匕 | 多普勒"))
	assert.Equal(t, normalizeName("裹手 | 警告！"), normalizeName("裹手 | 警告!"))
	assert.Equal(t, "ak-47|the empress", normalizeName("  AK-47  |  The   Empress "))
}

func TestLine_Material(t *testing.T) {
	line := RevolutionLine()
	line.reindex()

	m, err := line.Material("AWP | 迷人眼 (久经沙场)")
	require.NoError(t, err)
	assert.Equal(t, models.WearInterval{Low: 0, High: 0.79}, m.Wear)

	m, err = line.Material("awp | chromatic aberration")
	require.NoError(t, err)
	assert.Equal(t, "AWP | 迷人眼 (久经沙场)", m.Name)

	_, err = line.Material("Glock-18 | Fade")
	assert.ErrorIs(t, err, models.ErrUnknownMaterial)
}

func TestLine_Kind(t *testing.T) {
	line := SpectrumLine()

	k, err := line.Kind("")
	require.NoError(t, err)
	assert.Equal(t, KindKnife, k.ID)

	k, err = line.Kind(KindKnifeLowWear)
	require.NoError(t, err)
	assert.Equal(t, LowWearKnifeDomain, k.Domain)

	_, err = line.Kind("knife-lo")
	var lookupErr *models.LookupError
	require.True(t, errors.As(err, &lookupErr))
	assert.ErrorIs(t, err, models.ErrUnknownOutputKind)
	require.NotEmpty(t, lookupErr.Suggestions)
	assert.Equal(t, KindKnifeLowWear, lookupErr.Suggestions[0])
}

func TestLine_DefaultStateIsCopy(t *testing.T) {
	line := RevolutionLine()
	state := line.DefaultState()
	state.Primary[0].MinPrice = 1

	assert.InDelta(t, 354, line.Outputs[0].MinPrice, 1e-9)
	assert.Len(t, state.Weapons, 4)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *Line)
	}{
		{"inverted material interval", func(l *Line) {
			l.Materials[0].Wear = models.WearInterval{Low: 0.5, High: 0.1}
		}},
		{"tier gap", func(l *Line) {
			l.Kinds[0].Tiers[1].Range.Low = 0.08
		}},
		{"tiers out of order", func(l *Line) {
			l.Kinds[0].Tiers[0], l.Kinds[0].Tiers[1] = l.Kinds[0].Tiers[1], l.Kinds[0].Tiers[0]
		}},
		{"tiers short of domain", func(l *Line) {
			l.Kinds[0].Tiers = l.Kinds[0].Tiers[:4]
		}},
		{"degenerate domain", func(l *Line) {
			l.Kinds[1].Domain = models.WearInterval{Low: 0.08, High: 0.08}
		}},
		{"unknown default kind", func(l *Line) {
			l.DefaultKind = "axe"
		}},
		{"unknown forced tier", func(l *Line) {
			l.Names[0].ForcedTier = tier("Mint")
		}},
		{"duplicate display name", func(l *Line) {
			l.Names = append(l.Names, NameEntry{Display: "蝴蝶刀 | 多普勒", Base: "x"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := SpectrumLine()
			tt.mutate(l)
			_, err := New(l)
			require.Error(t, err)
		})
	}
}

func TestValidate_DegenerateDomainKind(t *testing.T) {
	l := RevolutionLine()
	l.Kinds[0].Domain = models.WearInterval{Low: 0.8, High: 0.06}
	_, err := New(l)
	assert.ErrorIs(t, err, models.ErrDegenerateInterval)
}
