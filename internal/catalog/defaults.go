package catalog

import (
	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// Product line ids
const (
	LineSpectrum   = "spectrum"
	LineRevolution = "revolution"
)

// Output kind ids
const (
	KindKnife         = "knife"
	KindKnifeLowWear  = "knife-low"
	KindGloves        = "gloves"
	KindGlovesClamped = "gloves-clamped"
)

// Number of materials consumed by one craft
const defaultCraftSize = 5

// KnifeDomain is the wear range every knife finish covers
var KnifeDomain = models.WearInterval{Low: 0.00, High: 1.00}

// LowWearKnifeDomain is the narrow range of low-wear-only finishes (FN/MW)
var LowWearKnifeDomain = models.WearInterval{Low: 0.00, High: 0.08}

// GloveDomain is the wear range every glove finish covers
var GloveDomain = models.WearInterval{Low: 0.06, High: 0.80}

func tierPtr(t models.TierName) *models.TierName {
	return &t
}

// KnifeKind is the standard knife output kind
func KnifeKind() models.OutputKind {
	return models.OutputKind{
		ID:     KindKnife,
		Name:   "Knife",
		Domain: KnifeDomain,
		Mode:   models.PassThrough,
		Tiers:  models.StandardTiers(),
	}
}

// LowWearKnifeKind is the alternate knife kind whose finishes only come in FN and MW
func LowWearKnifeKind() models.OutputKind {
	return models.OutputKind{
		ID:     KindKnifeLowWear,
		Name:   "Knife (low wear)",
		Domain: LowWearKnifeDomain,
		Mode:   models.PassThrough,
		Tiers: []models.Tier{
			{Name: models.FactoryNew, Range: models.WearInterval{Low: 0.00, High: 0.07}},
			{Name: models.MinimalWear, Range: models.WearInterval{Low: 0.07, High: 0.08}},
		},
	}
}

func gloveTiers() []models.Tier {
	return []models.Tier{
		{Name: models.FactoryNew, Range: models.WearInterval{Low: 0.06, High: 0.07}},
		{Name: models.MinimalWear, Range: models.WearInterval{Low: 0.07, High: 0.15}},
		{Name: models.FieldTested, Range: models.WearInterval{Low: 0.15, High: 0.38}},
		{Name: models.WellWorn, Range: models.WearInterval{Low: 0.38, High: 0.45}},
		{Name: models.BattleScarred, Range: models.WearInterval{Low: 0.45, High: 0.80}},
	}
}

// GloveKind remaps material wear proportionally onto the glove range
func GloveKind() models.OutputKind {
	return models.OutputKind{
		ID:     KindGloves,
		Name:   "Gloves",
		Domain: GloveDomain,
		Mode:   models.LinearRemap,
		Tiers:  gloveTiers(),
	}
}

// ClampedGloveKind reads material wear directly, clamped into the glove range
func ClampedGloveKind() models.OutputKind {
	return models.OutputKind{
		ID:     KindGlovesClamped,
		Name:   "Gloves (clamped)",
		Domain: GloveDomain,
		Mode:   models.PassThrough,
		Tiers:  gloveTiers(),
	}
}

type knifeModel struct {
	label string
	name  string
}

type knifeFinish struct {
	label  string
	name   string
	forced *models.TierName
}

var spectrumKnives = []knifeModel{
	{"暗影双匕", "Shadow Daggers"},
	{"鲍伊猎刀", "Bowie Knife"},
	{"猎杀者匕首", "Huntsman Knife"},
	{"弯刀", "Falchion Knife"},
	{"蝴蝶刀", "Butterfly Knife"},
}

// Doppler-style finishes are only priced at FN, Rust Coat only at WW
var spectrumFinishes = []knifeFinish{
	{"渐变大理石", "Marble Fade", tierPtr(models.FactoryNew)},
	{"多普勒", "Doppler", tierPtr(models.FactoryNew)},
	{"外表生锈", "Rust Coat", tierPtr(models.WellWorn)},
	{"大马士革钢", "Damascus Steel", nil},
	{"虎牙", "Tiger Tooth", tierPtr(models.FactoryNew)},
	{"致命紫罗兰", "Ultraviolet", nil},
}

type weaponDef struct {
	label string
	base  string
	wear  models.WearInterval
}

var spectrumWeapons = []weaponDef{
	{"AK-47 | 血腥运动", "AK-47 | Bloodsport", models.WearInterval{Low: 0.00, High: 0.45}},
	{"USP 消音版 | 黑色魅影", "USP-S | Neo-Noir", models.WearInterval{Low: 0.00, High: 0.70}},
	{"P250 | 生化短吻鳄", "P250 | See Ya Later", models.WearInterval{Low: 0.00, High: 0.70}},
	{"AK-47 | 皇后", "AK-47 | The Empress", models.WearInterval{Low: 0.00, High: 1.00}},
}

// SpectrumLine is the knife line crafted from Spectrum case coverts
func SpectrumLine() *Line {
	l := &Line{
		ID:          LineSpectrum,
		Title:       "Spectrum case knives",
		PrimaryKey:  "knives",
		DefaultKind: KindKnife,
		CraftSize:   defaultCraftSize,
		Kinds:       []models.OutputKind{KnifeKind(), LowWearKnifeKind()},
	}
	for _, k := range spectrumKnives {
		for _, f := range spectrumFinishes {
			display := k.label + "｜" + f.label
			l.Outputs = append(l.Outputs, models.PriceableItem{Name: display})
			l.Names = append(l.Names, NameEntry{
				Display:    display,
				Base:       "★ " + k.name + " | " + f.name,
				Family:     FamilyKnife,
				ForcedTier: f.forced,
			})
		}
	}
	for _, w := range spectrumWeapons {
		l.Weapons = append(l.Weapons, models.PriceableItem{Name: w.label})
		l.Materials = append(l.Materials, models.MaterialSpec{Name: w.label, Wear: w.wear})
		l.Names = append(l.Names, NameEntry{Display: w.label, Base: w.base, Family: FamilyWeapon})
	}
	return l
}

type gloveDef struct {
	label string
	base  string
	price float64
}

var revolutionGloves = []gloveDef{
	{"裹手 | 沙漠头巾", "★ Hand Wraps | Desert Shamagh", 354},
	{"裹手 | 长颈鹿", "★ Hand Wraps | Giraffe", 372.5},
	{"裹手 | 蟒蛇", "★ Hand Wraps | Constrictor", 391.5},
	{"摩托手套 | 第三特种兵连", "★ Moto Gloves | 3rd Commando Company", 350},
	{"驾驶手套 | 美洲豹女王", "★ Driver Gloves | Queen Jaguar", 405},
	{"狂牙手套 | 黄色斑纹", "★ Broken Fang Gloves | Yellow-banded", 404},
	{"狂牙手套 | 针尖", "★ Broken Fang Gloves | Needle Point", 386.5},
	{"狂牙手套 | 精神错乱", "★ Broken Fang Gloves | Unhinged", 430},
	{"驾驶手套 | 绯红列赞", "★ Driver Gloves | Rezan the Red", 564.5},
	{"摩托手套 | 终点线", "★ Moto Gloves | Finish Line", 701.5},
	{"摩托手套 | 小心烟雾弹", "★ Moto Gloves | Smoke Out", 849},
	{"狂牙手套 | 翡翠", "★ Broken Fang Gloves | Jade", 690},
	{"专业手套 | 陆军少尉长官", "★ Specialist Gloves | Lt. Commander", 900},
	{"摩托手套 | 血压", "★ Moto Gloves | Blood Pressure", 969.5},
	{"专业手套 | 一线特工", "★ Specialist Gloves | Field Agent", 1041.5},
	{"驾驶手套 | 西装革履", "★ Driver Gloves | Black Tie", 1066.5},
	{"裹手 | 警告！", "★ Hand Wraps | CAUTION!", 950},
	{"专业手套 | 老虎精英", "★ Specialist Gloves | Tiger Strike", 1600},
	{"专业手套 | 渐变大理石", "★ Specialist Gloves | Marble Fade", 1179},
	{"运动手套 | 大型猎物", "★ Sport Gloves | Big Game", 1231.5},
	{"运动手套 | 猩红头巾", "★ Sport Gloves | Scarlet Shamagh", 1769},
	{"运动手套 | 弹弓", "★ Sport Gloves | Slingshot", 3809},
	{"驾驶手套 | 雪豹", "★ Driver Gloves | Snow Leopard", 2219},
	{"运动手套 | 夜行衣", "★ Sport Gloves | Nocts", 4744},
}

var revolutionWeapons = []weaponDef{
	{"M4A4 | 反冲精英 (久经沙场)", "M4A4 | Temukau", models.WearInterval{Low: 0.00, High: 0.80}},
	{"AK-47 | 一发入魂 (久经沙场)", "AK-47 | Head Shot", models.WearInterval{Low: 0.00, High: 1.00}},
	{"USP 消音版 | 印花集 (久经沙场)", "USP-S | Printstream", models.WearInterval{Low: 0.00, High: 1.00}},
	{"AWP | 迷人眼 (久经沙场)", "AWP | Chromatic Aberration", models.WearInterval{Low: 0.00, High: 0.79}},
}

// RevolutionLine is the glove line crafted from Revolution/Recoil case coverts.
// Every entry is priced at Field-Tested, so the exterior is part of the base name.
func RevolutionLine() *Line {
	l := &Line{
		ID:          LineRevolution,
		Title:       "Revolution / Recoil gloves",
		PrimaryKey:  "gloves",
		DefaultKind: KindGloves,
		CraftSize:   defaultCraftSize,
		Kinds:       []models.OutputKind{GloveKind(), ClampedGloveKind()},
	}
	for _, g := range revolutionGloves {
		l.Outputs = append(l.Outputs, models.PriceableItem{Name: g.label, MinPrice: g.price})
		l.Names = append(l.Names, NameEntry{
			Display:      g.label,
			Base:         g.base + " (" + string(models.FieldTested) + ")",
			Family:       FamilyGlove,
			EmbeddedTier: true,
		})
	}
	for _, w := range revolutionWeapons {
		l.Weapons = append(l.Weapons, models.PriceableItem{Name: w.label})
		l.Materials = append(l.Materials, models.MaterialSpec{Name: w.label, Wear: w.wear})
		l.Names = append(l.Names, NameEntry{
			Display:      w.label,
			Base:         w.base + " (" + string(models.FieldTested) + ")",
			Family:       FamilyWeapon,
			EmbeddedTier: true,
		})
	}
	return l
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, err := New(SpectrumLine(), RevolutionLine())
	if err != nil {
		// The built-in tables are covered by tests
		panic(err)
	}
	return c
}
