// Package catalog holds the static crafting configuration: product lines, the
// material wear ranges, the output tier tables and the display-name to
// market-hash-name table used for price lookups.
package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// Family groups name entries by how their market hash name is built
type Family string

const (
	FamilyKnife  Family = "knife"
	FamilyGlove  Family = "glove"
	FamilyWeapon Family = "weapon"
)

// NameEntry maps a display label onto the market hash name used for pricing
type NameEntry struct {
	Display string `json:"display" yaml:"display"`
	Base    string `json:"base" yaml:"base"`
	Family  Family `json:"family" yaml:"family"`
	// EmbeddedTier is set when Base already ends with an exterior suffix
	EmbeddedTier bool `json:"embedded_tier" yaml:"embedded_tier"`
	// ForcedTier pins the exterior used for pricing regardless of the caller's choice
	ForcedTier *models.TierName `json:"forced_tier,omitempty" yaml:"forced_tier,omitempty"`
}

// Line is one crafting product line: the outputs it yields, the materials that
// feed it and the tier tables of its output kinds
type Line struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	// PrimaryKey names the output list in persisted state ("knives", "gloves")
	PrimaryKey  string                 `json:"primary_key" yaml:"primary_key"`
	DefaultKind string                 `json:"default_kind" yaml:"default_kind"`
	CraftSize   int                    `json:"craft_size" yaml:"craft_size"`
	Kinds       []models.OutputKind    `json:"kinds" yaml:"kinds"`
	Materials   []models.MaterialSpec  `json:"materials" yaml:"materials"`
	Outputs     []models.PriceableItem `json:"outputs" yaml:"outputs"`
	Weapons     []models.PriceableItem `json:"weapons" yaml:"weapons"`
	Names       []NameEntry            `json:"names" yaml:"names"`

	names     map[string]int
	materials map[string]int
}

// Catalog is the full set of product lines
type Catalog struct {
	lines map[string]*Line
	order []string
}

// New builds a catalog from lines and validates it
func New(lines ...*Line) (*Catalog, error) {
	c := &Catalog{lines: make(map[string]*Line)}
	for _, l := range lines {
		if err := c.add(l); err != nil {
			return nil, err
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) add(l *Line) error {
	if l.ID == "" {
		return fmt.Errorf("%w: line without id", models.ErrInvalidCatalog)
	}
	if _, exists := c.lines[l.ID]; !exists {
		c.order = append(c.order, l.ID)
	}
	l.reindex()
	c.lines[l.ID] = l
	return nil
}

func (l *Line) reindex() {
	l.names = make(map[string]int, len(l.Names))
	for i, e := range l.Names {
		l.names[normalizeName(e.Display)] = i
	}
	l.materials = make(map[string]int, len(l.Materials))
	for i, m := range l.Materials {
		l.materials[normalizeName(m.Name)] = i
	}
}

// Lines returns all product lines in registration order
func (c *Catalog) Lines() []*Line {
	out := make([]*Line, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.lines[id])
	}
	return out
}

// Line returns the product line with the given id
func (c *Catalog) Line(id string) (*Line, error) {
	if l, ok := c.lines[id]; ok {
		return l, nil
	}
	return nil, &models.LookupError{Kind: models.ErrUnknownLine, Name: id, Suggestions: suggest(id, c.order)}
}

// Kind returns an output kind of the line; an empty id selects the default kind
func (l *Line) Kind(id string) (models.OutputKind, error) {
	if id == "" {
		id = l.DefaultKind
	}
	ids := make([]string, 0, len(l.Kinds))
	for _, k := range l.Kinds {
		if k.ID == id {
			return k, nil
		}
		ids = append(ids, k.ID)
	}
	return models.OutputKind{}, &models.LookupError{Kind: models.ErrUnknownOutputKind, Name: id, Suggestions: suggest(id, ids)}
}

// Material looks up a material by display name or by its market base name
func (l *Line) Material(name string) (models.MaterialSpec, error) {
	key := normalizeName(name)
	if i, ok := l.materials[key]; ok {
		return l.Materials[i], nil
	}
	// Allow the English market name as an alias of the display name
	for _, e := range l.Names {
		if normalizeName(e.Base) == key || normalizeName(stripTier(e.Base)) == key {
			if i, ok := l.materials[normalizeName(e.Display)]; ok {
				return l.Materials[i], nil
			}
		}
	}
	names := make([]string, 0, len(l.Materials))
	for _, m := range l.Materials {
		names = append(names, m.Name)
	}
	return models.MaterialSpec{}, &models.LookupError{Kind: models.ErrUnknownMaterial, Name: name, Suggestions: suggest(name, names)}
}

// Entry returns the name-table entry for a display label
func (l *Line) Entry(display string) (NameEntry, bool) {
	i, ok := l.names[normalizeName(display)]
	if !ok {
		return NameEntry{}, false
	}
	return l.Names[i], true
}

// DefaultList returns a fresh copy of the built-in items for a category
func (l *Line) DefaultList(c models.Category) []models.PriceableItem {
	if c == models.CategoryWeapons {
		return append([]models.PriceableItem(nil), l.Weapons...)
	}
	return append([]models.PriceableItem(nil), l.Outputs...)
}

// DefaultState returns the built-in item state of the line
func (l *Line) DefaultState() models.ItemState {
	return models.ItemState{
		Primary: l.DefaultList(models.CategoryPrimary),
		Weapons: l.DefaultList(models.CategoryWeapons),
	}
}

const boundaryEpsilon = 1e-9

// Validate checks every line against the configuration invariants:
// material intervals are ordered, and each kind's tiers ascend contiguously
// and cover the kind's whole domain
func (c *Catalog) Validate() error {
	for _, id := range c.order {
		if err := c.lines[id].validate(); err != nil {
			return fmt.Errorf("line %s: %w", id, err)
		}
	}
	return nil
}

func (l *Line) validate() error {
	if l.PrimaryKey == "" || l.PrimaryKey == string(models.CategoryWeapons) {
		return fmt.Errorf("%w: primary key %q", models.ErrInvalidCatalog, l.PrimaryKey)
	}
	if l.CraftSize <= 0 {
		return fmt.Errorf("%w: craft size must be positive", models.ErrInvalidCatalog)
	}
	if len(l.Kinds) == 0 {
		return fmt.Errorf("%w: no output kinds", models.ErrInvalidCatalog)
	}
	if _, err := l.Kind(""); err != nil {
		return fmt.Errorf("%w: default kind: %v", models.ErrInvalidCatalog, err)
	}
	for _, k := range l.Kinds {
		if err := validateKind(k); err != nil {
			return fmt.Errorf("kind %s: %w", k.ID, err)
		}
	}
	for _, m := range l.Materials {
		if !m.Wear.Valid() || !models.FullWear.Contains(m.Wear.Low) || !models.FullWear.Contains(m.Wear.High) {
			return fmt.Errorf("%w: material %q has wear %s", models.ErrInvalidCatalog, m.Name, m.Wear)
		}
	}
	if len(l.names) != len(l.Names) || len(l.materials) != len(l.Materials) {
		return fmt.Errorf("%w: duplicate display names", models.ErrInvalidCatalog)
	}
	for _, e := range l.Names {
		if e.Base == "" {
			return fmt.Errorf("%w: %q has no base name", models.ErrInvalidCatalog, e.Display)
		}
		if e.ForcedTier != nil && !e.ForcedTier.Valid() {
			return fmt.Errorf("%w: %q forces unknown tier %q", models.ErrInvalidCatalog, e.Display, *e.ForcedTier)
		}
	}
	return nil
}

func validateKind(k models.OutputKind) error {
	if k.Mode != models.PassThrough && k.Mode != models.LinearRemap {
		return fmt.Errorf("%w: mode %q", models.ErrInvalidCatalog, k.Mode)
	}
	if k.Domain.Degenerate() || !models.FullWear.Contains(k.Domain.Low) || !models.FullWear.Contains(k.Domain.High) {
		return fmt.Errorf("%w: domain %s", models.ErrDegenerateInterval, k.Domain)
	}
	if len(k.Tiers) == 0 {
		return fmt.Errorf("%w: no tiers", models.ErrInvalidCatalog)
	}
	ascending := sort.SliceIsSorted(k.Tiers, func(i, j int) bool {
		return k.Tiers[i].Range.Low < k.Tiers[j].Range.Low
	})
	if !ascending {
		return fmt.Errorf("%w: tiers not in ascending order", models.ErrInvalidCatalog)
	}
	if !near(k.Tiers[0].Range.Low, k.Domain.Low) || !near(k.Tiers[len(k.Tiers)-1].Range.High, k.Domain.High) {
		return fmt.Errorf("%w: tiers don't cover domain %s", models.ErrInvalidCatalog, k.Domain)
	}
	for i, t := range k.Tiers {
		if !t.Name.Valid() {
			return fmt.Errorf("%w: tier %q", models.ErrInvalidCatalog, t.Name)
		}
		if !t.Range.Valid() {
			return fmt.Errorf("%w: tier %s range %s", models.ErrInvalidCatalog, t.Name, t.Range)
		}
		if i > 0 && !near(k.Tiers[i-1].Range.High, t.Range.Low) {
			return fmt.Errorf("%w: gap between %s and %s", models.ErrInvalidCatalog, k.Tiers[i-1].Name, t.Name)
		}
	}
	return nil
}

func near(a, b float64) bool {
	return math.Abs(a-b) < boundaryEpsilon
}
