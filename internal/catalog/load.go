package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// File is the on-disk shape of a catalog override file
type File struct {
	Lines []*Line `yaml:"lines"`
}

// LoadFile reads a YAML catalog file and merges it over the built-in lines.
// Entries are matched by id (lines, kinds), name (materials, items) or display
// label (names); matches are replaced and new entries appended.
func LoadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(b)
}

// Parse merges YAML catalog data over the built-in lines
func Parse(data []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidCatalog, err)
	}

	base := map[string]*Line{
		LineSpectrum:   SpectrumLine(),
		LineRevolution: RevolutionLine(),
	}
	lines := []*Line{base[LineSpectrum], base[LineRevolution]}
	for _, l := range f.Lines {
		if l == nil {
			continue
		}
		if existing, ok := base[l.ID]; ok {
			mergeLine(existing, l)
			continue
		}
		if l.CraftSize == 0 {
			l.CraftSize = defaultCraftSize
		}
		base[l.ID] = l
		lines = append(lines, l)
	}
	return New(lines...)
}

func mergeLine(dst, src *Line) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.PrimaryKey != "" {
		dst.PrimaryKey = src.PrimaryKey
	}
	if src.DefaultKind != "" {
		dst.DefaultKind = src.DefaultKind
	}
	if src.CraftSize > 0 {
		dst.CraftSize = src.CraftSize
	}
	for _, k := range src.Kinds {
		dst.Kinds = upsert(dst.Kinds, k, func(a, b models.OutputKind) bool { return a.ID == b.ID })
	}
	for _, m := range src.Materials {
		dst.Materials = upsert(dst.Materials, m, func(a, b models.MaterialSpec) bool {
			return normalizeName(a.Name) == normalizeName(b.Name)
		})
	}
	sameItem := func(a, b models.PriceableItem) bool { return normalizeName(a.Name) == normalizeName(b.Name) }
	for _, it := range src.Outputs {
		dst.Outputs = upsert(dst.Outputs, it, sameItem)
	}
	for _, it := range src.Weapons {
		dst.Weapons = upsert(dst.Weapons, it, sameItem)
	}
	for _, e := range src.Names {
		dst.Names = upsert(dst.Names, e, func(a, b NameEntry) bool {
			return normalizeName(a.Display) == normalizeName(b.Display)
		})
	}
}

func upsert[T any](list []T, v T, same func(a, b T) bool) []T {
	for i := range list {
		if same(list[i], v) {
			list[i] = v
			return list
		}
	}
	return append(list, v)
}
