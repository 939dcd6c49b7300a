package catalog

import (
	"strings"

	"golang.org/x/text/width"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// DefaultTier is used for pricing when the caller picks no exterior
const DefaultTier = models.FieldTested

// normalizeName folds fullwidth punctuation to ASCII, collapses whitespace and
// drops spacing around the "|" separator so "暗影双匕｜多普勒" and
// "暗影双匕 | 多普勒" share one key
func normalizeName(s string) string {
	s = width.Fold.String(s)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, " |", "|")
	s = strings.ReplaceAll(s, "| ", "|")
	return strings.ToLower(s)
}

// stripTier removes a trailing " (Exterior)" suffix from a market hash name
func stripTier(name string) string {
	for _, t := range models.AllTiers {
		suffix := " (" + string(t) + ")"
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}

// TierFor returns the exterior a display name is priced at, given the caller's
// choice. ok is false for entries whose base name already carries an exterior.
func (e NameEntry) TierFor(chosen *models.TierName) (tier models.TierName, ok bool) {
	if e.EmbeddedTier {
		return "", false
	}
	if e.ForcedTier != nil {
		return *e.ForcedTier, true
	}
	if chosen != nil {
		return *chosen, true
	}
	return DefaultTier, true
}

// ResolveCanonicalName builds the market hash name for a display label.
//
// Entries with an embedded exterior are returned unchanged. Otherwise the
// entry's forced tier wins over chosen, and Field-Tested is used when neither
// is set.
func (l *Line) ResolveCanonicalName(display string, chosen *models.TierName) (string, error) {
	e, ok := l.Entry(display)
	if !ok {
		names := make([]string, 0, len(l.Names))
		for _, n := range l.Names {
			names = append(names, n.Display)
		}
		return "", &models.LookupError{Kind: models.ErrNotMapped, Name: display, Suggestions: suggest(display, names)}
	}
	tier, ok := e.TierFor(chosen)
	if !ok {
		return e.Base, nil
	}
	return e.Base + " (" + string(tier) + ")", nil
}

// Resolver returns a closure over ResolveCanonicalName with a fixed exterior choice
func (l *Line) Resolver(chosen *models.TierName) func(string) (string, error) {
	return func(display string) (string, error) {
		return l.ResolveCanonicalName(display, chosen)
	}
}
