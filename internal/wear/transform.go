// Package wear maps material wear onto crafted output wear, classifies output
// wear into exterior tiers and answers the inverse question: how worn can a
// material be and still yield a wanted exterior.
//
// Everything here is a pure function over configuration and safe for
// concurrent use.
package wear

import (
	"fmt"
	"math"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// Error kinds, re-exported for callers that only import this package
var (
	ErrUnknownMaterial    = models.ErrUnknownMaterial
	ErrDegenerateInterval = models.ErrDegenerateInterval
	ErrCeilingBelowDomain = models.ErrCeilingBelowDomain
	ErrTierNotFound       = models.ErrTierNotFound
)

// Output wear is reported with six decimal digits
const precision = 1e6

func round6(v float64) float64 {
	return math.Round(v*precision) / precision
}

// Transform maps a material wear value onto the output kind's wear scale.
//
// x is clamped into [0, 1] and then into the material's own interval; out of
// range input is corrected, never rejected. A material with high <= low is a
// configuration fault in either mode.
func Transform(kind models.OutputKind, material models.WearInterval, x float64) (float64, error) {
	if material.Degenerate() {
		return 0, fmt.Errorf("%w: material %s", ErrDegenerateInterval, material)
	}
	x = models.FullWear.Clamp(x)
	x = material.Clamp(x)

	switch kind.Mode {
	case models.PassThrough:
		return round6(kind.Domain.Clamp(x)), nil
	case models.LinearRemap:
		pos := (x - material.Low) / material.Width()
		out := kind.Domain.Low + pos*kind.Domain.Width()
		return round6(kind.Domain.Clamp(out)), nil
	default:
		return 0, fmt.Errorf("unsupported transform mode %q", kind.Mode)
	}
}

// Inverse returns the highest material wear allowed for an output ceiling.
// The ceiling's position in the output domain is carried over to the
// same position in the material interval, for every transform mode. A ceiling
// under the output domain can't be met; one above it saturates to the
// material's maximum.
func Inverse(kind models.OutputKind, material models.WearInterval, ceiling float64) (float64, error) {
	domain := kind.Domain
	if domain.Degenerate() {
		return 0, fmt.Errorf("%w: output domain %s", ErrDegenerateInterval, domain)
	}
	if material.Degenerate() {
		return 0, fmt.Errorf("%w: material %s", ErrDegenerateInterval, material)
	}
	switch kind.Mode {
	case models.PassThrough, models.LinearRemap:
	default:
		return 0, fmt.Errorf("unsupported transform mode %q", kind.Mode)
	}

	ratio := (ceiling - domain.Low) / domain.Width()
	if ratio < 0 {
		return 0, fmt.Errorf("%w: %.6f < %.6f", ErrCeilingBelowDomain, ceiling, domain.Low)
	}
	ratio = math.Min(ratio, 1)
	return math.Min(material.Low+ratio*material.Width(), material.High), nil
}

// Classify returns the first tier, in ascending order, whose inclusive range
// holds v. Adjacent tiers share their boundary, so a boundary value lands in
// the lower tier.
func Classify(kind models.OutputKind, v float64) (models.TierName, error) {
	for _, t := range kind.Tiers {
		if t.Range.Contains(v) {
			return t.Name, nil
		}
	}
	return "", fmt.Errorf("%w: %.6f in %s", ErrTierNotFound, v, kind.ID)
}
