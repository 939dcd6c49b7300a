// Package profit compares material prices against the expected craft output value.
package profit

import (
	"sort"

	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// DefaultCraftSize is the number of materials one craft consumes
const DefaultCraftSize = 5

// WeaponMargin is one material's price against the break-even threshold
type WeaponMargin struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	// Margin is Threshold - Price; positive means the material is cheap enough
	Margin     float64 `json:"margin"`
	Profitable bool    `json:"profitable"`
}

// Summary is the break-even view of a product line
type Summary struct {
	Outputs       int     `json:"outputs"`
	PricedOutputs int     `json:"priced_outputs"`
	AveragePrice  float64 `json:"average_price"`
	CraftSize     int     `json:"craft_size"`
	// Threshold is the average output price spread over one craft's materials
	Threshold float64        `json:"threshold"`
	Weapons   []WeaponMargin `json:"weapons"`
	Cheapest  *WeaponMargin  `json:"cheapest,omitempty"`
}

// Summarize averages the output prices and rates every weapon against the
// per-material threshold. Unpriced outputs still count toward the average.
// Weapons come back sorted by ascending price.
func Summarize(outputs, weapons []models.PriceableItem, craftSize int) Summary {
	if craftSize <= 0 {
		craftSize = DefaultCraftSize
	}
	s := Summary{Outputs: len(outputs), CraftSize: craftSize}

	total := 0.0
	for _, o := range outputs {
		total += o.MinPrice
		if o.MinPrice > 0 {
			s.PricedOutputs++
		}
	}
	if len(outputs) > 0 {
		s.AveragePrice = total / float64(len(outputs))
	}
	s.Threshold = s.AveragePrice / float64(craftSize)

	s.Weapons = make([]WeaponMargin, 0, len(weapons))
	for _, w := range weapons {
		margin := s.Threshold - w.MinPrice
		s.Weapons = append(s.Weapons, WeaponMargin{
			Name:       w.Name,
			Price:      w.MinPrice,
			Margin:     margin,
			Profitable: w.MinPrice > 0 && margin > 0,
		})
	}
	sort.SliceStable(s.Weapons, func(i, j int) bool {
		return s.Weapons[i].Price < s.Weapons[j].Price
	})

	for i := range s.Weapons {
		if s.Weapons[i].Price > 0 {
			s.Cheapest = &s.Weapons[i]
			break
		}
	}
	return s
}
