package models

// PriceableItem is an item shown to the trader together with its last known lowest price
type PriceableItem struct {
	Name     string  `json:"name"`
	MinPrice float64 `json:"min_price"`
}

// Category selects one of the two item lists a product line keeps
type Category string

const (
	// CategoryPrimary holds the crafted outputs (knives or gloves)
	CategoryPrimary Category = "primary"
	// CategoryWeapons holds the material weapons
	CategoryWeapons Category = "weapons"
)

// ParseCategory maps user input onto a Category. The primary list may also be
// addressed by its product-line key ("knives", "gloves").
func ParseCategory(s, primaryKey string) (Category, bool) {
	switch s {
	case "", string(CategoryPrimary), primaryKey:
		return CategoryPrimary, true
	case string(CategoryWeapons):
		return CategoryWeapons, true
	default:
		return "", false
	}
}

// ItemState is the persisted price state of one product line
type ItemState struct {
	Primary []PriceableItem `json:"primary"`
	Weapons []PriceableItem `json:"weapons"`
}

// List returns the items of a category
func (s *ItemState) List(c Category) []PriceableItem {
	if c == CategoryWeapons {
		return s.Weapons
	}
	return s.Primary
}

// Clone returns a deep copy so callers can't mutate shared state
func (s ItemState) Clone() ItemState {
	return ItemState{
		Primary: append([]PriceableItem(nil), s.Primary...),
		Weapons: append([]PriceableItem(nil), s.Weapons...),
	}
}
