package models

import (
	"fmt"
	"strings"
)

// WearInterval is an inclusive [Low, High] range of wear (float) values
type WearInterval struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// Contains reports whether v lies inside the interval, bounds included
func (w WearInterval) Contains(v float64) bool {
	return w.Low <= v && v <= w.High
}

// Clamp forces v into the interval
func (w WearInterval) Clamp(v float64) float64 {
	if v < w.Low {
		return w.Low
	}
	if v > w.High {
		return w.High
	}
	return v
}

// Width returns High - Low
func (w WearInterval) Width() float64 {
	return w.High - w.Low
}

// Valid reports whether Low <= High
func (w WearInterval) Valid() bool {
	return w.Low <= w.High
}

// Degenerate reports whether the interval has no usable width
func (w WearInterval) Degenerate() bool {
	return w.High <= w.Low
}

func (w WearInterval) String() string {
	return fmt.Sprintf("[%.2f, %.2f]", w.Low, w.High)
}

// FullWear is the global wear domain every item lives in
var FullWear = WearInterval{Low: 0, High: 1}

// TierName is the English exterior name used by the market
type TierName string

const (
	FactoryNew    TierName = "Factory New"
	MinimalWear   TierName = "Minimal Wear"
	FieldTested   TierName = "Field-Tested"
	WellWorn      TierName = "Well-Worn"
	BattleScarred TierName = "Battle-Scarred"
)

// AllTiers lists the exteriors from most to least pristine
var AllTiers = []TierName{FactoryNew, MinimalWear, FieldTested, WellWorn, BattleScarred}

var tierCodes = map[TierName]string{
	FactoryNew:    "FN",
	MinimalWear:   "MW",
	FieldTested:   "FT",
	WellWorn:      "WW",
	BattleScarred: "BS",
}

// Labels shown in the localized interface
var tierLabels = map[TierName]string{
	FactoryNew:    "崭新出厂 (FN)",
	MinimalWear:   "略有磨损 (MW)",
	FieldTested:   "久经沙场 (FT)",
	WellWorn:      "破损不堪 (WW)",
	BattleScarred: "战痕累累 (BS)",
}

// Code returns the two-letter abbreviation (FN, MW, ...)
func (t TierName) Code() string {
	return tierCodes[t]
}

// Label returns the localized display label
func (t TierName) Label() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is one of the five known exteriors
func (t TierName) Valid() bool {
	_, ok := tierCodes[t]
	return ok
}

// ParseTierName accepts an English name, a short code or a localized label
func ParseTierName(s string) (TierName, error) {
	s = strings.TrimSpace(s)
	for _, t := range AllTiers {
		if strings.EqualFold(s, string(t)) || strings.EqualFold(s, t.Code()) || s == t.Label() {
			return t, nil
		}
	}
	// Accept "field tested" / "field_tested" style input too
	for _, t := range AllTiers {
		if squashTier(s) == squashTier(string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown exterior %q", s)
}

var tierSquasher = strings.NewReplacer(" ", "", "-", "", "_", "")

func squashTier(s string) string {
	return tierSquasher.Replace(strings.ToLower(s))
}

// Tier is a named exterior bracket within an output kind's domain
type Tier struct {
	Name  TierName     `json:"name" yaml:"name"`
	Range WearInterval `json:"range" yaml:"range"`
}

// TransformMode selects how material wear turns into output wear
type TransformMode string

const (
	// PassThrough reinterprets the material wear directly as the output wear
	PassThrough TransformMode = "pass_through"
	// LinearRemap maps the material interval proportionally onto the output domain
	LinearRemap TransformMode = "linear_remap"
)

// OutputKind describes one family of crafted outputs (knives, gloves, ...)
type OutputKind struct {
	ID     string        `json:"id" yaml:"id"`
	Name   string        `json:"name" yaml:"name"`
	Domain WearInterval  `json:"domain" yaml:"domain"`
	Mode   TransformMode `json:"mode" yaml:"mode"`
	Tiers  []Tier        `json:"tiers" yaml:"tiers"`
}

// Tier returns the bracket for name, if the kind defines it
func (k OutputKind) Tier(name TierName) (Tier, bool) {
	for _, t := range k.Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// MaterialSpec is a craft ingredient and the wear range it can drop with
type MaterialSpec struct {
	Name string       `json:"name" yaml:"name"`
	Wear WearInterval `json:"wear" yaml:"wear"`
}

// StandardTiers are the market-wide exterior brackets over [0, 1]
func StandardTiers() []Tier {
	return []Tier{
		{Name: FactoryNew, Range: WearInterval{0.00, 0.07}},
		{Name: MinimalWear, Range: WearInterval{0.07, 0.15}},
		{Name: FieldTested, Range: WearInterval{0.15, 0.38}},
		{Name: WellWorn, Range: WearInterval{0.38, 0.45}},
		{Name: BattleScarred, Range: WearInterval{0.45, 1.00}},
	}
}

// GetWearCategory returns the market exterior for a float value on the standard scale
func GetWearCategory(floatValue float64) string {
	for _, t := range StandardTiers() {
		if t.Range.Contains(floatValue) {
			return string(t.Name)
		}
	}
	return "Unknown"
}
