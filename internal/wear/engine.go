package wear

import (
	"fmt"

	"github.com/mswatii/cs2-craftcalc/internal/catalog"
	"github.com/mswatii/cs2-craftcalc/internal/models"
)

// Engine resolves names against a catalog and runs the wear arithmetic
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates an engine over the given catalog
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Catalog returns the configuration the engine reads from
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Prediction is the outcome of crafting with one material wear value
type Prediction struct {
	Line         string          `json:"line"`
	Kind         string          `json:"kind"`
	Material     string          `json:"material"`
	MaterialWear float64         `json:"material_wear"`
	OutputWear   float64         `json:"output_wear"`
	Tier         models.TierName `json:"tier"`
	// MaterialExterior is the material's own exterior on the market scale
	MaterialExterior string `json:"material_exterior"`
}

// Limit is the answer to "how worn may my material be for this exterior"
type Limit struct {
	Line            string          `json:"line"`
	Kind            string          `json:"kind"`
	Material        string          `json:"material"`
	Tier            models.TierName `json:"tier,omitempty"`
	Ceiling         float64         `json:"ceiling"`
	MaxMaterialWear float64         `json:"max_material_wear"`
}

func (e *Engine) lookup(lineID, kindID, material string) (models.OutputKind, models.MaterialSpec, error) {
	line, err := e.catalog.Line(lineID)
	if err != nil {
		return models.OutputKind{}, models.MaterialSpec{}, err
	}
	kind, err := line.Kind(kindID)
	if err != nil {
		return models.OutputKind{}, models.MaterialSpec{}, err
	}
	spec, err := line.Material(material)
	if err != nil {
		return models.OutputKind{}, models.MaterialSpec{}, err
	}
	return kind, spec, nil
}

// MapWear returns the output wear a material with wear x produces
func (e *Engine) MapWear(lineID, kindID, material string, x float64) (float64, error) {
	kind, spec, err := e.lookup(lineID, kindID, material)
	if err != nil {
		return 0, err
	}
	return Transform(kind, spec.Wear, x)
}

// ClassifyTier returns the exterior of output wear v
func (e *Engine) ClassifyTier(lineID, kindID string, v float64) (models.TierName, error) {
	line, err := e.catalog.Line(lineID)
	if err != nil {
		return "", err
	}
	kind, err := line.Kind(kindID)
	if err != nil {
		return "", err
	}
	return Classify(kind, v)
}

// Predict maps x and classifies the result in one step
func (e *Engine) Predict(lineID, kindID, material string, x float64) (Prediction, error) {
	kind, spec, err := e.lookup(lineID, kindID, material)
	if err != nil {
		return Prediction{}, err
	}
	out, err := Transform(kind, spec.Wear, x)
	if err != nil {
		return Prediction{}, err
	}
	tier, err := Classify(kind, out)
	if err != nil {
		return Prediction{}, err
	}
	mw := spec.Wear.Clamp(models.FullWear.Clamp(x))
	return Prediction{
		Line:             lineID,
		Kind:             kind.ID,
		Material:         spec.Name,
		MaterialWear:     mw,
		MaterialExterior: models.GetWearCategory(mw),
		OutputWear:       out,
		Tier:             tier,
	}, nil
}

// MaxMaterialWear returns the highest material wear that keeps the output at
// or below ceiling
func (e *Engine) MaxMaterialWear(lineID, kindID, material string, ceiling float64) (Limit, error) {
	kind, spec, err := e.lookup(lineID, kindID, material)
	if err != nil {
		return Limit{}, err
	}
	w, err := Inverse(kind, spec.Wear, ceiling)
	if err != nil {
		return Limit{}, err
	}
	return Limit{
		Line:            lineID,
		Kind:            kind.ID,
		Material:        spec.Name,
		Ceiling:         ceiling,
		MaxMaterialWear: w,
	}, nil
}

// MaxMaterialWearForTier uses the upper bound of tier as the ceiling
func (e *Engine) MaxMaterialWearForTier(lineID, kindID, material string, tier models.TierName) (Limit, error) {
	kind, _, err := e.lookup(lineID, kindID, material)
	if err != nil {
		return Limit{}, err
	}
	t, ok := kind.Tier(tier)
	if !ok {
		return Limit{}, fmt.Errorf("%w: %s has no %s exterior", ErrTierNotFound, kind.ID, tier)
	}
	limit, err := e.MaxMaterialWear(lineID, kind.ID, material, t.Range.High)
	if err != nil {
		return Limit{}, err
	}
	limit.Tier = tier
	return limit, nil
}
