// Package factors holds the emission factor table shared by the local
// calculators and the input normalizer.
//
// A Table is built once and never mutated, so it is safe to share between
// goroutines without locking.
package factors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kilianp07/footprint/core/model"
)

// Variant names used by the calculators. Car and grid variants are the
// string values of model.CarType and model.GridType.
const (
	VariantBus                 = "Public Bus"
	VariantTrain               = "Train (Regular)"
	VariantFlightDomestic      = "Flight (Domestic)"
	VariantFlightInternational = "Flight (International)"

	VariantNaturalGas = "Natural Gas"
	VariantLPG        = "Propane (LPG)"

	VariantBeef       = "Beef (Red Meat)"
	VariantChicken    = "Chicken"
	VariantPork       = "Pork"
	VariantFish       = "Fish (Wild-caught)"
	VariantMilk       = "Milk (Dairy)"
	VariantCheese     = "Cheese (Hard)"
	VariantVegetables = "Vegetables (Root)"
	VariantFruits     = "Bananas"
	VariantGrains     = "Rice"
)

// WasteVariant returns the factor variant for a stream and disposal method,
// e.g. "Plastic_recycled" or "Organic_compost".
func WasteVariant(s model.WasteStream, recycled bool) string {
	if s == model.StreamOrganic {
		if recycled {
			return "Organic_compost"
		}
		return "Organic_landfill"
	}
	name := string(s)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	if recycled {
		return name + "_recycled"
	}
	return name + "_mixed"
}

// Table maps (category, variant) to kg CO2e per unit and holds the waste
// level bins in kg per week.
type Table struct {
	factors map[model.Category]map[string]float64
	bins    map[model.WasteStream]map[model.WasteLevel]float64
}

// New copies the provided factors and bins into an immutable Table. Every
// factor must be strictly positive and every bin non-negative.
func New(factors map[model.Category]map[string]float64, bins map[model.WasteStream]map[model.WasteLevel]float64) (*Table, error) {
	t := &Table{
		factors: make(map[model.Category]map[string]float64, len(factors)),
		bins:    make(map[model.WasteStream]map[model.WasteLevel]float64, len(bins)),
	}
	for cat, variants := range factors {
		if !cat.Valid() {
			return nil, fmt.Errorf("unknown category %q", cat)
		}
		m := make(map[string]float64, len(variants))
		for name, f := range variants {
			if !(f > 0) {
				return nil, fmt.Errorf("factor %s/%s must be positive, got %v", cat, name, f)
			}
			m[name] = f
		}
		t.factors[cat] = m
	}
	for stream, levels := range bins {
		m := make(map[model.WasteLevel]float64, len(levels))
		for lvl, kg := range levels {
			if lvl.Rank() < 0 {
				return nil, fmt.Errorf("unknown waste level %q for %s", lvl, stream)
			}
			if kg < 0 {
				return nil, fmt.Errorf("bin %s/%s must not be negative", stream, lvl)
			}
			m[lvl] = kg
		}
		t.bins[stream] = m
	}
	return t, nil
}

// Factor returns the factor for variant within category. It never returns a
// zero or negative value.
func (t *Table) Factor(category model.Category, variant string) (float64, error) {
	if f, ok := t.factors[category][variant]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %s/%q", model.ErrUnknownFactorKind, category, variant)
}

// Has reports whether the table holds variant within category.
func (t *Table) Has(category model.Category, variant string) bool {
	_, ok := t.factors[category][variant]
	return ok
}

// Variants lists the variants of category in lexical order.
func (t *Table) Variants(category model.Category) []string {
	out := make([]string, 0, len(t.factors[category]))
	for name := range t.factors[category] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Bin returns the weekly kg associated with a waste level. An empty level
// is treated as none.
func (t *Table) Bin(stream model.WasteStream, level model.WasteLevel) (float64, error) {
	if level == "" {
		level = model.WasteNone
	}
	if kg, ok := t.bins[stream][level]; ok {
		return kg, nil
	}
	return 0, fmt.Errorf("%w: waste bin %s/%q", model.ErrUnknownFactorKind, stream, level)
}
