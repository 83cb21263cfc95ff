package resolve

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/kilianp07/footprint/core/calc"
	"github.com/kilianp07/footprint/core/model"
)

// Shape identifies which accepted layout a remote response used.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	// ShapeDirect is a Result with a summary and all four categories.
	ShapeDirect
	// ShapeWrapped is {"results": <direct or partial>}.
	ShapeWrapped
	// ShapePartial is a summary with at least one category; missing
	// categories count as zero.
	ShapePartial
)

func (s Shape) String() string {
	switch s {
	case ShapeDirect:
		return "direct"
	case ShapeWrapped:
		return "wrapped"
	case ShapePartial:
		return "partial"
	default:
		return "unrecognized"
	}
}

var (
	errUnparsable   = errors.New("response is not valid JSON")
	errUnrecognized = errors.New("unrecognized response shape")
	errEmpty        = errors.New("response carries no summary figures")
)

type wireCategory struct {
	Weekly *float64 `json:"weekly_kg_co2"`
	Annual *float64 `json:"annual_kg_co2"`
}

type wireSummary struct {
	TotalWeekly  *float64 `json:"total_weekly_kg_co2"`
	TotalAnnual  *float64 `json:"total_annual_kg_co2"`
	Highest      *string  `json:"highest_category"`
	HighestAlias *string  `json:"category_with_highest_emission"`
}

type wireResult struct {
	Transportation *wireCategory    `json:"transportation"`
	Energy         *wireCategory    `json:"energy"`
	Food           *wireCategory    `json:"food"`
	Waste          *wireCategory    `json:"waste"`
	Summary        *wireSummary     `json:"summary"`
	Results        *json.RawMessage `json:"results"`
}

func (w wireResult) categories() []*wireCategory {
	return []*wireCategory{w.Transportation, w.Energy, w.Food, w.Waste}
}

func (w wireResult) categoryCount() int {
	n := 0
	for _, c := range w.categories() {
		if c != nil {
			n++
		}
	}
	return n
}

// match applies the direct and partial rules to a single level.
func (w wireResult) match() Shape {
	if w.Summary == nil {
		return ShapeUnrecognized
	}
	switch w.categoryCount() {
	case 4:
		return ShapeDirect
	case 0:
		return ShapeUnrecognized
	default:
		return ShapePartial
	}
}

// ParseResult decodes a remote response body. Layouts are tried in order:
// direct, wrapped, partial. The returned Result is canonical: missing
// annual figures are derived from weekly ones, totals are rounded like a
// local computation and an invalid highest category is recomputed.
func ParseResult(body []byte) (model.Result, Shape, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || !json.Valid(body) {
		return model.Result{}, ShapeUnrecognized, errUnparsable
	}
	var top wireResult
	if err := json.Unmarshal(body, &top); err != nil {
		return model.Result{}, ShapeUnrecognized, errUnrecognized
	}

	shape := top.match()
	w := top
	if shape != ShapeDirect && top.Results != nil && string(*top.Results) != "null" {
		var inner wireResult
		if err := json.Unmarshal(*top.Results, &inner); err == nil && inner.match() != ShapeUnrecognized {
			shape, w = ShapeWrapped, inner
		}
	}
	if shape == ShapeUnrecognized {
		return model.Result{}, shape, errUnrecognized
	}
	if w.Summary.TotalWeekly == nil && w.Summary.Highest == nil && w.Summary.HighestAlias == nil {
		return model.Result{}, shape, errEmpty
	}
	return canonicalize(w), shape, nil
}

func canonicalize(w wireResult) model.Result {
	cats := w.categories()
	entries := make([]model.CategoryResult, len(cats))
	weekly := make([]float64, len(cats))
	// reported is set when any category carries a weekly figure.
	reported := false
	for i, c := range cats {
		if c == nil {
			continue
		}
		if c.Weekly != nil {
			entries[i].WeeklyKgCO2 = *c.Weekly
			reported = true
		}
		if c.Annual != nil {
			entries[i].AnnualKgCO2 = *c.Annual
		} else {
			entries[i].AnnualKgCO2 = entries[i].WeeklyKgCO2 * model.WeeksPerYear
		}
		weekly[i] = entries[i].WeeklyKgCO2
	}

	// A reported weekly total is usually already rounded, so the annual
	// total is derived from the category figures like a local computation.
	sum := calc.Total(weekly)
	total := sum
	if w.Summary.TotalWeekly != nil {
		total = *w.Summary.TotalWeekly
	}
	annual := sum * model.WeeksPerYear
	if !reported {
		annual = total * model.WeeksPerYear
	}
	if w.Summary.TotalAnnual != nil {
		annual = *w.Summary.TotalAnnual
	}

	highest := calc.Highest(weekly)
	for _, h := range []*string{w.Summary.Highest, w.Summary.HighestAlias} {
		if h != nil && model.Category(*h).Valid() {
			highest = model.Category(*h)
			break
		}
	}

	return model.Result{
		Transportation: entries[0],
		Energy:         entries[1],
		Food:           entries[2],
		Waste:          entries[3],
		Summary: model.Summary{
			TotalWeeklyKgCO2: calc.Round(total, 2),
			TotalAnnualKgCO2: calc.Round(annual, 1),
			HighestCategory:  highest,
		},
	}
}
