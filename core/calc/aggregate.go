package calc

import (
	"math"

	"github.com/kilianp07/footprint/core/model"
	"gonum.org/v1/gonum/floats"
)

// Aggregate builds a Result from four weekly figures. Category figures are
// kept unrounded; the total weekly is rounded to 2 decimals and the total
// annual, computed from the unrounded weekly, to 1 decimal.
func Aggregate(transport, energy, food, waste float64) model.Result {
	weekly := []float64{transport, energy, food, waste}
	total := Total(weekly)
	return model.Result{
		Transportation: categoryResult(transport),
		Energy:         categoryResult(energy),
		Food:           categoryResult(food),
		Waste:          categoryResult(waste),
		Summary: model.Summary{
			TotalWeeklyKgCO2: Round(total, 2),
			TotalAnnualKgCO2: Round(total*model.WeeksPerYear, 1),
			HighestCategory:  Highest(weekly),
		},
	}
}

// Total adds weekly figures left to right.
func Total(weekly []float64) float64 {
	var sum float64
	for _, w := range weekly {
		sum += w
	}
	return sum
}

// Highest returns the category with the largest weekly figure. weekly is
// in model.Categories order; ties resolve to the earliest category.
func Highest(weekly []float64) model.Category {
	cats := model.Categories()
	if len(weekly) != len(cats) {
		return cats[0]
	}
	// MaxIdx returns the first index of the maximum.
	return cats[floats.MaxIdx(weekly)]
}

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

func categoryResult(weekly float64) model.CategoryResult {
	return model.CategoryResult{WeeklyKgCO2: weekly, AnnualKgCO2: weekly * model.WeeksPerYear}
}
