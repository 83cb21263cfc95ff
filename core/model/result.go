package model

// WeeksPerYear converts weekly figures to annual ones.
const WeeksPerYear = 52

// CategoryResult holds one category's emissions in kg CO2e.
type CategoryResult struct {
	WeeklyKgCO2 float64 `json:"weekly_kg_co2"`
	AnnualKgCO2 float64 `json:"annual_kg_co2"`
}

// Summary holds the rounded totals and the dominant category.
type Summary struct {
	TotalWeeklyKgCO2 float64  `json:"total_weekly_kg_co2"`
	TotalAnnualKgCO2 float64  `json:"total_annual_kg_co2"`
	HighestCategory  Category `json:"highest_category"`
}

// Result is the immutable output of one calculation.
type Result struct {
	Transportation CategoryResult `json:"transportation"`
	Energy         CategoryResult `json:"energy"`
	Food           CategoryResult `json:"food"`
	Waste          CategoryResult `json:"waste"`
	Summary        Summary        `json:"summary"`
}

// Category returns the entry for c. Unknown categories yield a zero entry.
func (r Result) Category(c Category) CategoryResult {
	switch c {
	case CategoryTransportation:
		return r.Transportation
	case CategoryEnergy:
		return r.Energy
	case CategoryFood:
		return r.Food
	case CategoryWaste:
		return r.Waste
	default:
		return CategoryResult{}
	}
}

// Weekly returns the weekly figures in precedence order.
func (r Result) Weekly() []float64 {
	return []float64{
		r.Transportation.WeeklyKgCO2,
		r.Energy.WeeklyKgCO2,
		r.Food.WeeklyKgCO2,
		r.Waste.WeeklyKgCO2,
	}
}
