// Package recommend derives reduction tips and benchmark comparisons from a
// calculation.
package recommend

import "github.com/kilianp07/footprint/core/model"

// Recommendation is one tip attached to the category it addresses.
type Recommendation struct {
	Category model.Category `json:"category"`
	Text     string         `json:"text"`
}

// Thresholds in kg CO2e per week.
const (
	transportHigh = 50.0
	transportLow  = 10.0
	energyHigh    = 200.0
	energyLow     = 50.0
	foodHigh      = 50.0
	foodLow       = 20.0
	wasteLow      = 5.0

	highElectricityKWh = 400.0
	highMeatKg         = 2.0
	highBeefKg         = 0.5
	maxDomesticFlights = 4
)

// For returns the tips for a and its result, ordered energy, transport,
// food, waste, without duplicates.
func For(a model.Activity, r model.Result) []Recommendation {
	var out []Recommendation
	seen := make(map[Recommendation]bool)
	add := func(c model.Category, texts ...string) {
		for _, t := range texts {
			rec := Recommendation{Category: c, Text: t}
			if seen[rec] {
				continue
			}
			seen[rec] = true
			out = append(out, rec)
		}
	}
	add(model.CategoryEnergy, energy(a.Energy, r.Energy.WeeklyKgCO2)...)
	add(model.CategoryTransportation, transport(a.Transportation, r.Transportation.WeeklyKgCO2)...)
	add(model.CategoryFood, food(a.Food, r.Food.WeeklyKgCO2)...)
	add(model.CategoryWaste, waste(a.Waste, r.Waste.WeeklyKgCO2)...)
	return out
}

func transport(t model.Transportation, weekly float64) []string {
	var recs []string
	if weekly > transportHigh {
		recs = append(recs,
			"Consider cycling or walking for short trips (<5 km)",
			"Use public transport more frequently")
	}
	if t.Car != nil && (t.Car.Type == model.CarPetrol || t.Car.Type == model.CarDiesel) {
		recs = append(recs, "Consider switching to an electric or hybrid vehicle")
	}
	if t.Flights != nil && t.Flights.DomesticPerYear > maxDomesticFlights {
		recs = append(recs, "Reduce domestic flights - try trains for shorter distances")
	}
	if weekly < transportLow {
		recs = append(recs, "Great job! Your transport footprint is very low")
	}
	return recs
}

func energy(e model.Energy, weekly float64) []string {
	var recs []string
	if weekly > energyHigh {
		recs = append(recs,
			"Switch to LED lighting and energy-efficient appliances",
			"Optimize heating/cooling - use programmable thermostats")
	}
	if e.Electricity.GridType == model.GridCoalHeavy {
		recs = append(recs, "Consider installing solar panels or switching to green energy")
	}
	if e.Electricity.KWhPerMonth > highElectricityKWh {
		recs = append(recs, "Your electricity usage is high - audit your appliances")
	}
	if weekly < energyLow {
		recs = append(recs, "Excellent! Your home energy footprint is very efficient")
	}
	return recs
}

func food(f model.Food, weekly float64) []string {
	var recs []string
	if f.Meat.Total() > highMeatKg {
		recs = append(recs,
			"Consider reducing red meat consumption - try chicken or plant proteins",
			"Add more plant-based meals to your weekly diet")
	}
	if f.Meat.Beef > highBeefKg {
		recs = append(recs, "Beef has the highest carbon footprint - try substituting with chicken")
	}
	if weekly > foodHigh {
		recs = append(recs, "Your diet has high emissions - focus on more vegetables and less meat")
	}
	if weekly < foodLow {
		recs = append(recs, "Great! You have a low-carbon diet")
	}
	return recs
}

func waste(w model.Waste, weekly float64) []string {
	var recs []string
	heavy := func(l model.WasteLevel) bool { return l.Rank() >= model.WasteMedium.Rank() }
	if heavy(w.Levels.Plastic) && !w.Recycled(model.StreamPlastic) {
		recs = append(recs,
			"Reduce single-use plastic; start with a reusable bottle and bags.",
			"Begin segregating plastic and find a local recycler.")
	}
	if heavy(w.Levels.Paper) && !w.Recycled(model.StreamPaper) {
		recs = append(recs, "Flatten & recycle cardboard; switch to e-bills where possible.")
	}
	if heavy(w.Levels.Glass) && !w.Recycled(model.StreamGlass) {
		recs = append(recs, "Rinse bottles/cans and recycle; look for return/deposit programs.")
	}
	if heavy(w.Levels.Organic) && !w.Recycled(model.StreamOrganic) {
		recs = append(recs, "Start basic composting or use a community compost drop-off.")
	}
	if weekly < wasteLow {
		recs = append(recs, "Great job! Your waste footprint is quite low this week.")
	}
	return recs
}
