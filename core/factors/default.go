package factors

import "github.com/kilianp07/footprint/core/model"

// defaultFactors are kg CO2e per km, per kWh, per scf, per gallon or per kg.
var defaultFactors = map[model.Category]map[string]float64{
	model.CategoryTransportation: {
		string(model.CarPetrol):    0.23,
		string(model.CarDiesel):    0.25,
		string(model.CarElectric):  0.04,
		string(model.CarHybrid):    0.12,
		VariantBus:                 0.09,
		VariantTrain:               0.03,
		VariantFlightDomestic:      0.13,
		VariantFlightInternational: 0.10,
	},
	model.CategoryEnergy: {
		string(model.GridUSAverage):  0.45,
		string(model.GridCoalHeavy):  0.9,
		string(model.GridNaturalGas): 0.5,
		string(model.GridRenewable):  0.05,
		VariantNaturalGas:            0.0544,
		VariantLPG:                   5.72,
	},
	model.CategoryFood: {
		VariantBeef:       27.0,
		VariantChicken:    6.9,
		VariantPork:       7.2,
		VariantFish:       2.9,
		VariantMilk:       3.3,
		VariantCheese:     13.5,
		VariantVegetables: 0.4,
		VariantFruits:     0.7,
		VariantGrains:     2.7,
	},
	model.CategoryWaste: {
		"Plastic_mixed":    3.0,
		"Plastic_recycled": 2.1,
		"Paper_mixed":      1.0,
		"Paper_recycled":   0.5,
		"Glass_mixed":      0.85,
		"Glass_recycled":   0.64,
		"Metal_mixed":      2.0,
		"Metal_recycled":   1.5,
		"Organic_landfill": 0.5,
		"Organic_compost":  0.1,
	},
}

// defaultBins are kg per week for each waste level.
var defaultBins = map[model.WasteStream]map[model.WasteLevel]float64{
	model.StreamPlastic: {model.WasteNone: 0, model.WasteLow: 0.12, model.WasteMedium: 0.40, model.WasteHigh: 0.80},
	model.StreamPaper:   {model.WasteNone: 0, model.WasteLow: 0.5, model.WasteMedium: 1.5, model.WasteHigh: 3.0},
	model.StreamGlass:   {model.WasteNone: 0, model.WasteLow: 0.3, model.WasteMedium: 0.8, model.WasteHigh: 1.5},
	model.StreamMetal:   {model.WasteNone: 0, model.WasteLow: 0.2, model.WasteMedium: 0.6, model.WasteHigh: 1.2},
	model.StreamOrganic: {model.WasteNone: 0, model.WasteLow: 2.0, model.WasteMedium: 4.0, model.WasteHigh: 7.0},
}

var defaultTable = mustNew(defaultFactors, defaultBins)

// Default returns the reference table. The same instance is returned on
// every call.
func Default() *Table { return defaultTable }

func mustNew(f map[model.Category]map[string]float64, b map[model.WasteStream]map[model.WasteLevel]float64) *Table {
	t, err := New(f, b)
	if err != nil {
		panic(err)
	}
	return t
}
