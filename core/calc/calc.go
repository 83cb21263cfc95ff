// Package calc converts an Activity into weekly emissions per category and
// aggregates them into a Result. Every function is pure. Terms are added
// one at a time in a fixed order so that a remote service computing the
// same sums returns bit-identical figures. Products are converted
// explicitly so they are never fused into the following addition.
package calc

import (
	"github.com/kilianp07/footprint/core/factors"
	"github.com/kilianp07/footprint/core/model"
)

const (
	domesticFlightKm      = 1000.0
	internationalFlightKm = 8000.0
	monthlyToWeekly       = 12.0 / model.WeeksPerYear
)

// Transport returns weekly kg CO2e for car, bus, train and flights. Flight
// counts are yearly and spread over 52 weeks.
func Transport(t model.Transportation, tbl *factors.Table) (float64, error) {
	var total float64
	if t.Car != nil {
		f, err := tbl.Factor(model.CategoryTransportation, string(t.Car.Type))
		if err != nil {
			return 0, err
		}
		total += float64(t.Car.KmPerWeek * f)
	}
	if t.Bus != nil {
		f, err := tbl.Factor(model.CategoryTransportation, factors.VariantBus)
		if err != nil {
			return 0, err
		}
		total += float64(t.Bus.KmPerWeek * f)
	}
	if t.Train != nil {
		f, err := tbl.Factor(model.CategoryTransportation, factors.VariantTrain)
		if err != nil {
			return 0, err
		}
		total += float64(t.Train.KmPerWeek * f)
	}
	if t.Flights != nil {
		dom, err := tbl.Factor(model.CategoryTransportation, factors.VariantFlightDomestic)
		if err != nil {
			return 0, err
		}
		intl, err := tbl.Factor(model.CategoryTransportation, factors.VariantFlightInternational)
		if err != nil {
			return 0, err
		}
		yearly := float64(float64(t.Flights.DomesticPerYear)*domesticFlightKm*dom) +
			float64(float64(t.Flights.InternationalPerYear)*internationalFlightKm*intl)
		total += yearly / model.WeeksPerYear
	}
	return total, nil
}

// Energy returns weekly kg CO2e from monthly electricity, natural gas and
// LPG readings.
func Energy(e model.Energy, tbl *factors.Table) (float64, error) {
	grid, err := tbl.Factor(model.CategoryEnergy, string(e.Electricity.GridType.OrDefault()))
	if err != nil {
		return 0, err
	}
	monthly := e.Electricity.KWhPerMonth * grid
	if e.NaturalGas != nil {
		f, err := tbl.Factor(model.CategoryEnergy, factors.VariantNaturalGas)
		if err != nil {
			return 0, err
		}
		monthly += float64(e.NaturalGas.SCFPerMonth * f)
	}
	if e.LPG != nil {
		f, err := tbl.Factor(model.CategoryEnergy, factors.VariantLPG)
		if err != nil {
			return 0, err
		}
		monthly += float64(e.LPG.GallonsPerMonth * f)
	}
	return monthly * monthlyToWeekly, nil
}

// Food returns weekly kg CO2e, summing kilograms times factor in meat,
// dairy, plants order.
func Food(f model.Food, tbl *factors.Table) (float64, error) {
	items := []struct {
		variant string
		kg      float64
	}{
		{factors.VariantBeef, f.Meat.Beef},
		{factors.VariantChicken, f.Meat.Chicken},
		{factors.VariantPork, f.Meat.Pork},
		{factors.VariantFish, f.Meat.Fish},
		{factors.VariantMilk, f.Dairy.Milk},
		{factors.VariantCheese, f.Dairy.Cheese},
		{factors.VariantVegetables, f.Plants.Vegetables},
		{factors.VariantFruits, f.Plants.Fruits},
		{factors.VariantGrains, f.Plants.Grains},
	}
	var total float64
	for _, it := range items {
		v, err := tbl.Factor(model.CategoryFood, it.variant)
		if err != nil {
			return 0, err
		}
		total += float64(it.kg * v)
	}
	return total, nil
}

// Waste returns weekly kg CO2e. Each stream's level maps to a weekly mass
// that is charged at the recycled (or compost) factor when diverted and the
// mixed (or landfill) factor otherwise.
func Waste(w model.Waste, tbl *factors.Table) (float64, error) {
	var total float64
	for _, s := range model.WasteStreams() {
		kg, err := tbl.Bin(s, w.Levels.Level(s))
		if err != nil {
			return 0, err
		}
		f, err := tbl.Factor(model.CategoryWaste, factors.WasteVariant(s, w.Recycled(s)))
		if err != nil {
			return 0, err
		}
		total += float64(kg * f)
	}
	return total, nil
}

// Local runs the four calculators and aggregates their output.
func Local(a model.Activity, tbl *factors.Table) (model.Result, error) {
	t, err := Transport(a.Transportation, tbl)
	if err != nil {
		return model.Result{}, err
	}
	e, err := Energy(a.Energy, tbl)
	if err != nil {
		return model.Result{}, err
	}
	f, err := Food(a.Food, tbl)
	if err != nil {
		return model.Result{}, err
	}
	w, err := Waste(a.Waste, tbl)
	if err != nil {
		return model.Result{}, err
	}
	return Aggregate(t, e, f, w), nil
}
