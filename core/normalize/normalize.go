package normalize

import (
	"github.com/kilianp07/footprint/core/model"
)

// Normalize converts form state into a canonical Activity. Numeric fields
// never fail (see Number); an unrecognized enum or toggle value returns an
// error wrapping model.ErrInvalidEnumValue.
//
// Every enum (car type, grid type, waste level, yes/no flag) is matched
// case-insensitively after trimming spaces and stored in its canonical
// spelling. Yes/no flags and toggles also accept y/n and true/false.
func Normalize(form RawForm) (model.Activity, error) {
	a := model.NewActivity()
	var err error

	if a.Transportation, err = transportation(form.Transport); err != nil {
		return model.Activity{}, err
	}
	if a.Energy, err = energy(form.Energy); err != nil {
		return model.Activity{}, err
	}
	a.Food = food(form.Food)
	if a.Waste, err = waste(form.Waste); err != nil {
		return model.Activity{}, err
	}
	return a, nil
}

func transportation(f TransportForm) (model.Transportation, error) {
	var t model.Transportation
	owner, err := Toggle("car_owner", f.CarOwner)
	if err != nil {
		return t, err
	}
	if owner {
		ct, err := carType(f.CarType)
		if err != nil {
			return t, err
		}
		t.Car = &model.Car{Type: ct, KmPerWeek: Number(f.CarKmPerWeek)}
	}
	if present(f.BusKmPerWeek) {
		t.Bus = &model.Distance{KmPerWeek: Number(f.BusKmPerWeek)}
	}
	if present(f.TrainKmPerWeek) {
		t.Train = &model.Distance{KmPerWeek: Number(f.TrainKmPerWeek)}
	}
	if present(f.FlightsDomesticPerYear) || present(f.FlightsInternationalPerYear) {
		t.Flights = &model.Flights{
			DomesticPerYear:      Integer(f.FlightsDomesticPerYear),
			InternationalPerYear: Integer(f.FlightsInternationalPerYear),
		}
	}
	return t, nil
}

func energy(f EnergyForm) (model.Energy, error) {
	var e model.Energy
	grid, err := gridType(f.GridType)
	if err != nil {
		return e, err
	}
	e.Electricity = model.Electricity{KWhPerMonth: Number(f.ElectricityKWhPerMonth), GridType: grid}

	useGas, err := Toggle("use_natural_gas", f.UseNaturalGas)
	if err != nil {
		return e, err
	}
	if useGas {
		e.NaturalGas = &model.NaturalGas{SCFPerMonth: Number(f.NaturalGasSCFPerMonth)}
	}
	useLPG, err := Toggle("use_lpg", f.UseLPG)
	if err != nil {
		return e, err
	}
	if useLPG {
		e.LPG = &model.LPG{GallonsPerMonth: Number(f.LPGGallonsPerMonth)}
	}
	return e, nil
}

func food(f FoodForm) model.Food {
	return model.Food{
		Meat: model.Meat{
			Beef:    Number(f.Meat.Beef),
			Chicken: Number(f.Meat.Chicken),
			Pork:    Number(f.Meat.Pork),
			Fish:    Number(f.Meat.Fish),
		},
		Dairy: model.Dairy{
			Milk:   Number(f.Dairy.Milk),
			Cheese: Number(f.Dairy.Cheese),
		},
		Plants: model.Plants{
			Vegetables: Number(f.Plants.Vegetables),
			Fruits:     Number(f.Plants.Fruits),
			Grains:     Number(f.Plants.Grains),
		},
	}
}

func waste(f WasteForm) (model.Waste, error) {
	var (
		w   model.Waste
		err error
	)
	levels := []struct {
		name string
		in   any
		out  *model.WasteLevel
	}{
		{"levels.plastic", f.Levels.Plastic, &w.Levels.Plastic},
		{"levels.paper", f.Levels.Paper, &w.Levels.Paper},
		{"levels.glass", f.Levels.Glass, &w.Levels.Glass},
		{"levels.metal", f.Levels.Metal, &w.Levels.Metal},
		{"levels.organic", f.Levels.Organic, &w.Levels.Organic},
	}
	for _, l := range levels {
		if *l.out, err = wasteLevel(l.name, l.in); err != nil {
			return model.Waste{}, err
		}
	}
	flags := []struct {
		name string
		in   any
		out  *model.Flag
	}{
		{"recycling.plastic", f.Recycling.Plastic, &w.Recycling.Plastic},
		{"recycling.paper", f.Recycling.Paper, &w.Recycling.Paper},
		{"recycling.glass", f.Recycling.Glass, &w.Recycling.Glass},
		{"recycling.metal", f.Recycling.Metal, &w.Recycling.Metal},
		{"compost", f.Compost, &w.Compost},
	}
	for _, fl := range flags {
		if *fl.out, err = flag(fl.name, fl.in); err != nil {
			return model.Waste{}, err
		}
	}
	return w, nil
}
