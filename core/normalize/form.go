// Package normalize turns loosely typed form state into a model.Activity.
package normalize

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// RawForm mirrors the calculator form. Leaves are untyped so that both
// string inputs ("350") and JSON numbers decode into it.
type RawForm struct {
	Transport TransportForm `json:"transport" yaml:"transport"`
	Energy    EnergyForm    `json:"energy" yaml:"energy"`
	Food      FoodForm      `json:"food" yaml:"food"`
	Waste     WasteForm     `json:"waste" yaml:"waste"`
}

type TransportForm struct {
	CarOwner                    any `json:"car_owner" yaml:"car_owner"`
	CarType                     any `json:"car_type" yaml:"car_type"`
	CarKmPerWeek                any `json:"car_km_per_week" yaml:"car_km_per_week"`
	BusKmPerWeek                any `json:"bus_km_per_week" yaml:"bus_km_per_week"`
	TrainKmPerWeek              any `json:"train_km_per_week" yaml:"train_km_per_week"`
	FlightsDomesticPerYear      any `json:"flights_domestic_per_year" yaml:"flights_domestic_per_year"`
	FlightsInternationalPerYear any `json:"flights_international_per_year" yaml:"flights_international_per_year"`
}

type EnergyForm struct {
	ElectricityKWhPerMonth any `json:"electricity_kwh_per_month" yaml:"electricity_kwh_per_month"`
	GridType               any `json:"grid_type" yaml:"grid_type"`
	UseNaturalGas          any `json:"use_natural_gas" yaml:"use_natural_gas"`
	NaturalGasSCFPerMonth  any `json:"natural_gas_scf_per_month" yaml:"natural_gas_scf_per_month"`
	UseLPG                 any `json:"use_lpg" yaml:"use_lpg"`
	LPGGallonsPerMonth     any `json:"lpg_gallons_per_month" yaml:"lpg_gallons_per_month"`
}

type FoodForm struct {
	Meat   MeatForm   `json:"meat" yaml:"meat"`
	Dairy  DairyForm  `json:"dairy" yaml:"dairy"`
	Plants PlantsForm `json:"plants" yaml:"plants"`
}

type MeatForm struct {
	Beef    any `json:"beef" yaml:"beef"`
	Chicken any `json:"chicken" yaml:"chicken"`
	Pork    any `json:"pork" yaml:"pork"`
	Fish    any `json:"fish" yaml:"fish"`
}

type DairyForm struct {
	Milk   any `json:"milk" yaml:"milk"`
	Cheese any `json:"cheese" yaml:"cheese"`
}

type PlantsForm struct {
	Vegetables any `json:"vegetables" yaml:"vegetables"`
	Fruits     any `json:"fruits" yaml:"fruits"`
	Grains     any `json:"grains" yaml:"grains"`
}

type WasteForm struct {
	Levels    LevelsForm    `json:"levels" yaml:"levels"`
	Recycling RecyclingForm `json:"recycling" yaml:"recycling"`
	Compost   any           `json:"compost" yaml:"compost"`
}

type LevelsForm struct {
	Plastic any `json:"plastic" yaml:"plastic"`
	Paper   any `json:"paper" yaml:"paper"`
	Glass   any `json:"glass" yaml:"glass"`
	Metal   any `json:"metal" yaml:"metal"`
	Organic any `json:"organic" yaml:"organic"`
}

type RecyclingForm struct {
	Plastic any `json:"plastic" yaml:"plastic"`
	Paper   any `json:"paper" yaml:"paper"`
	Glass   any `json:"glass" yaml:"glass"`
	Metal   any `json:"metal" yaml:"metal"`
}

// FormFromMap decodes a generic map, such as a parsed YAML document or a
// koanf section, into a RawForm.
func FormFromMap(m map[string]any) (RawForm, error) {
	var f RawForm
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &f,
	})
	if err != nil {
		return RawForm{}, err
	}
	if err := dec.Decode(m); err != nil {
		return RawForm{}, fmt.Errorf("decode form: %w", err)
	}
	return f, nil
}
