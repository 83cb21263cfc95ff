// Package equivalency expresses kg CO2e as everyday activities using the
// EPA greenhouse gas equivalency factors.
package equivalency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// EPA divisors: kg CO2e per unit of activity.
const (
	MilesDrivenFactor        = 0.192
	SmartphoneChargeFactor   = 0.00822
	TreeSeedlingFactor       = 60.0
	HomeElectricityDayFactor = 18.3
)

// MinKg is the smallest amount for which equivalencies are meaningful.
const MinKg = 1.0

var printer = message.NewPrinter(language.English)

// Output lists the equivalencies of one amount.
type Output struct {
	Kg                  float64 `json:"kg_co2"`
	MilesDriven         float64 `json:"miles_driven"`
	SmartphonesCharged  float64 `json:"smartphones_charged"`
	TreeSeedlings       float64 `json:"tree_seedlings_10y"`
	HomeElectricityDays float64 `json:"home_electricity_days"`
	Empty               bool    `json:"empty"`
}

// Calculate returns the equivalencies of kg. Amounts below MinKg yield an
// empty Output.
func Calculate(kg float64) Output {
	if !(kg >= MinKg) {
		return Output{Kg: kg, Empty: true}
	}
	return Output{
		Kg:                  kg,
		MilesDriven:         kg / MilesDrivenFactor,
		SmartphonesCharged:  kg / SmartphoneChargeFactor,
		TreeSeedlings:       kg / TreeSeedlingFactor,
		HomeElectricityDays: kg / HomeElectricityDayFactor,
	}
}

// Text renders o as one sentence with thousand separators, or "" when o is
// empty.
func (o Output) Text() string {
	if o.Empty {
		return ""
	}
	return printer.Sprintf("Equivalent to driving ~%v miles or charging ~%v smartphones",
		number.Decimal(o.MilesDriven, number.MaxFractionDigits(0)),
		number.Decimal(o.SmartphonesCharged, number.MaxFractionDigits(0)))
}

// FormatKg renders kg with one decimal and thousand separators.
func FormatKg(kg float64) string {
	return printer.Sprintf("%v kg", number.Decimal(kg, number.MaxFractionDigits(1)))
}
