package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CarType selects the per-km factor of a car.
type CarType string

const (
	CarPetrol   CarType = "Car (Petrol)"
	CarDiesel   CarType = "Car (Diesel)"
	CarElectric CarType = "Electric Car (EV)"
	CarHybrid   CarType = "Hybrid Car"
)

// CarTypes returns the known car types.
func CarTypes() []CarType {
	return []CarType{CarPetrol, CarDiesel, CarElectric, CarHybrid}
}

// GridType selects the electricity factor. The zero value means
// GridUSAverage.
type GridType string

const (
	GridUSAverage  GridType = "Electricity (US Grid Average)"
	GridCoalHeavy  GridType = "Electricity (Coal-heavy)"
	GridNaturalGas GridType = "Electricity (Natural Gas)"
	GridRenewable  GridType = "Electricity (Renewable)"
)

// GridTypes returns the known grid mixes.
func GridTypes() []GridType {
	return []GridType{GridUSAverage, GridCoalHeavy, GridNaturalGas, GridRenewable}
}

// OrDefault returns g, or GridUSAverage when g is empty.
func (g GridType) OrDefault() GridType {
	if g == "" {
		return GridUSAverage
	}
	return g
}

// WasteLevel is an ordered volume bucket. The zero value means WasteNone.
type WasteLevel string

const (
	WasteNone   WasteLevel = "none"
	WasteLow    WasteLevel = "low"
	WasteMedium WasteLevel = "medium"
	WasteHigh   WasteLevel = "high"
)

// Rank orders levels from none (0) to high (3). Unknown levels rank -1.
func (l WasteLevel) Rank() int {
	switch l {
	case WasteNone, "":
		return 0
	case WasteLow:
		return 1
	case WasteMedium:
		return 2
	case WasteHigh:
		return 3
	default:
		return -1
	}
}

// ParseWasteLevel accepts none/low/medium/high in any case.
func ParseWasteLevel(s string) (WasteLevel, error) {
	l := WasteLevel(strings.ToLower(strings.TrimSpace(s)))
	if l == "" || l.Rank() < 0 {
		return "", fmt.Errorf("%w: waste level %q", ErrInvalidEnumValue, s)
	}
	return l, nil
}

// WasteStream names one of the five household waste streams.
type WasteStream string

const (
	StreamPlastic WasteStream = "plastic"
	StreamPaper   WasteStream = "paper"
	StreamGlass   WasteStream = "glass"
	StreamMetal   WasteStream = "metal"
	StreamOrganic WasteStream = "organic"
)

// WasteStreams returns the streams in reporting order.
func WasteStreams() []WasteStream {
	return []WasteStream{StreamPlastic, StreamPaper, StreamGlass, StreamMetal, StreamOrganic}
}

// Flag is a boolean encoded as "yes"/"no" on the wire.
type Flag bool

func (f Flag) String() string {
	if f {
		return "yes"
	}
	return "no"
}

// ParseFlag accepts yes/no, y/n and true/false in any case.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true":
		return true, nil
	case "no", "n", "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: flag %q", ErrInvalidEnumValue, s)
	}
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func (f *Flag) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s == "" {
			*f = false
			return nil
		}
		v, err := ParseFlag(s)
		if err != nil {
			return err
		}
		*f = v
		return nil
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("%w: flag %s", ErrInvalidEnumValue, b)
	}
	*f = Flag(v)
	return nil
}

// Activity is the canonical, normalized consumption of one household.
// Optional sections are nil when absent; nil contributes exactly zero.
type Activity struct {
	Transportation Transportation `json:"transportation"`
	Energy         Energy         `json:"energy"`
	Food           Food           `json:"food"`
	Waste          Waste          `json:"waste"`
}

// NewActivity returns an activity with every enum at its default.
func NewActivity() Activity {
	return Activity{
		Energy: Energy{Electricity: Electricity{GridType: GridUSAverage}},
		Waste: Waste{Levels: WasteLevels{
			Plastic: WasteNone, Paper: WasteNone, Glass: WasteNone, Metal: WasteNone, Organic: WasteNone,
		}},
	}
}

type Transportation struct {
	Car     *Car      `json:"car,omitempty"`
	Bus     *Distance `json:"bus,omitempty"`
	Train   *Distance `json:"train,omitempty"`
	Flights *Flights  `json:"flights,omitempty"`
}

type Car struct {
	Type      CarType `json:"type"`
	KmPerWeek float64 `json:"km_per_week"`
}

// Distance is a weekly distance travelled by a shared mode.
type Distance struct {
	KmPerWeek float64 `json:"km_per_week"`
}

// Flights are counted per year and folded into weekly figures by the
// transport calculator.
type Flights struct {
	DomesticPerYear      int `json:"domestic_per_year"`
	InternationalPerYear int `json:"international_per_year"`
}

// Energy readings are monthly.
type Energy struct {
	Electricity Electricity `json:"electricity"`
	NaturalGas  *NaturalGas `json:"natural_gas,omitempty"`
	LPG         *LPG        `json:"lpg,omitempty"`
}

type Electricity struct {
	KWhPerMonth float64  `json:"kwh_per_month"`
	GridType    GridType `json:"grid_type"`
}

type NaturalGas struct {
	SCFPerMonth float64 `json:"scf_per_month"`
}

type LPG struct {
	GallonsPerMonth float64 `json:"gallons_per_month"`
}

// Food quantities are kilograms per week.
type Food struct {
	Meat   Meat   `json:"meat"`
	Dairy  Dairy  `json:"dairy"`
	Plants Plants `json:"plants"`
}

type Meat struct {
	Beef    float64 `json:"beef"`
	Chicken float64 `json:"chicken"`
	Pork    float64 `json:"pork"`
	Fish    float64 `json:"fish"`
}

// Total returns the combined weekly meat weight.
func (m Meat) Total() float64 { return m.Beef + m.Chicken + m.Pork + m.Fish }

type Dairy struct {
	Milk   float64 `json:"milk"`
	Cheese float64 `json:"cheese"`
}

type Plants struct {
	Vegetables float64 `json:"vegetables"`
	Fruits     float64 `json:"fruits"`
	Grains     float64 `json:"grains"`
}

type Waste struct {
	Levels    WasteLevels `json:"levels"`
	Recycling Recycling   `json:"recycling"`
	Compost   Flag        `json:"compost"`
}

type WasteLevels struct {
	Plastic WasteLevel `json:"plastic"`
	Paper   WasteLevel `json:"paper"`
	Glass   WasteLevel `json:"glass"`
	Metal   WasteLevel `json:"metal"`
	Organic WasteLevel `json:"organic"`
}

// Level returns the level reported for stream s.
func (w WasteLevels) Level(s WasteStream) WasteLevel {
	switch s {
	case StreamPlastic:
		return w.Plastic
	case StreamPaper:
		return w.Paper
	case StreamGlass:
		return w.Glass
	case StreamMetal:
		return w.Metal
	case StreamOrganic:
		return w.Organic
	default:
		return WasteNone
	}
}

// Recycling has no organic entry: organic waste uses Waste.Compost.
type Recycling struct {
	Plastic Flag `json:"plastic"`
	Paper   Flag `json:"paper"`
	Glass   Flag `json:"glass"`
	Metal   Flag `json:"metal"`
}

// Recycled reports whether stream s is diverted from mixed disposal.
func (w Waste) Recycled(s WasteStream) bool {
	switch s {
	case StreamPlastic:
		return bool(w.Recycling.Plastic)
	case StreamPaper:
		return bool(w.Recycling.Paper)
	case StreamGlass:
		return bool(w.Recycling.Glass)
	case StreamMetal:
		return bool(w.Recycling.Metal)
	case StreamOrganic:
		return bool(w.Compost)
	default:
		return false
	}
}
