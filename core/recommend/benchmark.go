package recommend

// Annual reference footprints in kg CO2e per person.
const (
	USAverage    = 16000.0
	EUAverage    = 8000.0
	WorldAverage = 4000.0
	ParisTarget  = 2300.0
)

// Band locates an annual footprint among the reference values.
type Band string

const (
	BandAboveUS    Band = "above_us_average"
	BandAboveEU    Band = "above_eu_average"
	BandAboveWorld Band = "above_world_average"
	BandAboveParis Band = "above_paris_target"
	BandParis      Band = "within_paris_target"
)

// Benchmark is the comparison of one annual total with the references.
type Benchmark struct {
	AnnualKgCO2 float64 `json:"annual_kg_co2"`
	Band        Band    `json:"band"`
	Message     string  `json:"message"`
}

// Compare places annual within the reference bands. Each bound is
// exclusive: a total equal to a reference falls in the band below it.
func Compare(annual float64) Benchmark {
	b := Benchmark{AnnualKgCO2: annual}
	switch {
	case annual > USAverage:
		b.Band, b.Message = BandAboveUS, "Your footprint is above the US average (16,000 kg)"
	case annual > EUAverage:
		b.Band, b.Message = BandAboveEU, "Your footprint is below the US but above the EU average (8,000 kg)"
	case annual > WorldAverage:
		b.Band, b.Message = BandAboveWorld, "Your footprint is above the world average (4,000 kg)"
	case annual > ParisTarget:
		b.Band, b.Message = BandAboveParis, "Your footprint is below the world average but above the Paris Agreement target (2,300 kg)"
	default:
		b.Band, b.Message = BandParis, "Your footprint aligns with the Paris Agreement target"
	}
	return b
}
