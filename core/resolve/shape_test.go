package resolve

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/footprint/core/calc"
	"github.com/kilianp07/footprint/core/model"
)

const direct = `{
	"transportation": {"weekly_kg_co2": 10, "annual_kg_co2": 520},
	"energy": {"weekly_kg_co2": 20, "annual_kg_co2": 1040},
	"food": {"weekly_kg_co2": 5, "annual_kg_co2": 260},
	"waste": {"weekly_kg_co2": 1, "annual_kg_co2": 52},
	"summary": {"total_weekly_kg_co2": 36, "total_annual_kg_co2": 1872, "highest_category": "energy"}
}`

func TestParseDirect(t *testing.T) {
	res, shape, err := ParseResult([]byte(direct))
	require.NoError(t, err)
	assert.Equal(t, ShapeDirect, shape)
	assert.Equal(t, 20.0, res.Energy.WeeklyKgCO2)
	assert.Equal(t, 36.0, res.Summary.TotalWeeklyKgCO2)
	assert.Equal(t, model.CategoryEnergy, res.Summary.HighestCategory)
}

func TestParseWrapped(t *testing.T) {
	body := `{"message": "ok", "results": ` + direct + `}`
	res, shape, err := ParseResult([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, ShapeWrapped, shape)
	assert.Equal(t, 1872.0, res.Summary.TotalAnnualKgCO2)

	partialInner := `{"results": {"food": {"weekly_kg_co2": 3}, "summary": {"highest_category": "food"}}}`
	res, shape, err = ParseResult([]byte(partialInner))
	require.NoError(t, err)
	assert.Equal(t, ShapeWrapped, shape)
	assert.Equal(t, 3.0, res.Summary.TotalWeeklyKgCO2)
}

func TestParseDirectWinsOverWrapper(t *testing.T) {
	body := `{
		"transportation": {"weekly_kg_co2": 1}, "energy": {"weekly_kg_co2": 0},
		"food": {"weekly_kg_co2": 0}, "waste": {"weekly_kg_co2": 0},
		"summary": {"total_weekly_kg_co2": 1},
		"results": {"food": {"weekly_kg_co2": 99}, "summary": {"total_weekly_kg_co2": 99}}
	}`
	res, shape, err := ParseResult([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, ShapeDirect, shape)
	assert.Equal(t, 1.0, res.Summary.TotalWeeklyKgCO2)
	assert.Equal(t, model.CategoryTransportation, res.Summary.HighestCategory)
}

func TestParsePartialFillsMissing(t *testing.T) {
	body := `{
		"transportation": {"weekly_kg_co2": 4.004},
		"energy": {"weekly_kg_co2": 4.004},
		"summary": {"category_with_highest_emission": "bogus", "total_weekly_kg_co2": 8.008}
	}`
	res, shape, err := ParseResult([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, ShapePartial, shape)
	assert.Equal(t, model.CategoryResult{}, res.Food)
	assert.Equal(t, model.CategoryResult{}, res.Waste)
	assert.InDelta(t, 4.004*52, res.Energy.AnnualKgCO2, 1e-9)
	assert.Equal(t, 8.01, res.Summary.TotalWeeklyKgCO2)
	assert.Equal(t, 416.4, res.Summary.TotalAnnualKgCO2)
	// invalid highest is recomputed with precedence tie-break
	assert.Equal(t, model.CategoryTransportation, res.Summary.HighestCategory)
}

func TestParseHighestAlias(t *testing.T) {
	body := `{"waste": {"weekly_kg_co2": 2}, "summary": {"category_with_highest_emission": "waste"}}`
	res, _, err := ParseResult([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, model.CategoryWaste, res.Summary.HighestCategory)
	assert.Equal(t, 2.0, res.Summary.TotalWeeklyKgCO2)
	assert.Equal(t, 104.0, res.Summary.TotalAnnualKgCO2)
}

func TestParseFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
	}{
		{"empty body", ``, errUnparsable},
		{"html", `<html>oops</html>`, errUnparsable},
		{"truncated", `{"summary": {`, errUnparsable},
		{"array", `[1, 2]`, errUnrecognized},
		{"null", `null`, errUnrecognized},
		{"message only", `{"message": "calculated"}`, errUnrecognized},
		{"categories without summary", `{"transportation": {}, "energy": {}, "food": {}, "waste": {}}`, errUnrecognized},
		{"summary without categories", `{"summary": {"total_weekly_kg_co2": 3}}`, errUnrecognized},
		{"null results", `{"results": null}`, errUnrecognized},
		{"null summary", `{"summary": null, "food": {"weekly_kg_co2": 1}}`, errUnrecognized},
		{"empty summary", `{"summary": {}, "food": {"weekly_kg_co2": 1}}`, errEmpty},
		{"wrapped empty summary", `{"results": {"summary": {}, "food": {}}}`, errEmpty},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := ParseResult([]byte(c.body))
			assert.ErrorIs(t, err, c.err)
		})
	}
}

func TestParseRoundTripsLocalResult(t *testing.T) {
	local := calc.Aggregate(12.345678, 36.346153846153847, 29.7, 3.55)
	b, err := json.Marshal(local)
	require.NoError(t, err)
	parsed, shape, err := ParseResult(b)
	require.NoError(t, err)
	assert.Equal(t, ShapeDirect, shape)
	assert.Equal(t, local, parsed)
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "direct", ShapeDirect.String())
	assert.Equal(t, "wrapped", ShapeWrapped.String())
	assert.Equal(t, "partial", ShapePartial.String())
	assert.Equal(t, "unrecognized", ShapeUnrecognized.String())
}

func TestParseAnnualFromCategories(t *testing.T) {
	// 36.346153846153847*52 rounds to 1890.0, the rounded total to 1890.2.
	body := `{"energy": {"weekly_kg_co2": 36.346153846153847},
		"summary": {"total_weekly_kg_co2": 36.35, "category_with_highest_emission": "energy"}}`
	res, _, err := ParseResult([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, 36.35, res.Summary.TotalWeeklyKgCO2)
	assert.Equal(t, 1890.0, res.Summary.TotalAnnualKgCO2)

	// Without any category figure the weekly total is all there is.
	res, _, err = ParseResult([]byte(`{"food": {}, "summary": {"total_weekly_kg_co2": 3}}`))
	require.NoError(t, err)
	assert.Equal(t, 156.0, res.Summary.TotalAnnualKgCO2)

	// A reported annual total is kept.
	res, _, err = ParseResult([]byte(`{"food": {"weekly_kg_co2": 3}, "summary": {"total_weekly_kg_co2": 3, "total_annual_kg_co2": 150}}`))
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.Summary.TotalAnnualKgCO2)
}
