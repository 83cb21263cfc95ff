package export

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/footprint/core/model"
)

// WriteChartHTML renders a standalone page with a bar chart of weekly
// emissions and a pie chart of category shares.
func WriteChartHTML(w io.Writer, rec Record) error {
	r := rec.Results
	subtitle := fmt.Sprintf("Total %.2f kg CO2e per week, %.1f kg per year (%s)",
		r.Summary.TotalWeeklyKgCO2, r.Summary.TotalAnnualKgCO2, rec.Source)

	var (
		names []string
		bars  []opts.BarData
		slice []opts.PieData
	)
	for _, c := range model.Categories() {
		v := r.Category(c).WeeklyKgCO2
		names = append(names, string(c))
		bars = append(bars, opts.BarData{Value: v})
		if v > 0 {
			slice = append(slice, opts.PieData{Name: string(c), Value: v})
		}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Carbon footprint", ChartID: "footprint_weekly"}),
		charts.WithTitleOpts(opts.Title{Title: "Weekly emissions by category", Subtitle: subtitle}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "kg CO2e / week"}),
	)
	bar.SetXAxis(names).AddSeries("Weekly kg CO2e", bars)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{ChartID: "footprint_share"}),
		charts.WithTitleOpts(opts.Title{Title: "Share of total"}),
	)
	pie.AddSeries("Share", slice)

	page := components.NewPage()
	page.PageTitle = "Carbon footprint"
	page.AddCharts(bar, pie)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
