// Package export renders calculation results as JSON, CSV or an HTML chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/footprint/core/model"
)

// Format names accepted by Write.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
	FormatHTML = "html"
)

// Record is the exported form of one calculation.
type Record struct {
	ID        string       `json:"id,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Source    model.Source `json:"source"`
	Results   model.Result `json:"results"`
}

// Write renders rec in the named format.
func Write(w io.Writer, format string, rec Record) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(w, rec)
	case FormatCSV:
		return WriteCSV(w, rec.Results)
	case FormatHTML:
		return WriteChartHTML(w, rec)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteJSON writes rec as indented JSON.
func WriteJSON(w io.Writer, rec Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// WriteCSV writes one row per category followed by a total row. Shares are
// percentages of the weekly total.
func WriteCSV(w io.Writer, r model.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"category", "weekly_kg_co2", "annual_kg_co2", "share_percent"}); err != nil {
		return err
	}
	total := r.Summary.TotalWeeklyKgCO2
	for _, c := range model.Categories() {
		cr := r.Category(c)
		share := 0.0
		if total > 0 {
			share = cr.WeeklyKgCO2 / total * 100
		}
		rec := []string{
			string(c),
			strconv.FormatFloat(cr.WeeklyKgCO2, 'f', 2, 64),
			strconv.FormatFloat(cr.AnnualKgCO2, 'f', 1, 64),
			strconv.FormatFloat(share, 'f', 2, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	totalShare := "0.00"
	if total > 0 {
		totalShare = "100.00"
	}
	if err := cw.Write([]string{
		"total",
		strconv.FormatFloat(total, 'f', 2, 64),
		strconv.FormatFloat(r.Summary.TotalAnnualKgCO2, 'f', 1, 64),
		totalShare,
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
