// Package report assembles everything shown to a user about one
// calculation: the result, the change since the previous calculation,
// benchmarks, tips and equivalencies.
package report

import (
	"time"

	"github.com/kilianp07/footprint/core/equivalency"
	"github.com/kilianp07/footprint/core/history"
	"github.com/kilianp07/footprint/core/model"
	"github.com/kilianp07/footprint/core/recommend"
)

// Report is the API and CLI view of one calculation.
type Report struct {
	ID        string       `json:"id"`
	Timestamp time.Time    `json:"timestamp"`
	Source    model.Source `json:"source"`
	// FallbackReason is set when a remote attempt failed.
	FallbackReason string        `json:"fallback_reason,omitempty"`
	Results        model.Result  `json:"results"`
	Summary        model.Summary `json:"summary"`
	// ChangeFromLastPercent is nil when there is no previous calculation
	// or its total was zero.
	ChangeFromLastPercent *float64                   `json:"change_from_last_percent"`
	Benchmark             recommend.Benchmark        `json:"benchmark"`
	Recommendations       []recommend.Recommendation `json:"recommendations"`
	Equivalency           equivalency.Output         `json:"equivalency"`
}

// Build derives the report of cur. prev is the calculation saved before
// cur, if any.
func Build(cur history.Snapshot, prev *history.Snapshot, reason string) Report {
	r := Report{
		ID:              cur.ID,
		Timestamp:       cur.Timestamp,
		Source:          cur.Source,
		FallbackReason:  reason,
		Results:         cur.Result,
		Summary:         cur.Result.Summary,
		Benchmark:       recommend.Compare(cur.Result.Summary.TotalAnnualKgCO2),
		Recommendations: recommend.For(cur.Activity, cur.Result),
		Equivalency:     equivalency.Calculate(cur.Result.Summary.TotalAnnualKgCO2),
	}
	if r.Recommendations == nil {
		r.Recommendations = []recommend.Recommendation{}
	}
	if prev != nil {
		if pct, ok := history.Compare(prev.Result, cur.Result); ok {
			r.ChangeFromLastPercent = &pct
		}
	}
	return r
}
