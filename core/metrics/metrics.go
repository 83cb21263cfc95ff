package metrics

import (
	"time"

	"github.com/kilianp07/footprint/core/model"
)

// CalculationEvent describes one completed resolution.
type CalculationEvent struct {
	ID     string
	Source model.Source
	// Reason is empty for remote results.
	Reason   string
	Shape    string
	Duration time.Duration
	Result   model.Result
	Time     time.Time
}

// MetricsSink records calculations for observability purposes.
type MetricsSink interface {
	RecordCalculation(ev CalculationEvent) error
}

// HistoryEvent reports the outcome of a best-effort history write.
type HistoryEvent struct {
	Backend string
	Err     error
	Time    time.Time
}

// HistoryRecorder is implemented by sinks able to count history writes.
type HistoryRecorder interface {
	RecordHistoryWrite(ev HistoryEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordCalculation(CalculationEvent) error { return nil }
func (NopSink) RecordHistoryWrite(HistoryEvent) error    { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCalculation forwards the event to every sink and returns the first
// error encountered. Every sink is called even when an earlier one fails.
func (m *MultiSink) RecordCalculation(ev CalculationEvent) error {
	var first error
	for _, s := range m.Sinks {
		if err := s.RecordCalculation(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// RecordHistoryWrite forwards history events when supported by the sink.
func (m *MultiSink) RecordHistoryWrite(ev HistoryEvent) error {
	var first error
	for _, s := range m.Sinks {
		if rec, ok := s.(HistoryRecorder); ok {
			if err := rec.RecordHistoryWrite(ev); err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
