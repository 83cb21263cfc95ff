package metrics

import (
	"errors"

	coremetrics "github.com/kilianp07/footprint/core/metrics"
	"github.com/kilianp07/footprint/core/model"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records footprint calculations in Prometheus metrics.
type PromSink struct {
	calculations *prometheus.CounterVec
	fallbacks    *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	weekly       *prometheus.GaugeVec
	history      *prometheus.CounterVec
}

// NewPromSink registers calculation metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered under the same name are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	calculations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "footprint_calculations_total",
		Help: "Total number of resolved calculations by result source",
	}, []string{"source"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "footprint_fallbacks_total",
		Help: "Total number of local fallbacks by reason",
	}, []string{"reason"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "footprint_resolution_duration_seconds",
		Help:    "Time spent resolving a calculation, remote attempt included",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	weekly := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "footprint_weekly_kg_co2",
		Help: "Weekly emissions of the last calculation by category",
	}, []string{"category"})
	history := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "footprint_history_writes_total",
		Help: "History writes by backend and outcome",
	}, []string{"backend", "outcome"})

	var err error
	if calculations, err = register(reg, calculations); err != nil {
		return nil, err
	}
	if fallbacks, err = register(reg, fallbacks); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if weekly, err = register(reg, weekly); err != nil {
		return nil, err
	}
	if history, err = register(reg, history); err != nil {
		return nil, err
	}
	return &PromSink{
		calculations: calculations,
		fallbacks:    fallbacks,
		duration:     duration,
		weekly:       weekly,
		history:      history,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordCalculation updates counters, the duration histogram and the
// per-category gauges.
func (s *PromSink) RecordCalculation(ev coremetrics.CalculationEvent) error {
	src := string(ev.Source)
	s.calculations.WithLabelValues(src).Inc()
	if ev.Source == model.SourceLocal && ev.Reason != "" {
		s.fallbacks.WithLabelValues(ev.Reason).Inc()
	}
	s.duration.WithLabelValues(src).Observe(ev.Duration.Seconds())
	for _, c := range model.Categories() {
		s.weekly.WithLabelValues(string(c)).Set(ev.Result.Category(c).WeeklyKgCO2)
	}
	s.weekly.WithLabelValues("total").Set(ev.Result.Summary.TotalWeeklyKgCO2)
	return nil
}

// RecordHistoryWrite counts history writes.
func (s *PromSink) RecordHistoryWrite(ev coremetrics.HistoryEvent) error {
	outcome := "ok"
	if ev.Err != nil {
		outcome = "error"
	}
	s.history.WithLabelValues(ev.Backend, outcome).Inc()
	return nil
}
