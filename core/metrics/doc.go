// Package metrics defines the sinks that observe footprint calculations.
// Sinks like PromSink and InfluxSink record one CalculationEvent per
// resolution and can be combined with NewMultiSink. The factory helpers
// return a MultiSink automatically when multiple sinks are configured.
package metrics
