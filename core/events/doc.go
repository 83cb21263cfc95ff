// Package events defines the events emitted on the event bus once a
// footprint calculation completes.
package events
