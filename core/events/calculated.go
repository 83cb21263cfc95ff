package events

import (
	"time"

	"github.com/kilianp07/footprint/core/history"
)

// Calculated is published after every resolved calculation, once the
// history write has been attempted.
type Calculated struct {
	Snapshot history.Snapshot
	// Reason is the fallback reason, empty for remote results.
	Reason   string
	Shape    string
	Duration time.Duration
	// HistoryBackend and HistoryErr describe the best-effort history write.
	HistoryBackend string
	HistoryErr     error
}
