package tracker

import (
	"github.com/kyleseneker/matomo-contract/internal/logging"
	"github.com/kyleseneker/matomo-contract/internal/store"
)

// shared is the process-wide current tracker. It starts empty and lives for
// the whole process. Start-up code assigns it; everything else should prefer
// taking a Tracker as a parameter.
var shared = store.New[Tracker]()

// Shared returns the process-wide cell, for subscribing to assignments.
func Shared() *store.Cell[Tracker] {
	return shared
}

// SetCurrent makes t the current tracker and notifies subscribers.
func SetCurrent(t Tracker) {
	shared.Set(t)
}

// Current returns the most recently assigned tracker, or
// store.ErrNotInitialized if none has been assigned.
func Current() (Tracker, error) {
	return shared.Get()
}

// CurrentOrNoop returns the current tracker, or a Noop that logs every
// dropped call when none has been assigned yet.
func CurrentOrNoop(logger logging.Logger) Tracker {
	t, err := shared.Get()
	if err != nil {
		logger.Warn("No tracker assigned yet, using no-op tracker")
		return NewNoop(logger)
	}
	return t
}
