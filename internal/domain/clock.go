package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock stamps run metadata and reports. Tests freeze it with SetClock so
// report footers and archive rows are reproducible.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Now returns the current time in UTC from the package clock.
func Now() time.Time {
	return clock.Now().UTC()
}
