// Package timer provides the cancellable timers used by the OTP machine and
// the idle monitor.
//
// A Clock supplies the current time and one-shot callbacks. System is backed
// by the runtime; Manual only moves when told to, which makes deadline-based
// behaviour testable without sleeping. Slot wraps a Clock with the
// cancel-before-reschedule discipline: a Slot owns at most one armed timer and
// a timer superseded by Schedule or Cancel never runs its callback.
package timer

import (
	"time"
)

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; stopping a fired or stopped timer is a no-op.
	Stop() bool
}

// Clock is the time source of the client core.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// System is the wall clock.
type System struct{}

var _ Clock = System{}

func (System) Now() time.Time { return time.Now() }

func (System) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
