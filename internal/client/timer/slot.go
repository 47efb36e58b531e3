package timer

import (
	"sync"
	"time"
)

// Slot holds at most one scheduled callback. Scheduling always cancels the
// previous timer first, so a Slot can never have two timers in flight. Every
// Schedule starts a new generation; a timer from an older generation that
// fires anyway (it lost the race with Stop) returns without calling fn.
type Slot struct {
	clock Clock

	mu      sync.Mutex
	gen     uint64
	timer   Timer
	pending bool
	due     time.Time
}

// NewSlot creates an empty Slot on clock.
func NewSlot(clock Clock) *Slot {
	return &Slot{clock: clock}
}

// Schedule arms fn to run after d, replacing any armed callback. The returned
// function cancels this particular schedule; it is a no-op once the slot has
// been rescheduled.
func (s *Slot) Schedule(d time.Duration, fn func()) (cancel func()) {
	s.mu.Lock()
	s.stopLocked()
	s.gen++
	gen := s.gen
	s.pending = true
	s.due = s.clock.Now().Add(d)
	s.mu.Unlock()

	t := s.clock.AfterFunc(d, func() {
		s.mu.Lock()
		if gen != s.gen || !s.pending {
			s.mu.Unlock()
			return
		}
		s.pending = false
		s.timer = nil
		s.mu.Unlock()

		fn()
	})

	s.mu.Lock()
	if gen == s.gen && s.pending {
		s.timer = t
	} else {
		// superseded or already fired before we got here
		t.Stop()
	}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen == s.gen {
			s.stopLocked()
		}
	}
}

// Cancel stops the armed callback, if any. It is always safe to call.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Slot) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.pending {
		s.gen++
	}
	s.pending = false
}

// Pending reports whether a callback is armed.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Due returns the deadline of the armed callback and whether one is armed.
func (s *Slot) Due() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.due, s.pending
}
