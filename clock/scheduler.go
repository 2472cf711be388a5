package clock

import (
	"sync"
	"time"
)

// Dispatch runs f on the goroutine that owns the scheduled state.
type Dispatch func(f func())

// Inline runs f directly on the timer goroutine.
func Inline(f func()) { f() }

// Scheduler keeps at most one outstanding callback at a fixed interval.
// Scheduling again or cancelling invalidates the previous callback, even if
// its timer already fired and the dispatch is still queued.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	dispatch Dispatch

	mu    sync.Mutex
	timer Timer
	gen   uint64
}

func NewScheduler(c Clock, interval time.Duration, dispatch Dispatch) *Scheduler {
	if dispatch == nil {
		dispatch = Inline
	}
	return &Scheduler{clock: c, interval: interval, dispatch: dispatch}
}

// Next schedules fn one interval from now, replacing any pending callback.
func (s *Scheduler) Next(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen

	s.timer = s.clock.AfterFunc(s.interval, func() {
		s.dispatch(func() {
			s.mu.Lock()
			if gen != s.gen {
				s.mu.Unlock()
				return
			}
			s.timer = nil
			s.mu.Unlock()

			fn()
		})
	})
}

// Cancel drops the pending callback, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Pending reports whether a callback is scheduled and not yet run.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Interval returns the scheduling period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}
