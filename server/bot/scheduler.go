package bot

import (
	"sync"
	"time"
)

// Scheduler arms one deadline timer per poll and fires a callback when the
// deadline arrives. Cancel is best effort; the fire callback must treat the
// store lookup, not the cancel, as the authoritative guard against stale
// firing.
type Scheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	onFire func(pollID string)
}

// NewScheduler creates a scheduler firing onFire once per armed deadline.
func NewScheduler(onFire func(pollID string)) *Scheduler {
	return &Scheduler{
		timers: map[string]*time.Timer{},
		onFire: onFire,
	}
}

// Arm registers a one-shot timer for a poll. An already passed deadline
// fires right away. Re-arming a poll replaces its pending timer.
func (s *Scheduler) Arm(pollID string, deadline time.Time) {
	duration := time.Until(deadline)
	if duration <= 0 {
		go s.fire(pollID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[pollID]; ok {
		t.Stop()
	}
	s.timers[pollID] = time.AfterFunc(duration, func() { s.fire(pollID) })
}

// Cancel stops the pending timer of a poll, if any.
func (s *Scheduler) Cancel(pollID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[pollID]; ok {
		t.Stop()
		delete(s.timers, pollID)
	}
}

func (s *Scheduler) fire(pollID string) {
	s.mu.Lock()
	delete(s.timers, pollID)
	s.mu.Unlock()

	s.onFire(pollID)
}
