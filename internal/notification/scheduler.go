package notification

import (
	"sync"
	"time"
)

// Scheduler holds in-process one-shot timers keyed by booking ID, used
// for the pre-session reminder. Rescheduling a booking replaces its
// pending timer.
type Scheduler struct {
	mu     sync.Mutex
	timers map[int64]*time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{timers: make(map[int64]*time.Timer)}
}

// Schedule arms fn to run at the given instant. Instants that are not
// in the future are skipped; the caller treats that as a no-op, not an
// error.
func (s *Scheduler) Schedule(bookingID int64, at time.Time, fn func()) bool {
	delay := time.Until(at)
	if delay <= 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[bookingID]; ok {
		old.Stop()
	}
	s.timers[bookingID] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, bookingID)
		s.mu.Unlock()
		fn()
	})
	return true
}

func (s *Scheduler) Cancel(bookingID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[bookingID]; ok {
		t.Stop()
		delete(s.timers, bookingID)
	}
}

// Stop cancels every pending timer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
