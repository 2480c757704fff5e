package page

import (
	"sync"
	"time"

	"github.com/dshills/navspy/internal/spy/host"
)

// DefaultFrameInterval approximates a 60Hz paint clock.
const DefaultFrameInterval = 16 * time.Millisecond

// TimerScheduler implements host.FrameScheduler on wall-clock timers.
// Callbacks never run on the timer goroutine: they are handed to post,
// which must run them on the UI goroutine.
type TimerScheduler struct {
	mu       sync.Mutex
	interval time.Duration
	post     func(func())
	next     host.FrameID
	timers   map[host.FrameID]*time.Timer
}

// NewTimerScheduler returns a scheduler firing interval after each request.
// A non-positive interval selects DefaultFrameInterval.
func NewTimerScheduler(post func(func()), interval time.Duration) *TimerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &TimerScheduler{
		interval: interval,
		post:     post,
		timers:   make(map[host.FrameID]*time.Timer),
	}
}

func (s *TimerScheduler) RequestFrame(fn func(now time.Time)) host.FrameID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	id := s.next
	s.timers[id] = time.AfterFunc(s.interval, func() {
		s.post(func() {
			if s.take(id) {
				fn(time.Now())
			}
		})
	})
	return id
}

// take removes id and reports whether it was still pending.
func (s *TimerScheduler) take(id host.FrameID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.timers[id]; !ok {
		return false
	}
	delete(s.timers, id)
	return true
}

func (s *TimerScheduler) CancelFrame(id host.FrameID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}

// Pending returns the number of frames not yet delivered.
func (s *TimerScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop cancels every pending frame.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// SetInterval changes the delay of frames requested from now on. A
// non-positive interval selects DefaultFrameInterval.
func (s *TimerScheduler) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	s.mu.Lock()
	s.interval = interval
	s.mu.Unlock()
}

// Interval returns the current frame delay.
func (s *TimerScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}
