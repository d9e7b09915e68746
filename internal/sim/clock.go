package sim

import (
	"sync"
	"time"
)

// SystemClock reports uptime since it was created.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (clock *SystemClock) Now() time.Duration {
	return time.Since(clock.start)
}

// ManualClock only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Duration
}

func (clock *ManualClock) Now() time.Duration {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Advance moves the clock forward by delta.
func (clock *ManualClock) Advance(delta time.Duration) {
	clock.mu.Lock()
	clock.now += delta
	clock.mu.Unlock()
}

// Set jumps the clock to now.
func (clock *ManualClock) Set(now time.Duration) {
	clock.mu.Lock()
	clock.now = now
	clock.mu.Unlock()
}
