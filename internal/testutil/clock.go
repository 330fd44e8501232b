package testutil

import (
	"sync"
	"time"
)

// StepClock returns a fixed sequence of instants, one per call to Now.
// Once the sequence is exhausted the last instant is repeated.
type StepClock struct {
	mu     sync.Mutex
	times  []time.Time
	called int
}

// NewStepClock creates a clock that starts at start and advances by the
// given steps on successive calls.
func NewStepClock(start time.Time, steps ...time.Duration) *StepClock {
	times := []time.Time{start}
	current := start
	for _, step := range steps {
		current = current.Add(step)
		times = append(times, current)
	}
	return &StepClock{times: times}
}

// Now implements attachmenttypes.Clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.called
	if idx >= len(c.times) {
		idx = len(c.times) - 1
	}
	c.called++
	return c.times[idx]
}

// Calls returns how many times Now has been called.
func (c *StepClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.called
}
