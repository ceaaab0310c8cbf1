package game

import (
	"sync"
	"time"
)

// Clock is the per-session countdown. Start begins a fresh run, ticking once
// per interval with the remaining count and firing the expiry callback
// exactly once when it reaches zero. Cancel stops the current run; callbacks
// belonging to a cancelled run are never dispatched again. Starting while a
// run is active cancels the previous run first.
type Clock struct {
	interval time.Duration

	mu  sync.Mutex
	run int
}

// NewClock builds a clock ticking at the given cadence. A zero or negative
// interval falls back to one second.
func NewClock(interval time.Duration) *Clock {
	if interval <= 0 {
		interval = time.Second
	}
	return &Clock{interval: interval}
}

// Start launches a countdown of the given number of ticks.
func (c *Clock) Start(ticks int, onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	c.run++
	run := c.run
	c.mu.Unlock()

	if ticks <= 0 {
		if onExpire != nil && c.current(run) {
			onExpire()
		}
		return
	}

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		remaining := ticks
		for range ticker.C {
			if !c.current(run) {
				return
			}
			remaining--
			if onTick != nil {
				onTick(remaining)
			}
			if remaining <= 0 {
				if c.current(run) && onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}()
}

// Cancel stops the active run. Safe to call when no run is active.
func (c *Clock) Cancel() {
	c.mu.Lock()
	c.run++
	c.mu.Unlock()
}

func (c *Clock) current(run int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run == run
}
