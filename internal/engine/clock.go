package engine

import (
	"sync"
	"time"
)

// Clock counts a debate session down one second at a time. It only ever
// decrements while neither paused nor stopped, and fires its expiry callback
// exactly once. The tick cadence is injectable so tests can run it fast.
type Clock struct {
	mu        sync.Mutex
	remaining int
	paused    bool
	stopped   bool
	expired   bool
	every     time.Duration
	done      chan struct{}
	onExpire  func()
}

func newClock(seconds int, every time.Duration, onExpire func()) *Clock {
	if every <= 0 {
		every = time.Second
	}
	return &Clock{
		remaining: seconds,
		every:     every,
		done:      make(chan struct{}),
		onExpire:  onExpire,
	}
}

func (c *Clock) start() {
	go func() {
		ticker := time.NewTicker(c.every)
		defer ticker.Stop()
		for {
			select {
			case <-c.done:
				return
			case <-ticker.C:
				c.tick()
			}
		}
	}()
}

// tick decrements the countdown and fires the expiry callback outside the
// clock lock, so the callback may safely take the engine lock.
func (c *Clock) tick() {
	c.mu.Lock()
	if c.paused || c.stopped || c.expired {
		c.mu.Unlock()
		return
	}
	c.remaining--
	fire := false
	if c.remaining <= 0 {
		c.remaining = 0
		c.expired = true
		fire = true
	}
	c.mu.Unlock()

	if fire && c.onExpire != nil {
		c.onExpire()
	}
}

// pause freezes the countdown without resetting it.
func (c *Clock) pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

// resume continues from the frozen value.
func (c *Clock) resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
}

// stop halts the clock permanently; further ticks are no-ops.
func (c *Clock) stop() {
	c.mu.Lock()
	if !c.stopped {
		c.stopped = true
		close(c.done)
	}
	c.mu.Unlock()
}

func (c *Clock) remainingSeconds() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}
