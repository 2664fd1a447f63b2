package engine

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestClockCountsDownAndExpires(t *testing.T) {
	var fired atomic.Int32
	c := newClock(3, time.Millisecond, func() { fired.Add(1) })
	c.start()
	defer c.stop()

	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if fired.Load() != 1 {
		t.Fatalf("expiry fired %d times, want 1", fired.Load())
	}
	if got := c.remainingSeconds(); got != 0 {
		t.Fatalf("remaining after expiry = %d, want 0", got)
	}

	// Further ticks must not re-fire.
	time.Sleep(10 * time.Millisecond)
	if fired.Load() != 1 {
		t.Fatalf("expiry re-fired, count = %d", fired.Load())
	}
}

func TestClockPauseFreezesCountdown(t *testing.T) {
	c := newClock(1000, time.Millisecond, nil)
	c.start()
	defer c.stop()

	deadline := time.Now().Add(2 * time.Second)
	for c.remainingSeconds() == 1000 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if c.remainingSeconds() == 1000 {
		t.Fatalf("clock never ticked")
	}

	c.pause()
	frozen := c.remainingSeconds()
	time.Sleep(10 * time.Millisecond)
	if got := c.remainingSeconds(); got != frozen {
		t.Fatalf("remaining moved while paused: %d -> %d", frozen, got)
	}

	c.resume()
	deadline = time.Now().Add(2 * time.Second)
	for c.remainingSeconds() == frozen && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if c.remainingSeconds() == frozen {
		t.Fatalf("clock did not resume from %d", frozen)
	}
}

func TestClockStopIsIdempotent(t *testing.T) {
	c := newClock(1000, time.Millisecond, nil)
	c.start()

	c.stop()
	c.stop()

	frozen := c.remainingSeconds()
	time.Sleep(10 * time.Millisecond)
	if got := c.remainingSeconds(); got != frozen {
		t.Fatalf("remaining moved after stop: %d -> %d", frozen, got)
	}
}
