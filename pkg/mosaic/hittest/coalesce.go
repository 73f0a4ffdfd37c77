package hittest

import (
	"sync"
	"time"
)

// FrameInterval is the default hover read cadence, roughly one display
// frame.
const FrameInterval = 16 * time.Millisecond

// Coalescer merges bursts of pointer movement into at most one pending
// read. The caller schedules a frame when [Coalescer.Move] returns true and
// calls [Coalescer.Fire] when it elapses; moves in between only update the
// coordinates the pending frame will use.
type Coalescer struct {
	mu      sync.Mutex
	pending bool
	x, y    float64
}

// Move records the latest pointer position. It returns true when no frame
// is pending and the caller must schedule one.
func (c *Coalescer) Move(x, y float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.x, c.y = x, y
	if c.pending {
		return false
	}
	c.pending = true
	return true
}

// Fire clears the pending frame and returns the latest coordinates. ok is
// false if no frame was pending.
func (c *Coalescer) Fire() (x, y float64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pending {
		return 0, 0, false
	}
	c.pending = false
	return c.x, c.y, true
}

// Cancel drops a pending frame, for example when the pointer leaves the
// canvas.
func (c *Coalescer) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
}
