package echo

import "sync"

// captureCell holds the state shared between the edge handler and the
// measuring goroutine. Every access goes through the mutex, which plays the
// role of disabling the edge interrupt: the measurer never sees a state of
// Captured paired with a half-written sample.
type captureCell struct {
	mu    sync.Mutex
	state EdgeState
	start TimerSample
	end   TimerSample
}

// arm resets the cell for a new measurement.
func (c *captureCell) arm() {
	c.mu.Lock()
	c.state = AwaitingRise
	c.start = TimerSample{}
	c.end = TimerSample{}
	c.mu.Unlock()
}

// edge applies one logic transition. It reports the resulting state and
// whether the transition was accepted.
func (c *captureCell) edge(high bool, s TimerSample) (EdgeState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == AwaitingRise && high:
		c.start = s
		c.state = AwaitingFall
	case c.state == AwaitingFall && !high:
		c.end = s
		c.state = Captured
	default:
		return c.state, false
	}
	return c.state, true
}

// load returns the state and both samples as one consistent snapshot.
func (c *captureCell) load() (EdgeState, TimerSample, TimerSample) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.start, c.end
}
