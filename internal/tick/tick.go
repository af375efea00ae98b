// Package tick provides the millisecond time base shared by the capture
// engine and the occupancy controller.
//
// A Tick wraps at 2^32 milliseconds (about 49.7 days). Two ticks must only be
// compared through Since, which relies on unsigned subtraction and stays
// correct across a wrap.
package tick

import (
	"sync/atomic"
	"time"
)

// Tick is a count of elapsed milliseconds since start.
type Tick uint32

// Since returns the number of milliseconds from then to now.
func Since(now, then Tick) uint32 {
	return uint32(now - then)
}

// Duration converts a millisecond span into a time.Duration.
func Duration(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// Millis converts a duration into a millisecond span, truncating.
func Millis(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}

// Source reports the current tick.
type Source interface {
	Now() Tick
}

// Clock is a Source backed by the Go monotonic clock.
type Clock struct {
	start time.Time
}

// NewClock returns a Clock whose tick zero is the moment of the call.
func NewClock() *Clock {
	return &Clock{start: time.Now()}
}

// Now returns milliseconds since the clock was created, truncated to 32 bits.
func (c *Clock) Now() Tick {
	return Tick(uint64(time.Since(c.start) / time.Millisecond))
}

// Manual is a Source whose value is set explicitly. Reads are atomic so it
// may be shared with goroutines standing in for interrupt handlers.
type Manual struct {
	v atomic.Uint32
}

// NewManual returns a Manual source starting at t.
func NewManual(t Tick) *Manual {
	m := &Manual{}
	m.v.Store(uint32(t))
	return m
}

// Now returns the current value.
func (m *Manual) Now() Tick {
	return Tick(m.v.Load())
}

// Set replaces the current value.
func (m *Manual) Set(t Tick) {
	m.v.Store(uint32(t))
}

// Advance moves the source forward by d, wrapping at 2^32 ms.
func (m *Manual) Advance(d time.Duration) Tick {
	return Tick(m.v.Add(Millis(d)))
}
