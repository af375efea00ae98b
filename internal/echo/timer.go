package echo

import (
	"sync/atomic"
	"time"
)

// MonotonicTimer emulates a 16-bit capture timer clocked at TickPeriod on
// top of the system monotonic clock, the same clock that stamps GPIO edge
// events.
type MonotonicTimer struct {
	now  func() time.Duration
	base atomic.Int64
}

// NewMonotonicTimer returns a timer reading the platform monotonic clock.
func NewMonotonicTimer() *MonotonicTimer {
	return newMonotonicTimer(monotonicNow)
}

func newMonotonicTimer(now func() time.Duration) *MonotonicTimer {
	t := &MonotonicTimer{now: now}
	t.Rebase()
	return t
}

// Rebase makes the current instant the timer's zero point.
func (t *MonotonicTimer) Rebase() {
	t.base.Store(int64(t.now()))
}

// SampleAt converts ts into counter and overflow parts relative to the last
// rebase. Timestamps earlier than the base sample as zero.
func (t *MonotonicTimer) SampleAt(ts time.Duration) TimerSample {
	d := ts - time.Duration(t.base.Load())
	if d < 0 {
		d = 0
	}
	return SampleFromTicks(uint64(d / TickPeriod))
}

// Now samples the timer at the current instant.
func (t *MonotonicTimer) Now() TimerSample {
	return t.SampleAt(t.now())
}
