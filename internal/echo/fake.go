package echo

import (
	"sync"
	"time"
)

// FakeTrigger is a test double for Trigger. OnPulse, if set, runs inside
// Pulse and typically feeds scripted edges back into an Engine.
type FakeTrigger struct {
	mu     sync.Mutex
	pulses int

	// OnPulse is called with the 1-based pulse number.
	OnPulse func(n int)

	// PulseError, if set, is returned by Pulse.
	PulseError error
}

// Pulse records the pulse and runs OnPulse.
func (f *FakeTrigger) Pulse() error {
	if f.PulseError != nil {
		return f.PulseError
	}
	f.mu.Lock()
	f.pulses++
	n := f.pulses
	f.mu.Unlock()

	if f.OnPulse != nil {
		f.OnPulse(n)
	}
	return nil
}

// Pulses returns how many pulses were emitted.
func (f *FakeTrigger) Pulses() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pulses
}

// FakeTimer is a Timer whose samples are taken directly from timestamps
// expressed in timer ticks. Rebase is counted but does not shift samples.
type FakeTimer struct {
	mu      sync.Mutex
	rebases int
}

// Rebase records the call.
func (f *FakeTimer) Rebase() {
	f.mu.Lock()
	f.rebases++
	f.mu.Unlock()
}

// SampleAt treats ts as an absolute tick count at TickPeriod resolution.
func (f *FakeTimer) SampleAt(ts time.Duration) TimerSample {
	return SampleFromTicks(uint64(ts / TickPeriod))
}

// Rebases returns how many times Rebase was called.
func (f *FakeTimer) Rebases() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rebases
}

// EchoAfter returns an OnPulse hook that answers every pulse with a clean
// echo of the given width, starting at the given counter position.
func EchoAfter(e *Engine, start TimerSample, widthMicros uint32) func(int) {
	return func(int) {
		end := SampleFromTicks(uint64(start.Combined()) + uint64(widthMicros)*TicksPerMicrosecond)
		e.OnEdge(true, start)
		e.OnEdge(false, end)
	}
}
