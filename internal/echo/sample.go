package echo

import "time"

// Timer resolution of the free-running capture timer.
const (
	TickPeriod          = 500 * time.Nanosecond
	TicksPerMicrosecond = 2
)

// TimerSample is a snapshot of a free-running 16-bit counter together with
// the number of times it has overflowed since the last rebase.
type TimerSample struct {
	Counter   uint16
	Overflows uint32
}

// Combined folds the sample into a single 32-bit tick count. The overflow
// count is truncated to its low 16 bits, so combined values wrap at 2^32.
func (s TimerSample) Combined() uint32 {
	return s.Overflows<<16 + uint32(s.Counter)
}

// SampleFromTicks splits an absolute tick count into counter and overflow parts.
func SampleFromTicks(ticks uint64) TimerSample {
	return TimerSample{
		Counter:   uint16(ticks),
		Overflows: uint32(ticks >> 16),
	}
}

// ElapsedTicks returns the timer ticks between start and end. Unsigned
// subtraction adds the 2^32 modulus whenever end has wrapped past start.
func ElapsedTicks(start, end TimerSample) uint32 {
	return end.Combined() - start.Combined()
}

// ElapsedMicros returns the time between start and end in microseconds.
func ElapsedMicros(start, end TimerSample) uint32 {
	return ElapsedTicks(start, end) / TicksPerMicrosecond
}

// EdgeState tracks progress through a two-edge capture.
type EdgeState uint32

const (
	AwaitingRise EdgeState = iota
	AwaitingFall
	Captured
)

func (s EdgeState) String() string {
	switch s {
	case AwaitingRise:
		return "AWAITING_RISE"
	case AwaitingFall:
		return "AWAITING_FALL"
	case Captured:
		return "CAPTURED"
	}
	return "UNKNOWN"
}
