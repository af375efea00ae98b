// Package echo measures the width of an ultrasonic echo pulse.
//
// The engine drives a trigger line, then records a timer sample on the
// rising and on the falling edge of the echo line. Edges arrive through
// OnEdge (or HandleEdge) from an interrupt-like context: a GPIO event
// handler on Linux, a test goroutine in tests. The elapsed time between the
// two samples is computed in timer ticks so it stays correct across counter
// overflow and across wrap of the combined 32-bit count.
package echo

import (
	"context"
	"log"
	"sync/atomic"
	"time"
)

// Default timing limits.
const (
	// EchoTimeout bounds one measurement. An HC-SR04 holds echo high for
	// about 38ms when nothing is in range.
	EchoTimeout = 60 * time.Millisecond
	// StaleFactor multiplies the timeout to decide when an unfinished pulse
	// is abandoned and the engine may re-arm anyway.
	StaleFactor = 4
)

// Trigger emits the measurement pulse on the trigger line.
type Trigger interface {
	Pulse() error
}

// Timer is a free-running capture timer.
type Timer interface {
	// Rebase clears the overflow count so later samples count from now.
	Rebase()
	// SampleAt converts a monotonic edge timestamp into a timer sample.
	SampleAt(ts time.Duration) TimerSample
}

// Config holds engine timing limits. Zero values select the defaults.
type Config struct {
	Timeout    time.Duration
	StaleAfter time.Duration
}

// Stats counts engine outcomes since start.
type Stats struct {
	Measurements uint32
	Timeouts     uint32
	Busy         uint32
	Spurious     uint32
}

// Engine performs echo pulse measurements. Measure must be called from a
// single goroutine; OnEdge may be called concurrently from any goroutine.
type Engine struct {
	trigger Trigger
	timer   Timer
	timeout time.Duration
	stale   time.Duration

	cell captureCell
	done chan struct{}

	// owned by the measuring goroutine
	armedAt time.Time

	measurements atomic.Uint32
	timeouts     atomic.Uint32
	busy         atomic.Uint32
	spurious     atomic.Uint32
}

// NewEngine creates an engine that pulses trigger and timestamps edges with timer.
func NewEngine(trigger Trigger, timer Timer, cfg Config) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = EchoTimeout
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = StaleFactor * cfg.Timeout
	}
	return &Engine{
		trigger: trigger,
		timer:   timer,
		timeout: cfg.Timeout,
		stale:   cfg.StaleAfter,
		done:    make(chan struct{}, 1),
	}
}

// OnEdge records a transition of the echo line. It never blocks.
func (e *Engine) OnEdge(high bool, s TimerSample) {
	state, ok := e.cell.edge(high, s)
	if !ok {
		e.spurious.Add(1)
		return
	}
	if state == Captured {
		select {
		case e.done <- struct{}{}:
		default:
		}
	}
}

// HandleEdge records a transition using the engine's timer to convert the
// monotonic event timestamp.
func (e *Engine) HandleEdge(high bool, ts time.Duration) {
	e.OnEdge(high, e.timer.SampleAt(ts))
}

// State returns the current capture state.
func (e *Engine) State() EdgeState {
	state, _, _ := e.cell.load()
	return state
}

// Measure emits one trigger pulse and returns the echo pulse width in
// microseconds. It returns ErrEchoTimeout when no complete pulse arrives in
// time and ErrCaptureBusy when the previous pulse has not ended yet.
func (e *Engine) Measure(ctx context.Context) (uint32, error) {
	if state, _, _ := e.cell.load(); state == AwaitingFall && time.Since(e.armedAt) < e.stale {
		e.busy.Add(1)
		return 0, ErrCaptureBusy
	}

	e.timer.Rebase()
	e.cell.arm()
	select {
	case <-e.done:
	default:
	}
	e.armedAt = time.Now()

	if err := e.trigger.Pulse(); err != nil {
		return 0, err
	}

	timer := time.NewTimer(e.timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-timer.C:
		e.timeouts.Add(1)
		return 0, ErrEchoTimeout
	case <-e.done:
	}

	state, start, end := e.cell.load()
	if state != Captured {
		// Only arm clears Captured, and arm runs on this goroutine.
		log.Printf("echo: completion signalled in state %s", state)
		e.timeouts.Add(1)
		return 0, ErrEchoTimeout
	}
	e.measurements.Add(1)
	return ElapsedMicros(start, end), nil
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Measurements: e.measurements.Load(),
		Timeouts:     e.timeouts.Load(),
		Busy:         e.busy.Load(),
		Spurious:     e.spurious.Load(),
	}
}
