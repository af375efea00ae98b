package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/sweeney/occupancy-gate/internal/echo"
	"github.com/sweeney/occupancy-gate/internal/gpio"
	"github.com/sweeney/occupancy-gate/internal/logic"
	"github.com/sweeney/occupancy-gate/internal/report"
	"github.com/sweeney/occupancy-gate/internal/status"
	"github.com/sweeney/occupancy-gate/internal/tick"
)

// stepClock yields start, start+step, start+2*step, ... on successive calls.
// Only called from runLoop's goroutine.
type stepClock struct {
	next tick.Tick
	step uint32
}

func (c *stepClock) Now() tick.Tick {
	t := c.next
	c.next += tick.Tick(c.step)
	return t
}

// scriptedSampler returns scripted samples, repeating the last one.
type scriptedSampler struct {
	samples []logic.DistanceSample
	calls   int
}

func (s *scriptedSampler) Sample(ctx context.Context) logic.DistanceSample {
	i := s.calls
	s.calls++
	if len(s.samples) == 0 {
		return logic.DistanceSample{}
	}
	if i >= len(s.samples) {
		i = len(s.samples) - 1
	}
	return s.samples[i]
}

type fixedStats echo.Stats

func (f fixedStats) Stats() echo.Stats { return echo.Stats(f) }

// faultReader wraps a FakeReader and returns errors for a range of Read() calls.
type faultReader struct {
	inner      *gpio.FakeReader
	call       int
	faultStart int // inclusive
	faultEnd   int // exclusive
}

func (r *faultReader) Read() (logic.Buttons, error) {
	i := r.call
	r.call++
	if i >= r.faultStart && i < r.faultEnd {
		return logic.Buttons{}, errors.New("gpio fault")
	}
	return r.inner.Read()
}

func (r *faultReader) Close() error { return r.inner.Close() }

var (
	near     = logic.DistanceSample{Valid: true, Centimeters: 30}
	none     = logic.Buttons{}
	health   = logic.Buttons{Health: true}
	entry    = logic.Buttons{Entry: true}
	exitBtn  = logic.Buttons{Exit: true}
	testTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
)

type harness struct {
	deps       loopDeps
	sampler    *scriptedSampler
	indicators *gpio.FakeIndicators
	sink       *report.FakeSink
	tracker    *status.Tracker
}

func newHarness(reader gpio.Reader, samples []logic.DistanceSample, cfg logic.Config) *harness {
	h := &harness{
		sampler:    &scriptedSampler{samples: samples},
		indicators: &gpio.FakeIndicators{},
		sink:       &report.FakeSink{},
		tracker:    status.NewTracker(testTime, status.Config{Capacity: cfg.MaxCapacity}),
	}
	h.deps = loopDeps{
		ctl:        logic.NewController(cfg),
		reader:     reader,
		indicators: h.indicators,
		sampler:    h.sampler,
		capture:    fixedStats{Measurements: 3, Timeouts: 1},
		sink:       h.sink,
		tracker:    h.tracker,
	}
	return h
}

// run drives runLoop for nTicks ticks stepMs apart, then delivers signal.
func (h *harness) run(t *testing.T, stepMs uint32, nTicks int, signal os.Signal) error {
	t.Helper()
	ticks := make(chan time.Time)
	sig := make(chan os.Signal, 1)

	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(context.Background(), h.deps, &stepClock{next: 1000, step: stepMs}, ticks, sig)
	}()

	for i := 0; i < nTicks; i++ {
		ticks <- testTime
	}
	sig <- signal

	return <-errCh
}

func equalTypes(got, want []logic.EventType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestRunLoopShutdownSIGTERM(t *testing.T) {
	h := newHarness(gpio.NewFakeReader([]logic.Buttons{none}), nil, logic.DefaultConfig())

	if err := h.run(t, 100, 0, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if len(h.indicators.Signals) != 1 || h.indicators.Signals[0] != logic.SignalClear {
		t.Errorf("expected indicators cleared on shutdown, got %v", h.indicators.Signals)
	}
}

func TestRunLoopShutdownSIGINT(t *testing.T) {
	h := newHarness(gpio.NewFakeReader([]logic.Buttons{none}), nil, logic.DefaultConfig())

	if err := h.run(t, 100, 3, syscall.SIGINT); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if h.indicators.Green || h.indicators.Red {
		t.Error("expected both indicators off after shutdown")
	}
}

func TestRunLoopGrantFlow(t *testing.T) {
	reader := gpio.NewFakeReader([]logic.Buttons{none, health, none, entry, none})
	h := newHarness(reader, []logic.DistanceSample{near}, logic.DefaultConfig())

	if err := h.run(t, 100, 6, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	want := []logic.EventType{logic.EventApproach, logic.EventHealthPassed, logic.EventAccessGranted}
	if got := h.sink.Types(); !equalTypes(got, want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	if got := h.sink.Counts(); len(got) != 1 || got[0] != 1 {
		t.Errorf("rendered counts: got %v, want [1]", got)
	}
	if h.sampler.calls != 1 {
		t.Errorf("sampler calls: got %d, want 1 (cooldown)", h.sampler.calls)
	}

	wantSignals := []logic.Signal{logic.SignalGrant, logic.SignalClear}
	if len(h.indicators.Signals) != len(wantSignals) {
		t.Fatalf("signals: got %v, want %v", h.indicators.Signals, wantSignals)
	}
	for i := range wantSignals {
		if h.indicators.Signals[i] != wantSignals[i] {
			t.Errorf("signal %d: got %v, want %v", i, h.indicators.Signals[i], wantSignals[i])
		}
	}

	snap := h.tracker.Snapshot()
	if snap.State.PeopleCount != 1 {
		t.Errorf("tracker people: got %d, want 1", snap.State.PeopleCount)
	}
	if snap.Counts.Granted != 1 || snap.Counts.Approaches != 1 {
		t.Errorf("tracker counts: got %+v", snap.Counts)
	}
	if len(snap.Recent) != 3 {
		t.Errorf("tracker recent: got %d events, want 3", len(snap.Recent))
	}
	if snap.Capture.Measurements != 3 {
		t.Errorf("tracker capture: got %+v", snap.Capture)
	}
	if snap.LastSample == nil || snap.LastSample.Centimeters != 30 {
		t.Errorf("tracker last sample: got %+v", snap.LastSample)
	}
}

func TestRunLoopSamplesEveryCycleUntilApproach(t *testing.T) {
	far := logic.DistanceSample{Valid: true, Centimeters: 200}
	h := newHarness(gpio.NewFakeReader([]logic.Buttons{none}), []logic.DistanceSample{far}, logic.DefaultConfig())

	if err := h.run(t, 100, 5, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if h.sampler.calls != 5 {
		t.Errorf("sampler calls: got %d, want 5", h.sampler.calls)
	}
	if len(h.sink.Events()) != 0 {
		t.Errorf("expected no events, got %v", h.sink.Types())
	}
}

func TestRunLoopCooldownResamples(t *testing.T) {
	// One tick per second: approach at t0, cooldown holds through t6, t7 samples again.
	h := newHarness(gpio.NewFakeReader([]logic.Buttons{none}), []logic.DistanceSample{near}, logic.DefaultConfig())

	if err := h.run(t, 1000, 8, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	if h.sampler.calls != 2 {
		t.Errorf("sampler calls: got %d, want 2", h.sampler.calls)
	}
	want := []logic.EventType{logic.EventApproach, logic.EventApproach}
	if got := h.sink.Types(); !equalTypes(got, want) {
		t.Errorf("events: got %v, want %v", got, want)
	}
}

func TestRunLoopExitEmpty(t *testing.T) {
	reader := gpio.NewFakeReader([]logic.Buttons{exitBtn, none})
	h := newHarness(reader, nil, logic.DefaultConfig())

	if err := h.run(t, 100, 2, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	want := []logic.EventType{logic.EventExitEmpty}
	if got := h.sink.Types(); !equalTypes(got, want) {
		t.Errorf("events: got %v, want %v", got, want)
	}
	if got := h.sink.Counts(); len(got) != 0 {
		t.Errorf("expected no count render, got %v", got)
	}
	if h.tracker.Snapshot().State.PeopleCount != 0 {
		t.Error("count must not underflow")
	}
}

func TestRunLoopAtCapacity(t *testing.T) {
	cfg := logic.DefaultConfig()
	cfg.MaxCapacity = 1
	reader := gpio.NewFakeReader([]logic.Buttons{none, health, entry, none, exitBtn, none})
	h := newHarness(reader, []logic.DistanceSample{near}, cfg)

	if err := h.run(t, 400, 6, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	want := []logic.EventType{
		logic.EventApproach,
		logic.EventHealthPassed,
		logic.EventAccessGranted,
		logic.EventCapacityDenied,
	}
	if got := h.sink.Types(); !equalTypes(got, want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	if h.tracker.Snapshot().State.PeopleCount != 1 {
		t.Errorf("people: got %d, want 1", h.tracker.Snapshot().State.PeopleCount)
	}
	if h.tracker.Snapshot().Level != logic.LevelFull {
		t.Errorf("level: got %s, want FULL", h.tracker.Snapshot().Level)
	}
}

func TestRunLoopGPIOReadError(t *testing.T) {
	reader := &faultReader{
		inner:      gpio.NewFakeReader([]logic.Buttons{none}),
		faultStart: 0,
		faultEnd:   100,
	}
	h := newHarness(reader, nil, logic.DefaultConfig())

	if err := h.run(t, 100, 5, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop should survive read errors, got: %v", err)
	}
	if len(h.sink.Events()) != 0 {
		t.Errorf("expected no events, got %v", h.sink.Types())
	}
}

func TestRunLoopGPIOErrorRecovery(t *testing.T) {
	// Reads 1-2 fail; the entry press on read 3 is still an edge because the
	// failed reads were treated as released.
	inner := gpio.NewFakeReader([]logic.Buttons{none, entry, entry, entry, none})
	reader := &faultReader{inner: inner, faultStart: 1, faultEnd: 3}
	h := newHarness(reader, nil, logic.DefaultConfig())

	if err := h.run(t, 100, 5, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}

	want := []logic.EventType{logic.EventEntryIgnored}
	if got := h.sink.Types(); !equalTypes(got, want) {
		t.Errorf("events: got %v, want %v", got, want)
	}
}

func TestRunLoopIndicatorErrorDoesNotStopLoop(t *testing.T) {
	reader := gpio.NewFakeReader([]logic.Buttons{exitBtn, none})
	h := newHarness(reader, nil, logic.DefaultConfig())
	h.indicators.ShowError = errors.New("line busy")

	if err := h.run(t, 400, 2, syscall.SIGTERM); err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if len(h.sink.Events()) != 1 {
		t.Errorf("expected 1 event, got %v", h.sink.Types())
	}
}

func TestRunLoopSIGUSR1Continues(t *testing.T) {
	reader := gpio.NewFakeReader([]logic.Buttons{exitBtn, none})
	h := newHarness(reader, nil, logic.DefaultConfig())

	ticks := make(chan time.Time)
	sig := make(chan os.Signal, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(context.Background(), h.deps, &stepClock{next: 1000, step: 100}, ticks, sig)
	}()

	sig <- syscall.SIGUSR1
	ticks <- testTime
	ticks <- testTime
	sig <- syscall.SIGTERM

	if err := <-errCh; err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
	if len(h.sink.Events()) != 1 {
		t.Errorf("loop should keep running after SIGUSR1, got events %v", h.sink.Types())
	}
}

func TestRunLoopWithoutTracker(t *testing.T) {
	reader := gpio.NewFakeReader([]logic.Buttons{exitBtn, none})
	h := newHarness(reader, nil, logic.DefaultConfig())
	h.deps.tracker = nil
	h.deps.capture = nil

	ticks := make(chan time.Time)
	sig := make(chan os.Signal, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- runLoop(context.Background(), h.deps, &stepClock{step: 100}, ticks, sig)
	}()

	ticks <- testTime
	sig <- syscall.SIGUSR1
	sig <- syscall.SIGTERM

	if err := <-errCh; err != nil {
		t.Fatalf("runLoop returned error: %v", err)
	}
}
