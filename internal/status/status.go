// Package status provides a thread-safe status tracker for the occupancy-gate daemon.
// It is written by the main loop and read by signal handlers and the
// -print-state diagnostic.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/occupancy-gate/internal/echo"
	"github.com/sweeney/occupancy-gate/internal/logic"
)

// RecentEvents is how many past events a snapshot carries.
const RecentEvents = 16

// Config contains daemon configuration for display.
type Config struct {
	PollMs   int64
	Chip     string
	Serial   string
	Display  string
	Capacity uint32
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type and safe to use after the lock is released.
type Snapshot struct {
	State      logic.OccupancyState
	Level      logic.Level
	Counts     logic.EventCounts
	LastSample *logic.DistanceSample
	Buttons    logic.Buttons
	Capture    echo.Stats
	Recent     []logic.Event
	StartTime  time.Time
	Now        time.Time
	Config     Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu     sync.RWMutex
	snap   Snapshot
	recent *ringBuffer
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
			Level:     logic.LevelFor(0, cfg.Capacity),
		},
		recent: newRingBuffer(RecentEvents),
	}
}

// Update sets the occupancy state, level and event counts.
// Called from runLoop on every tick.
func (t *Tracker) Update(state logic.OccupancyState, level logic.Level, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Level = level
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetInputs records the latest button levels and, if one was taken, the
// latest distance sample.
func (t *Tracker) SetInputs(b logic.Buttons, sample *logic.DistanceSample) {
	t.mu.Lock()
	t.snap.Buttons = b
	if sample != nil {
		s := *sample
		t.snap.LastSample = &s
	}
	t.mu.Unlock()
}

// SetCapture records the capture engine counters.
func (t *Tracker) SetCapture(stats echo.Stats) {
	t.mu.Lock()
	t.snap.Capture = stats
	t.mu.Unlock()
}

// Record appends events to the recent-events history.
func (t *Tracker) Record(events ...logic.Event) {
	t.mu.Lock()
	for _, e := range events {
		t.recent.push(e)
	}
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	s.Recent = t.recent.items()
	if s.LastSample != nil {
		ls := *s.LastSample
		s.LastSample = &ls
	}
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
