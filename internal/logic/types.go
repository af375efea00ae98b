// Package logic contains the pure occupancy and access-control state machine.
// This package has NO external dependencies (no GPIO, serial, display, OS, or
// time.Sleep). Time is always injectable via tick.Tick values.
package logic

import (
	"time"

	"github.com/sweeney/occupancy-gate/internal/tick"
)

// Fixed thresholds. They are not runtime configurable.
const (
	MaxCapacity         uint32 = 10
	ApproachThresholdCM int32  = 50
	DetectionCooldown          = 6000 * time.Millisecond
	ButtonDebounce             = 250 * time.Millisecond
	ExitDebounce               = 300 * time.Millisecond
)

// DistanceSample is the outcome of one distance measurement attempt.
// Valid is false on echo timeout or an out-of-range reading.
type DistanceSample struct {
	Valid       bool
	Centimeters int32
}

// Buttons holds the pressed state of the three inputs (already inverted
// from the active-low raw levels).
type Buttons struct {
	Health bool
	Entry  bool
	Exit   bool
}

// Any reports whether any button is pressed.
func (b Buttons) Any() bool {
	return b.Health || b.Entry || b.Exit
}

// Input is one polling cycle's worth of observations.
type Input struct {
	Time tick.Tick
	// Sample is nil when no measurement was taken this cycle.
	Sample  *DistanceSample
	Buttons Buttons
}

// EventType identifies an access-control outcome.
type EventType string

const (
	EventApproach       EventType = "APPROACH"
	EventCapacityDenied EventType = "CAPACITY_DENIED"
	EventHealthPassed   EventType = "HEALTH_PASSED"
	EventAccessGranted  EventType = "ACCESS_GRANTED"
	EventHealthDenied   EventType = "HEALTH_DENIED"
	EventEntryIgnored   EventType = "ENTRY_IGNORED"
	EventExit           EventType = "EXIT"
	EventExitEmpty      EventType = "EXIT_EMPTY"
)

// Message returns the console line for the event type.
func (t EventType) Message() string {
	switch t {
	case EventApproach:
		return "Individual approaching"
	case EventCapacityDenied:
		return "Maximum Capacity Reached. Access Denied."
	case EventHealthPassed:
		return "Health Check Passed."
	case EventAccessGranted:
		return "Health Check Passed. Access Granted."
	case EventHealthDenied:
		return "Health Check Failed. Access Denied."
	case EventEntryIgnored:
		return "No recent person detected. Ignoring entry."
	case EventExit:
		return "Exit Button Pressed."
	case EventExitEmpty:
		return "Exit Pressed but no one inside."
	}
	return string(t)
}

// CountChanged reports whether events of this type change the occupancy count.
func (t EventType) CountChanged() bool {
	return t == EventAccessGranted || t == EventExit
}

// Event is an outcome to be reported.
type Event struct {
	Time       tick.Tick
	Type       EventType
	Count      uint32 // occupancy after the event
	Level      Level
	DistanceCM int32 // approach events only
}

// Level is the coarse occupancy band.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
	LevelFull   Level = "FULL"
)

// LevelFor maps a count to its occupancy band: up to 40% is LOW, up to 80%
// is MEDIUM, anything below capacity above that is HIGH.
func LevelFor(count, capacity uint32) Level {
	if capacity == 0 || count >= capacity {
		return LevelFull
	}
	pct := count * 100 / capacity
	switch {
	case pct <= 40:
		return LevelLow
	case pct <= 80:
		return LevelMedium
	}
	return LevelHigh
}

// Signal is the state of the grant/deny indicator pair.
type Signal int

const (
	SignalNone  Signal = iota // leave indicators unchanged
	SignalGrant               // grant on, deny off
	SignalDeny                // deny on, grant off
	SignalClear               // both off
)

func (s Signal) String() string {
	switch s {
	case SignalNone:
		return "NONE"
	case SignalGrant:
		return "GRANT"
	case SignalDeny:
		return "DENY"
	case SignalClear:
		return "CLEAR"
	}
	return "UNKNOWN"
}

// SignalFor returns the indicator state driven by an event.
func SignalFor(t EventType) Signal {
	switch t {
	case EventAccessGranted:
		return SignalGrant
	case EventCapacityDenied, EventHealthDenied:
		return SignalDeny
	case EventExit, EventExitEmpty:
		return SignalClear
	}
	return SignalNone
}

// OccupancyState is the controller's state. PeopleCount is the only durable
// field; CanEnter and HealthOK are consumed when they gate an entry.
type OccupancyState struct {
	PeopleCount uint32
	CanEnter    bool
	HealthOK    bool
	LastDetect  tick.Tick
}

// Config holds controller thresholds. Zero fields take the package defaults.
type Config struct {
	MaxCapacity    uint32
	ApproachCM     int32
	Cooldown       time.Duration
	HealthDebounce time.Duration
	EntryDebounce  time.Duration
	ExitDebounce   time.Duration
}

// DefaultConfig returns the fixed thresholds.
func DefaultConfig() Config {
	return Config{
		MaxCapacity:    MaxCapacity,
		ApproachCM:     ApproachThresholdCM,
		Cooldown:       DetectionCooldown,
		HealthDebounce: ButtonDebounce,
		EntryDebounce:  ButtonDebounce,
		ExitDebounce:   ExitDebounce,
	}
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Approaches     int
	CapacityDenied int
	HealthPassed   int
	Granted        int
	HealthDenied   int
	EntryIgnored   int
	Exits          int
	ExitEmpty      int
}
