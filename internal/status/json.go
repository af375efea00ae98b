package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	People        uint32       `json:"people"`
	Capacity      uint32       `json:"capacity"`
	Level         string       `json:"level"`
	CanEnter      bool         `json:"can_enter"`
	HealthOK      bool         `json:"health_ok"`
	LastDetectMs  uint32       `json:"last_detect_ms"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	Buttons       ButtonsJSON  `json:"buttons"`
	Distance      *SampleJSON  `json:"distance,omitempty"`
	Capture       CaptureJSON  `json:"capture"`
	Counts        CountsJSON   `json:"event_counts"`
	Recent        []RecentJSON `json:"recent,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// ButtonsJSON reports which buttons are pressed.
type ButtonsJSON struct {
	Health bool `json:"health"`
	Entry  bool `json:"entry"`
	Exit   bool `json:"exit"`
}

// SampleJSON is the JSON representation of a distance sample.
type SampleJSON struct {
	Valid       bool  `json:"valid"`
	Centimeters int32 `json:"cm"`
}

// CaptureJSON is the JSON representation of the capture engine counters.
type CaptureJSON struct {
	Measurements uint32 `json:"measurements"`
	Timeouts     uint32 `json:"timeouts"`
	Busy         uint32 `json:"busy"`
	Spurious     uint32 `json:"spurious_edges"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Approaches     int `json:"approaches"`
	CapacityDenied int `json:"capacity_denied"`
	HealthPassed   int `json:"health_passed"`
	Granted        int `json:"granted"`
	HealthDenied   int `json:"health_denied"`
	EntryIgnored   int `json:"entry_ignored"`
	Exits          int `json:"exits"`
	ExitEmpty      int `json:"exit_empty"`
}

// RecentJSON is one entry of the recent-events history.
type RecentJSON struct {
	TickMs     uint32 `json:"tick_ms"`
	Event      string `json:"event"`
	People     uint32 `json:"people"`
	DistanceCM int32  `json:"distance_cm,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs  int64  `json:"poll_ms"`
	Chip    string `json:"chip"`
	Serial  string `json:"serial,omitempty"`
	Display string `json:"display,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		People:        snap.State.PeopleCount,
		Capacity:      snap.Config.Capacity,
		Level:         string(snap.Level),
		CanEnter:      snap.State.CanEnter,
		HealthOK:      snap.State.HealthOK,
		LastDetectMs:  uint32(snap.State.LastDetect),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		Buttons: ButtonsJSON{
			Health: snap.Buttons.Health,
			Entry:  snap.Buttons.Entry,
			Exit:   snap.Buttons.Exit,
		},
		Capture: CaptureJSON{
			Measurements: snap.Capture.Measurements,
			Timeouts:     snap.Capture.Timeouts,
			Busy:         snap.Capture.Busy,
			Spurious:     snap.Capture.Spurious,
		},
		Counts: CountsJSON{
			Approaches:     snap.Counts.Approaches,
			CapacityDenied: snap.Counts.CapacityDenied,
			HealthPassed:   snap.Counts.HealthPassed,
			Granted:        snap.Counts.Granted,
			HealthDenied:   snap.Counts.HealthDenied,
			EntryIgnored:   snap.Counts.EntryIgnored,
			Exits:          snap.Counts.Exits,
			ExitEmpty:      snap.Counts.ExitEmpty,
		},
		Config: ConfigJSON{
			PollMs:  snap.Config.PollMs,
			Chip:    snap.Config.Chip,
			Serial:  snap.Config.Serial,
			Display: snap.Config.Display,
		},
	}
	if inner.Level == "" {
		inner.Level = "UNKNOWN"
	}
	if snap.LastSample != nil {
		inner.Distance = &SampleJSON{Valid: snap.LastSample.Valid, Centimeters: snap.LastSample.Centimeters}
	}
	for _, e := range snap.Recent {
		inner.Recent = append(inner.Recent, RecentJSON{
			TickMs:     uint32(e.Time),
			Event:      string(e.Type),
			People:     e.Count,
			DistanceCM: e.DistanceCM,
		})
	}
	return inner
}

// FormatJSON returns the indented JSON status document.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status tagged with a lifecycle
// event name (e.g. "SHUTDOWN"), for a single log line.
func FormatStatusEvent(snap Snapshot, event string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
