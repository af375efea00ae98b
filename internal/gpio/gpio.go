// Package gpio provides the digital I/O boundary with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

import "github.com/sweeney/occupancy-gate/internal/logic"

// Reader reads the three access buttons.
type Reader interface {
	// Read returns which buttons are pressed.
	// The inputs are active low: raw 0 = pressed.
	Read() (logic.Buttons, error)

	// Close releases GPIO resources.
	Close() error
}

// Indicators drives the grant (green) and deny (red) outputs.
type Indicators interface {
	// Show applies a signal. SignalNone leaves the outputs unchanged.
	Show(s logic.Signal) error
}

// DefaultChip is the GPIO character device on a Raspberry Pi.
const DefaultChip = "gpiochip0"

// Pins holds line offsets (BCM numbering).
type Pins struct {
	Trigger int
	Echo    int
	Red     int
	Green   int
	Health  int
	Entry   int
	Exit    int
}

// Pin defaults (BCM numbering)
var DefaultPins = Pins{
	Trigger: 23,
	Echo:    24,
	Red:     17,
	Green:   27,
	Health:  5,
	Entry:   6,
	Exit:    13,
}

// levels returns the (green, red) output levels for a signal and whether
// the outputs should change at all.
func levels(s logic.Signal) (green, red int, ok bool) {
	switch s {
	case logic.SignalGrant:
		return 1, 0, true
	case logic.SignalDeny:
		return 0, 1, true
	case logic.SignalClear:
		return 0, 0, true
	}
	return 0, 0, false
}
