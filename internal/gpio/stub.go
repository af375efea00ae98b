//go:build !linux

package gpio

import (
	"errors"
	"time"

	"github.com/sweeney/occupancy-gate/internal/logic"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// Board is not available on non-Linux platforms.
type Board struct{}

// Open returns an error on non-Linux platforms.
func Open(chipName string, pins Pins) (*Board, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (b *Board) Read() (logic.Buttons, error) {
	return logic.Buttons{}, errUnsupported
}

// Show is not implemented on non-Linux platforms.
func (b *Board) Show(s logic.Signal) error {
	return errUnsupported
}

// Pulse is not implemented on non-Linux platforms.
func (b *Board) Pulse() error {
	return errUnsupported
}

// WatchEcho is not implemented on non-Linux platforms.
func (b *Board) WatchEcho(handler func(high bool, ts time.Duration)) error {
	return errUnsupported
}

// Close is not implemented on non-Linux platforms.
func (b *Board) Close() error {
	return nil
}
