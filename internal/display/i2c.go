package display

import "errors"

// Bus is an I2C adapter that can be closed. It satisfies drivers.I2C.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
	Close() error
}

// DefaultDevice is the I2C adapter wired to the header pins on a Pi.
const DefaultDevice = "/dev/i2c-1"

var errUnsupported = errors.New("i2c: not supported on this platform")
