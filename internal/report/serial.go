package report

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud matches the 9600 8N1 console of the gate controller.
const DefaultBaud = 9600

// SerialConfig selects the console port.
type SerialConfig struct {
	Device string
	Baud   int
}

// Port is an open serial console.
type Port interface {
	io.Writer
	Close() error
}

// OpenSerial opens the serial console. Writes block for at most the
// port's own buffering; reads are never issued.
func OpenSerial(cfg SerialConfig) (Port, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("serial device not set")
	}
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", cfg.Device, err)
	}
	return port, nil
}
