//go:build linux

package display

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// i2cSlave is the ioctl selecting the target address for plain read/write.
const i2cSlave = 0x0703

type devBus struct {
	mu   sync.Mutex
	fd   int
	addr uint16
	set  bool
}

// OpenI2C opens an I2C adapter such as /dev/i2c-1.
func OpenI2C(dev string) (Bus, error) {
	fd, err := unix.Open(dev, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dev, err)
	}
	return &devBus{fd: fd}, nil
}

// Tx writes w then reads len(r) bytes from the device at addr.
func (b *devBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.set || b.addr != addr {
		if err := unix.IoctlSetInt(b.fd, i2cSlave, int(addr)); err != nil {
			return fmt.Errorf("select address 0x%02x: %w", addr, err)
		}
		b.addr = addr
		b.set = true
	}
	if len(w) > 0 {
		n, err := unix.Write(b.fd, w)
		if err != nil {
			return fmt.Errorf("write 0x%02x: %w", addr, err)
		}
		if n != len(w) {
			return fmt.Errorf("write 0x%02x: short write %d/%d", addr, n, len(w))
		}
	}
	if len(r) > 0 {
		n, err := unix.Read(b.fd, r)
		if err != nil {
			return fmt.Errorf("read 0x%02x: %w", addr, err)
		}
		if n != len(r) {
			return fmt.Errorf("read 0x%02x: short read %d/%d", addr, n, len(r))
		}
	}
	return nil
}

func (b *devBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return unix.Close(b.fd)
}
