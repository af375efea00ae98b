// Package display drives an SSD1306 128x64 monochrome OLED over I2C from a
// Linux host. Framebuffer implements drivers.Displayer so tinyfont can draw
// on it directly.
package display

import (
	"fmt"
	"image/color"

	"tinygo.org/x/drivers"
)

// Panel geometry and default bus address.
const (
	Width          = 128
	Height         = 64
	DefaultAddress = 0x3C
)

// Control bytes prefixed to every I2C write.
const (
	controlCommand = 0x00
	controlData    = 0x40
)

// chunk is the number of data bytes sent per I2C transaction.
const chunk = 16

// initSequence configures a 128x64 panel with the internal charge pump,
// horizontal addressing and the display switched on.
var initSequence = []byte{
	// display off, clock divide, multiplex 64, offset 0, start line 0
	0xAE, 0xD5, 0x80, 0xA8, 0x3F, 0xD3, 0x00, 0x40,
	// charge pump on, horizontal addressing, segment remap, COM scan descending
	0x8D, 0x14, 0x20, 0x00, 0xA1, 0xC8,
	// COM pins, contrast, precharge, VCOMH deselect
	0xDA, 0x12, 0x81, 0xCF, 0xD9, 0xF1, 0xDB, 0x40,
	// resume to RAM content, normal (not inverted), scroll off, display on
	0xA4, 0xA6, 0x2E, 0xAF,
}

// Framebuffer is a page-organised pixel buffer: each byte holds eight
// vertical pixels of one column.
type Framebuffer struct {
	bus     drivers.I2C
	address uint16
	buf     []byte
	ready   bool
}

var _ drivers.Displayer = (*Framebuffer)(nil)

// New creates a blank framebuffer for the panel at address on bus.
// A zero address means DefaultAddress.
func New(bus drivers.I2C, address uint16) *Framebuffer {
	if address == 0 {
		address = DefaultAddress
	}
	return &Framebuffer{
		bus:     bus,
		address: address,
		buf:     make([]byte, Width*Height/8),
	}
}

// Size returns the panel dimensions in pixels.
func (f *Framebuffer) Size() (x, y int16) {
	return Width, Height
}

// SetPixel lights the pixel for any non-black colour. Out-of-range
// coordinates are ignored.
func (f *Framebuffer) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	idx := int(x) + int(y/8)*Width
	bit := byte(1) << uint(y%8)
	if c.R != 0 || c.G != 0 || c.B != 0 {
		f.buf[idx] |= bit
	} else {
		f.buf[idx] &^= bit
	}
}

// Pixel reports whether the pixel is lit.
func (f *Framebuffer) Pixel(x, y int16) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f.buf[int(x)+int(y/8)*Width]&(1<<uint(y%8)) != 0
}

// Clear blanks the buffer without touching the panel.
func (f *Framebuffer) Clear() {
	for i := range f.buf {
		f.buf[i] = 0
	}
}

// Display flushes the buffer to the panel, sending the init sequence on
// first use and again after any bus error, since the panel may have been
// reset.
func (f *Framebuffer) Display() error {
	if err := f.flush(); err != nil {
		f.ready = false
		return err
	}
	return nil
}

func (f *Framebuffer) flush() error {
	if !f.ready {
		if err := f.command(initSequence...); err != nil {
			return fmt.Errorf("init display: %w", err)
		}
		f.ready = true
	}
	if err := f.command(0x21, 0x00, Width-1, 0x22, 0x00, Height/8-1); err != nil {
		return fmt.Errorf("set window: %w", err)
	}

	w := make([]byte, chunk+1)
	w[0] = controlData
	for off := 0; off < len(f.buf); off += chunk {
		n := copy(w[1:], f.buf[off:])
		if err := f.bus.Tx(f.address, w[:n+1], nil); err != nil {
			return fmt.Errorf("write page data: %w", err)
		}
	}
	return nil
}

func (f *Framebuffer) command(cmds ...byte) error {
	w := make([]byte, 0, len(cmds)+1)
	w = append(w, controlCommand)
	w = append(w, cmds...)
	return f.bus.Tx(f.address, w, nil)
}
