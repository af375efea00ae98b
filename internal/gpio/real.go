//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/occupancy-gate/internal/logic"
)

// Trigger pulse timing for the HC-SR04: settle low, then hold high.
const (
	triggerSettle = 3 * time.Microsecond
	triggerHigh   = 10 * time.Microsecond
)

// Board owns every line the gate uses on one GPIO chip.
type Board struct {
	chip    *gpiocdev.Chip
	health  *gpiocdev.Line
	entry   *gpiocdev.Line
	exit    *gpiocdev.Line
	red     *gpiocdev.Line
	green   *gpiocdev.Line
	trigger *gpiocdev.Line
	echo    *gpiocdev.Line
	pins    Pins
}

// Open requests the button, indicator and trigger lines. The echo line is
// requested separately by WatchEcho once its handler exists.
func Open(chipName string, pins Pins) (*Board, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	b := &Board{chip: chip, pins: pins}

	// Buttons short to ground; pull-ups hold them high when released.
	if b.health, err = chip.RequestLine(pins.Health, gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		b.Close()
		return nil, fmt.Errorf("request health pin %d: %w", pins.Health, err)
	}
	if b.entry, err = chip.RequestLine(pins.Entry, gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		b.Close()
		return nil, fmt.Errorf("request entry pin %d: %w", pins.Entry, err)
	}
	if b.exit, err = chip.RequestLine(pins.Exit, gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		b.Close()
		return nil, fmt.Errorf("request exit pin %d: %w", pins.Exit, err)
	}
	if b.red, err = chip.RequestLine(pins.Red, gpiocdev.AsOutput(0)); err != nil {
		b.Close()
		return nil, fmt.Errorf("request red pin %d: %w", pins.Red, err)
	}
	if b.green, err = chip.RequestLine(pins.Green, gpiocdev.AsOutput(0)); err != nil {
		b.Close()
		return nil, fmt.Errorf("request green pin %d: %w", pins.Green, err)
	}
	if b.trigger, err = chip.RequestLine(pins.Trigger, gpiocdev.AsOutput(0)); err != nil {
		b.Close()
		return nil, fmt.Errorf("request trigger pin %d: %w", pins.Trigger, err)
	}
	return b, nil
}

// Read returns the pressed state of the buttons.
// Inverts raw GPIO: raw 0 = pressed.
func (b *Board) Read() (logic.Buttons, error) {
	health, err := b.health.Value()
	if err != nil {
		return logic.Buttons{}, fmt.Errorf("read health pin: %w", err)
	}
	entry, err := b.entry.Value()
	if err != nil {
		return logic.Buttons{}, fmt.Errorf("read entry pin: %w", err)
	}
	exit, err := b.exit.Value()
	if err != nil {
		return logic.Buttons{}, fmt.Errorf("read exit pin: %w", err)
	}
	return logic.Buttons{
		Health: health == 0,
		Entry:  entry == 0,
		Exit:   exit == 0,
	}, nil
}

// Show drives the indicator LEDs.
func (b *Board) Show(s logic.Signal) error {
	green, red, ok := levels(s)
	if !ok {
		return nil
	}
	if err := b.green.SetValue(green); err != nil {
		return fmt.Errorf("set green pin: %w", err)
	}
	if err := b.red.SetValue(red); err != nil {
		return fmt.Errorf("set red pin: %w", err)
	}
	return nil
}

// Pulse emits the trigger pulse: low for at least 2µs, high for at least 10µs,
// then low again. Sleeping is too coarse at this scale, so it spins.
func (b *Board) Pulse() error {
	if err := b.trigger.SetValue(0); err != nil {
		return fmt.Errorf("trigger low: %w", err)
	}
	hold(triggerSettle)
	if err := b.trigger.SetValue(1); err != nil {
		return fmt.Errorf("trigger high: %w", err)
	}
	hold(triggerHigh)
	if err := b.trigger.SetValue(0); err != nil {
		return fmt.Errorf("trigger low: %w", err)
	}
	return nil
}

// WatchEcho requests the echo line with both-edge events. The handler runs
// on the gpiocdev event goroutine with the edge direction and the kernel's
// CLOCK_MONOTONIC timestamp, and must not block.
func (b *Board) WatchEcho(handler func(high bool, ts time.Duration)) error {
	line, err := b.chip.RequestLine(b.pins.Echo,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			handler(evt.Type == gpiocdev.LineEventRisingEdge, evt.Timestamp)
		}))
	if err != nil {
		return fmt.Errorf("request echo pin %d: %w", b.pins.Echo, err)
	}
	b.echo = line
	return nil
}

// Close releases GPIO resources.
// Outputs are switched off and every line is returned to an input with
// pull-down (matching Pi boot defaults) before closing.
func (b *Board) Close() error {
	var errs []error

	for _, out := range []*gpiocdev.Line{b.red, b.green, b.trigger} {
		if out == nil {
			continue
		}
		if err := out.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear pin %d: %w", out.Offset(), err))
		}
	}
	for _, l := range []*gpiocdev.Line{b.health, b.entry, b.exit, b.red, b.green, b.trigger, b.echo} {
		if l == nil {
			continue
		}
		if err := l.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", l.Offset(), err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin %d: %w", l.Offset(), err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func hold(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}
