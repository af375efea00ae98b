// Package ranging turns echo pulse widths into distance samples.
package ranging

import (
	"context"
	"errors"
	"log"

	"github.com/sweeney/occupancy-gate/internal/echo"
	"github.com/sweeney/occupancy-gate/internal/logic"
)

const (
	// MicrosPerCM is the round-trip echo time per centimetre at the speed
	// of sound (HC-SR04 datasheet).
	MicrosPerCM = 58
	// MaxRangeCM is the sensor's rated range. Longer readings are noise.
	MaxRangeCM = 400
)

// ErrInvalidDistance reports a pulse that converts to an implausible distance.
var ErrInvalidDistance = errors.New("ranging: implausible distance")

// Measurer produces echo pulse widths in microseconds.
type Measurer interface {
	Measure(ctx context.Context) (uint32, error)
}

// Sampler reads distance samples through a Measurer.
type Sampler struct {
	m Measurer
}

// NewSampler creates a Sampler over m.
func NewSampler(m Measurer) *Sampler {
	return &Sampler{m: m}
}

// Sample performs one measurement. Failures are not errors to the caller:
// they come back as an invalid sample and are retried on a later cycle.
func (s *Sampler) Sample(ctx context.Context) logic.DistanceSample {
	us, err := s.m.Measure(ctx)
	if err == nil {
		err = Validate(us)
	}
	if err != nil {
		if !expected(err) {
			log.Printf("ranging: measure failed: %v", err)
		}
		return logic.DistanceSample{}
	}
	return logic.DistanceSample{Valid: true, Centimeters: Centimeters(us)}
}

// Centimeters converts an echo pulse width to centimetres.
func Centimeters(us uint32) int32 {
	return int32(us / MicrosPerCM)
}

// Validate reports ErrInvalidDistance unless us converts to a distance in
// (0, MaxRangeCM].
func Validate(us uint32) error {
	cm := Centimeters(us)
	if cm <= 0 || cm > MaxRangeCM {
		return ErrInvalidDistance
	}
	return nil
}

// expected reports errors that are part of normal operation: nobody in
// range, a pulse still in flight, or a discarded reading.
func expected(err error) bool {
	return errors.Is(err, echo.ErrEchoTimeout) ||
		errors.Is(err, echo.ErrCaptureBusy) ||
		errors.Is(err, ErrInvalidDistance) ||
		errors.Is(err, context.Canceled)
}
