package gpio

import (
	"errors"

	"github.com/sweeney/occupancy-gate/internal/logic"
)

// FakeReader is a test double that returns scripted button states.
type FakeReader struct {
	// Samples contains scripted button states to return.
	// Each call to Read() consumes the next sample.
	Samples []logic.Buttons

	// index tracks current position in Samples
	index int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples []logic.Buttons) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeReader) Read() (logic.Buttons, error) {
	if f.ReadError != nil {
		return logic.Buttons{}, f.ReadError
	}

	if len(f.Samples) == 0 {
		return logic.Buttons{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of samples.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Closed = false
}

// FakeIndicators records indicator changes and the resulting LED levels.
type FakeIndicators struct {
	// Signals contains every signal applied, excluding SignalNone.
	Signals []logic.Signal

	// Green and Red hold the current output levels.
	Green bool
	Red   bool

	// ShowError, if set, will be returned by Show.
	ShowError error
}

// Show records the signal and updates the levels.
func (f *FakeIndicators) Show(s logic.Signal) error {
	if f.ShowError != nil {
		return f.ShowError
	}
	green, red, ok := levels(s)
	if !ok {
		return nil
	}
	f.Signals = append(f.Signals, s)
	f.Green = green == 1
	f.Red = red == 1
	return nil
}
