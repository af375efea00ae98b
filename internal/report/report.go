// Package report renders occupancy events for people: text lines on a
// console or serial port and the current count on the OLED panel.
package report

import (
	"github.com/sweeney/occupancy-gate/internal/logic"
)

// Sink receives events and count changes. Both calls are fire-and-forget:
// a sink logs its own delivery errors and never blocks the control loop on
// a retry.
type Sink interface {
	// ReportText renders the event's message.
	ReportText(e logic.Event)

	// RenderCount shows the current occupancy count.
	RenderCount(count uint32)
}

// Fanout delivers to every sink in order.
type Fanout []Sink

// ReportText forwards to each sink.
func (f Fanout) ReportText(e logic.Event) {
	for _, s := range f {
		s.ReportText(e)
	}
}

// RenderCount forwards to each sink.
func (f Fanout) RenderCount(count uint32) {
	for _, s := range f {
		s.RenderCount(count)
	}
}
