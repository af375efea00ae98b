package report

import (
	"sync"

	"github.com/sweeney/occupancy-gate/internal/logic"
)

// FakeSink records delivered events and counts for test assertions.
type FakeSink struct {
	mu     sync.Mutex
	events []logic.Event
	counts []uint32
}

// ReportText records the event.
func (f *FakeSink) ReportText(e logic.Event) {
	f.mu.Lock()
	f.events = append(f.events, e)
	f.mu.Unlock()
}

// RenderCount records the count.
func (f *FakeSink) RenderCount(count uint32) {
	f.mu.Lock()
	f.counts = append(f.counts, count)
	f.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (f *FakeSink) Events() []logic.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]logic.Event(nil), f.events...)
}

// Counts returns a copy of the rendered counts.
func (f *FakeSink) Counts() []uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint32(nil), f.counts...)
}

// Types returns the recorded event types in order.
func (f *FakeSink) Types() []logic.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]logic.EventType, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}
