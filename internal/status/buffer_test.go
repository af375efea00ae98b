package status

import (
	"testing"

	"github.com/sweeney/occupancy-gate/internal/logic"
	"github.com/sweeney/occupancy-gate/internal/tick"
)

func uint32ToTick(i int) tick.Tick {
	return tick.Tick(uint32(i))
}

func ev(i int) logic.Event {
	return logic.Event{Time: uint32ToTick(i), Type: logic.EventApproach}
}

func TestRingBufferEmpty(t *testing.T) {
	r := newRingBuffer(4)
	if r.len() != 0 {
		t.Errorf("len: got %d, want 0", r.len())
	}
	if r.items() != nil {
		t.Error("expected nil items")
	}
}

func TestRingBufferOrder(t *testing.T) {
	r := newRingBuffer(4)
	for i := 0; i < 3; i++ {
		r.push(ev(i))
	}

	items := r.items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i, e := range items {
		if e.Time != uint32ToTick(i) {
			t.Errorf("item %d: got tick %d", i, e.Time)
		}
	}
}

func TestRingBufferOverwritesOldest(t *testing.T) {
	r := newRingBuffer(3)
	for i := 0; i < 7; i++ {
		r.push(ev(i))
	}

	if r.len() != 3 {
		t.Errorf("len: got %d, want 3", r.len())
	}
	items := r.items()
	for i, want := range []int{4, 5, 6} {
		if items[i].Time != uint32ToTick(want) {
			t.Errorf("item %d: got tick %d, want %d", i, items[i].Time, want)
		}
	}
}

func TestRingBufferItemsDoesNotDrain(t *testing.T) {
	r := newRingBuffer(2)
	r.push(ev(1))
	r.items()
	if r.len() != 1 {
		t.Errorf("items must not drain, len=%d", r.len())
	}
}
