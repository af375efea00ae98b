package status

import "github.com/sweeney/occupancy-gate/internal/logic"

// ringBuffer is a fixed-capacity FIFO of recent events; the oldest entry
// is overwritten when full.
// Not safe for concurrent use; the Tracker lock guards it.
type ringBuffer struct {
	buf      []logic.Event
	capacity int
	head     int // next write position
	count    int
}

func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{
		buf:      make([]logic.Event, capacity),
		capacity: capacity,
	}
}

func (r *ringBuffer) push(e logic.Event) {
	r.buf[r.head] = e
	r.head = (r.head + 1) % r.capacity
	if r.count < r.capacity {
		r.count++
	}
}

// items returns the buffered events, oldest first, without removing them.
func (r *ringBuffer) items() []logic.Event {
	if r.count == 0 {
		return nil
	}

	result := make([]logic.Event, r.count)
	// Oldest item is at (head - count) mod capacity
	start := (r.head - r.count + r.capacity) % r.capacity
	for i := 0; i < r.count; i++ {
		result[i] = r.buf[(start+i)%r.capacity]
	}
	return result
}

func (r *ringBuffer) len() int {
	return r.count
}
