package display

import (
	"errors"
	"sync"
)

// FakeBus records every transaction for testing.
type FakeBus struct {
	mu     sync.Mutex
	Writes [][]byte
	Addrs  []uint16
	// TxError, if set, is returned by every Tx call.
	TxError error
	// FailCall, if non-zero, makes the Nth Tx call (1-based) fail once.
	FailCall int
	calls    int
}

// Tx records a copy of w.
func (b *FakeBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.TxError != nil {
		return b.TxError
	}
	b.calls++
	if b.calls == b.FailCall {
		return errors.New("fake bus: nack")
	}
	cp := make([]byte, len(w))
	copy(cp, w)
	b.Writes = append(b.Writes, cp)
	b.Addrs = append(b.Addrs, addr)
	return nil
}

// Close is a no-op.
func (b *FakeBus) Close() error { return nil }

// Data returns the concatenated payload of all data writes.
func (b *FakeBus) Data() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []byte
	for _, w := range b.Writes {
		if len(w) > 0 && w[0] == controlData {
			out = append(out, w[1:]...)
		}
	}
	return out
}

// Reset drops all recorded transactions.
func (b *FakeBus) Reset() {
	b.mu.Lock()
	b.Writes = nil
	b.Addrs = nil
	b.mu.Unlock()
}
