//go:build !linux

package echo

import "time"

var processStart = time.Now()

// monotonicNow returns time since process start from the Go monotonic clock.
func monotonicNow() time.Duration {
	return time.Since(processStart)
}
