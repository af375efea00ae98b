package echo

// Error is a sentinel error returned by the capture engine.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrEchoTimeout means no complete echo pulse arrived within the timeout.
	ErrEchoTimeout = Error("echo: no echo within timeout")
	// ErrCaptureBusy means the previous pulse is still high and re-arming
	// now would mix edges from two measurements.
	ErrCaptureBusy = Error("echo: previous capture still in flight")
)
