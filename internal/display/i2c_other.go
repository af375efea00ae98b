//go:build !linux

package display

// OpenI2C is not supported off Linux.
func OpenI2C(dev string) (Bus, error) {
	return nil, errUnsupported
}
