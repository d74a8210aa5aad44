// Package device defines a unified interface for line-based serial devices
// such as the Arduino motor controller. It abstracts reading and writing
// newline-delimited data with optional timeouts.
package device

import "time"

// Device defines an abstract interface for serial-attached hardware.
// Implementations provide ReadLine/WriteLine operations with optional timeout.
type Device interface {
	// ReadLine reads a single line terminated by '\n'.
	// If timeout > 0, it must return after timeout even if no data available.
	ReadLine(timeout time.Duration) (string, error)

	// WriteLine writes s followed by '\n' to the device.
	WriteLine(s string) error

	// Close closes the device and releases underlying resources.
	Close() error
}
