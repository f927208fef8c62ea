package serialmux

import (
	"fmt"

	"go.bug.st/serial"
)

// NewRealConsole creates a Console backed by a real serial port at the given
// path using the provided serial options.
func NewRealConsole(path string, opts PortOptions) (*Console[serial.Port], error) {
	mode, err := opts.SerialMode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", path, err)
	}

	return NewConsole[serial.Port](port), nil
}
