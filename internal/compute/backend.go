package compute

import (
	"errors"
	"fmt"
)

// ErrUnknownBackend indicates an unrecognized backend selector.
var ErrUnknownBackend = errors.New("compute: unknown backend")

// Backend partitions an index range across execution units. Backends are
// passed explicitly to the code that needs them; there is no process-wide
// active backend, so concurrent evaluations with different backends cannot
// interfere.
type Backend interface {
	Name() string
	Available() bool
	// For runs fn over [0, n) split into contiguous chunks. Every index is
	// covered by exactly one invocation, and For returns only after all
	// chunks complete.
	For(n int, fn func(start, end int))
	Cleanup()
}

// Select resolves a backend selector: "serial", "cpu" (alias "parallel"),
// or "auto" (the empty string counts as auto).
func Select(name string) (Backend, error) {
	switch name {
	case "serial":
		return NewSerial(), nil
	case "cpu", "parallel":
		return NewCPU(), nil
	case "auto", "":
		return Auto(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Auto picks the best available backend.
func Auto() Backend {
	cpu := NewCPU()
	if cpu.Available() {
		return cpu
	}
	return NewSerial()
}
