package grid

import (
	"errors"
	"fmt"
)

// Domain errors for grid construction.
var (
	// ErrInvalidDomain indicates a malformed rectangle or step.
	ErrInvalidDomain = errors.New("grid: invalid domain")
)

// DomainError reports which rectangle parameter failed validation.
type DomainError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("grid: invalid domain: %s=%g %s", e.Param, e.Value, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return ErrInvalidDomain
}
