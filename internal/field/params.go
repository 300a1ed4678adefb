package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/zetasim/internal/zeta"
)

// ErrParams indicates an evaluation parameter outside its valid range.
var ErrParams = errors.New("field: invalid parameter")

// ParamError reports which evaluation parameter failed validation.
type ParamError struct {
	Param  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("field: invalid parameter: %s=%g %s", e.Param, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error {
	return ErrParams
}

// Params configures a field evaluation. Zero values are not usable;
// start from DefaultParams.
type Params struct {
	// Alpha weighs the collapse penalty C = alpha*(sigma-0.5)^2.
	Alpha float64
	// Terms is the zeta truncation base, see zeta.New.
	Terms int
	// ZeroThreshold and LineTolerance gate near-zero candidates:
	// |zeta| < ZeroThreshold and |sigma-0.5| < LineTolerance.
	ZeroThreshold float64
	LineTolerance float64
	// PotentialCeiling saturates V = |zeta|^-2 instead of letting it
	// overflow near zeros.
	PotentialCeiling float64
	// PoleEpsilon tags cells within this distance of s=1 as singular.
	PoleEpsilon float64
}

// DefaultParams mirrors the historical simulator defaults: threshold 0.1
// and a ceiling equivalent to flooring |zeta| at 1e-15.
func DefaultParams() Params {
	return Params{
		Alpha:            1.0,
		Terms:            64,
		ZeroThreshold:    0.1,
		LineTolerance:    0.1,
		PotentialCeiling: 1e30,
		PoleEpsilon:      1e-6,
	}
}

// Validate checks every parameter, returning zeta.ErrPrecision for a bad
// term count and *ParamError (wrapping ErrParams) otherwise.
func (p Params) Validate() error {
	if p.Terms <= 0 {
		return fmt.Errorf("%w: got %d", zeta.ErrPrecision, p.Terms)
	}
	if math.IsNaN(p.Alpha) || p.Alpha < 0 {
		return &ParamError{Param: "alpha", Value: p.Alpha, Reason: "must be non-negative"}
	}
	if math.IsNaN(p.ZeroThreshold) || p.ZeroThreshold <= 0 {
		return &ParamError{Param: "zero_threshold", Value: p.ZeroThreshold, Reason: "must be positive"}
	}
	if math.IsNaN(p.LineTolerance) || p.LineTolerance <= 0 {
		return &ParamError{Param: "line_tolerance", Value: p.LineTolerance, Reason: "must be positive"}
	}
	if math.IsNaN(p.PotentialCeiling) || p.PotentialCeiling <= 0 {
		return &ParamError{Param: "potential_ceiling", Value: p.PotentialCeiling, Reason: "must be positive"}
	}
	if math.IsNaN(p.PoleEpsilon) || p.PoleEpsilon <= 0 {
		return &ParamError{Param: "pole_epsilon", Value: p.PoleEpsilon, Reason: "must be positive"}
	}
	return nil
}
