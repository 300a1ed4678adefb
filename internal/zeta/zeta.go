package zeta

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrPrecision indicates a non-positive truncation term count.
var ErrPrecision = errors.New("zeta: precision terms must be positive")

// B_2 .. B_16 as exact fractions. emCoef holds B_2k/(2k)!, filled at init.
var (
	bernoulliNum = [...]float64{1, -1, 1, -1, 5, -691, 7, -3617}
	bernoulliDen = [...]float64{6, 30, 42, 30, 66, 2730, 6, 510}
	emCoef       [len(bernoulliNum)]float64
)

func init() {
	fact := 1.0
	for k := range bernoulliNum {
		fact *= float64(2*k+1) * float64(2*k+2)
		emCoef[k] = bernoulliNum[k] / bernoulliDen[k] / fact
	}
}

// Evaluator computes ζ(s) by Euler–Maclaurin summation with a configurable
// base truncation length. Evaluators are immutable and safe for concurrent
// use.
type Evaluator struct {
	terms int
}

// New returns an Evaluator truncating the direct sum after terms + |Im s|/2
// entries. Returns ErrPrecision if terms is not positive.
func New(terms int) (*Evaluator, error) {
	if terms <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrPrecision, terms)
	}
	return &Evaluator{terms: terms}, nil
}

// Terms reports the configured base truncation length.
func (e *Evaluator) Terms() int { return e.terms }

// Eval computes ζ(s) as
//
//	sum_{k=1}^{N-1} k^-s + N^(1-s)/(s-1) + N^-s/2 + tail
//
// where the tail is eight Bernoulli correction pairs and N = terms +
// ceil(|Im s|/2). N stays above |Im s|/(2π), so the correction series
// converges across the critical strip. s must not equal 1; callers guard
// the pole.
func (e *Evaluator) Eval(s complex128) complex128 {
	n := e.terms + int(math.Ceil(math.Abs(imag(s))/2))
	nc := complex(float64(n), 0)

	sum := complex(0, 0)
	for k := 1; k < n; k++ {
		sum += cmplx.Pow(complex(float64(k), 0), -s)
	}
	sum += cmplx.Pow(nc, 1-s) / (s - 1)
	sum += 0.5 * cmplx.Pow(nc, -s)

	rising := s
	power := cmplx.Pow(nc, -s-1)
	invN2 := 1 / (nc * nc)
	for k := range emCoef {
		sum += complex(emCoef[k], 0) * rising * power
		rising *= (s + complex(float64(2*k+1), 0)) * (s + complex(float64(2*k+2), 0))
		power *= invN2
	}
	return sum
}

// Abs computes |ζ(s)|.
func (e *Evaluator) Abs(s complex128) float64 {
	return cmplx.Abs(e.Eval(s))
}
