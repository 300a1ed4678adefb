// Package grid discretizes rectangular regions of the complex plane into
// ordered sample grids for field evaluation.
package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// axisEps absorbs float division noise in the point-count formula, so a
// range of 0.2 at step 0.1 yields 3 samples rather than 2.
const axisEps = 1e-9

// maxAxisPoints bounds the per-axis sample count, checked while the count
// is still a float. Larger counts would overflow the int conversion in
// axisLen, and with both axes under the bound rows*cols fits in an int.
const maxAxisPoints = 1 << 31

// Rect is a rectangular domain re_min+i*im_min .. re_max+i*im_max sampled
// at a fixed step along both axes.
type Rect struct {
	ReMin float64
	ReMax float64
	ImMin float64
	ImMax float64
	Step  float64
}

// Validate checks the rectangle bounds and step. It returns a *DomainError
// wrapping ErrInvalidDomain naming the offending parameter, or nil.
func (r Rect) Validate() error {
	if math.IsNaN(r.Step) || r.Step <= 0 {
		return &DomainError{Param: "step", Value: r.Step, Reason: "must be positive"}
	}
	if !(r.ReMin < r.ReMax) {
		return &DomainError{Param: "re_min", Value: r.ReMin, Reason: "must be less than re_max"}
	}
	if !(r.ImMin < r.ImMax) {
		return &DomainError{Param: "im_min", Value: r.ImMin, Reason: "must be less than im_max"}
	}
	if (r.ReMax-r.ReMin)/r.Step+axisEps < 1 {
		return &DomainError{Param: "step", Value: r.Step, Reason: "exceeds real axis extent"}
	}
	if (r.ImMax-r.ImMin)/r.Step+axisEps < 1 {
		return &DomainError{Param: "step", Value: r.Step, Reason: "exceeds imaginary axis extent"}
	}
	if (r.ReMax-r.ReMin)/r.Step+axisEps >= maxAxisPoints {
		return &DomainError{Param: "step", Value: r.Step, Reason: "too many real axis points"}
	}
	if (r.ImMax-r.ImMin)/r.Step+axisEps >= maxAxisPoints {
		return &DomainError{Param: "step", Value: r.Step, Reason: "too many imaginary axis points"}
	}
	return nil
}

// Grid is the ordered set of sample points covering a Rect. Rows follow the
// imaginary axis, columns the real axis, both ascending. Points[row][col]
// equals complex(Sigmas[col], Ts[row]). Grids are immutable after Build.
type Grid struct {
	Rect   Rect
	Sigmas []float64
	Ts     []float64
	Points [][]complex128
}

// Build constructs the sample grid for r. The axis lengths are
// floor((max-min)/step)+1; same inputs always produce the same shape and
// the same point values.
func Build(r Rect) (*Grid, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	sigmas := axis(r.ReMin, r.Step, axisLen(r.ReMin, r.ReMax, r.Step))
	ts := axis(r.ImMin, r.Step, axisLen(r.ImMin, r.ImMax, r.Step))

	points := make([][]complex128, len(ts))
	for i, t := range ts {
		row := make([]complex128, len(sigmas))
		for j, sigma := range sigmas {
			row[j] = complex(sigma, t)
		}
		points[i] = row
	}

	return &Grid{Rect: r, Sigmas: sigmas, Ts: ts, Points: points}, nil
}

// Counts reports the grid shape r would build, without allocating it.
// The counts are only meaningful when Validate passes.
func (r Rect) Counts() (rows, cols int) {
	return axisLen(r.ImMin, r.ImMax, r.Step), axisLen(r.ReMin, r.ReMax, r.Step)
}

func (g *Grid) Rows() int { return len(g.Ts) }

func (g *Grid) Cols() int { return len(g.Sigmas) }

// NumPoints is the total sample count, Rows*Cols.
func (g *Grid) NumPoints() int { return len(g.Ts) * len(g.Sigmas) }

// At returns the sample point at the given row and column.
func (g *Grid) At(row, col int) complex128 { return g.Points[row][col] }

func axisLen(min, max, step float64) int {
	return int(math.Floor((max-min)/step+axisEps)) + 1
}

func axis(min, step float64, n int) []float64 {
	vals := make([]float64, n)
	if n == 1 {
		vals[0] = min
		return vals
	}
	floats.Span(vals, min, min+step*float64(n-1))
	return vals
}
