package field

import (
	"math"
	"math/cmplx"
	"time"

	"github.com/san-kum/zetasim/internal/compute"
	"github.com/san-kum/zetasim/internal/grid"
	"github.com/san-kum/zetasim/internal/zeta"
)

// FieldKind identifies one of the derived scalar fields.
type FieldKind int

const (
	FieldZetaAbs FieldKind = iota
	FieldPotential
	FieldCollapse
	FieldTotal
)

var fieldNames = [...]string{"zeta_abs", "potential", "collapse", "total"}

func (k FieldKind) String() string {
	if k < 0 || int(k) >= len(fieldNames) {
		return "unknown"
	}
	return fieldNames[k]
}

// Kinds lists the four fields in display order.
func Kinds() []FieldKind {
	return []FieldKind{FieldZetaAbs, FieldPotential, FieldCollapse, FieldTotal}
}

// Cell is one evaluated sample. Singular cells sit within PoleEpsilon of
// s=1 (or overflowed past float range) and carry no meaningful numerics.
type Cell struct {
	ZetaAbs   float64
	Potential float64
	Collapse  float64
	Total     float64
	NearZero  bool
	Singular  bool
}

// Value returns the requested field component.
func (c Cell) Value(k FieldKind) float64 {
	switch k {
	case FieldZetaAbs:
		return c.ZetaAbs
	case FieldPotential:
		return c.Potential
	case FieldCollapse:
		return c.Collapse
	default:
		return c.Total
	}
}

// Candidate is a near-zero sample on (or near) the critical line.
type Candidate struct {
	Sigma   float64 `json:"sigma"`
	T       float64 `json:"t"`
	ZetaAbs float64 `json:"zeta_abs"`
}

// Result is the evaluated field. Cells has exactly the grid's shape;
// Candidates is ordered by ascending T, ties by ascending Sigma. Results
// are immutable after Evaluate.
type Result struct {
	Grid       *grid.Grid
	Cells      [][]Cell
	Candidates []Candidate
	Params     Params
	Backend    string
	Singular   int
	Elapsed    time.Duration
}

// Evaluate computes the zeta potential field over g. Each point is
// independent, so the backend only decides scheduling, never values; a
// nil backend runs serially. Configuration errors abort before any
// computation. Per-point edge cases (the s=1 pole, V overflow) are
// recovered locally by tagging or clipping and never abort the run.
func Evaluate(g *grid.Grid, p Params, be compute.Backend) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	ev, err := zeta.New(p.Terms)
	if err != nil {
		return nil, err
	}
	if be == nil {
		be = compute.NewSerial()
	}

	rows, cols := g.Rows(), g.Cols()
	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
	}

	start := time.Now()
	be.For(rows*cols, func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			r, c := idx/cols, idx%cols
			cells[r][c] = evalPoint(ev, g.At(r, c), p)
		}
	})
	elapsed := time.Since(start)

	// Candidates are collected in a serial sweep over the finished cells,
	// so their order depends only on the grid, not on chunk scheduling.
	var cands []Candidate
	singular := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			cell := cells[r][c]
			if cell.Singular {
				singular++
				continue
			}
			if cell.NearZero {
				cands = append(cands, Candidate{
					Sigma:   g.Sigmas[c],
					T:       g.Ts[r],
					ZetaAbs: cell.ZetaAbs,
				})
			}
		}
	}

	return &Result{
		Grid:       g,
		Cells:      cells,
		Candidates: cands,
		Params:     p,
		Backend:    be.Name(),
		Singular:   singular,
		Elapsed:    elapsed,
	}, nil
}

func evalPoint(ev *zeta.Evaluator, s complex128, p Params) Cell {
	if cmplx.Abs(s-1) < p.PoleEpsilon {
		return Cell{Singular: true}
	}

	zAbs := cmplx.Abs(ev.Eval(s))
	if math.IsNaN(zAbs) || math.IsInf(zAbs, 0) {
		return Cell{Singular: true}
	}

	v := 1 / (zAbs * zAbs)
	if math.IsInf(v, 0) || v > p.PotentialCeiling {
		v = p.PotentialCeiling
	}

	sigma := real(s)
	dev := sigma - 0.5
	c := p.Alpha * dev * dev

	return Cell{
		ZetaAbs:   zAbs,
		Potential: v,
		Collapse:  c,
		Total:     v + c,
		NearZero:  zAbs < p.ZeroThreshold && math.Abs(dev) < p.LineTolerance,
	}
}
