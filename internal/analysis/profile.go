package analysis

import (
	"math"

	"github.com/san-kum/zetasim/internal/field"
)

// Profile is the |zeta| magnitude along one grid column, bottom to top.
// Singular rows plot as zero.
type Profile struct {
	Col   int
	Sigma float64
	Ts    []float64
	Mags  []float64
}

// CriticalLine extracts the profile of the column nearest sigma = 0.5.
// The zeros of zeta show up as dips toward zero.
func CriticalLine(res *field.Result) *Profile {
	col := 0
	best := math.Abs(res.Grid.Sigmas[0] - 0.5)
	for c, sigma := range res.Grid.Sigmas {
		if d := math.Abs(sigma - 0.5); d < best {
			best = d
			col = c
		}
	}

	p := &Profile{
		Col:   col,
		Sigma: res.Grid.Sigmas[col],
		Ts:    res.Grid.Ts,
		Mags:  make([]float64, res.Grid.Rows()),
	}
	for r, row := range res.Cells {
		if !row[col].Singular {
			p.Mags[r] = row[col].ZetaAbs
		}
	}
	return p
}

// Minima returns the heights t of interior local minima whose magnitude
// falls below threshold. On a fine grid these refine the raw candidate
// list down to one entry per zero.
func (p *Profile) Minima(threshold float64) []float64 {
	var ts []float64
	for i := 1; i < len(p.Mags)-1; i++ {
		m := p.Mags[i]
		if m < threshold && m < p.Mags[i-1] && m < p.Mags[i+1] {
			ts = append(ts, p.Ts[i])
		}
	}
	return ts
}
