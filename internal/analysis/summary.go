package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/zetasim/internal/field"
)

// Summary aggregates one evaluated field for reports and API responses.
type Summary struct {
	Rows        int     `json:"rows"`
	Cols        int     `json:"cols"`
	Points      int     `json:"points"`
	Singular    int     `json:"singular"`
	Candidates  int     `json:"candidates"`
	MinZetaAbs  float64 `json:"min_zeta_abs"`
	MaxZetaAbs  float64 `json:"max_zeta_abs"`
	MeanZetaAbs float64 `json:"mean_zeta_abs"`
	MaxTotal    float64 `json:"max_total"`
	MeanTotal   float64 `json:"mean_total"`
}

// Summarize reduces the non-singular cells of res.
func Summarize(res *field.Result) Summary {
	s := Summary{
		Rows:       res.Grid.Rows(),
		Cols:       res.Grid.Cols(),
		Points:     res.Grid.NumPoints(),
		Singular:   res.Singular,
		Candidates: len(res.Candidates),
	}

	mags := make([]float64, 0, s.Points)
	totals := make([]float64, 0, s.Points)
	for _, row := range res.Cells {
		for _, cell := range row {
			if cell.Singular {
				continue
			}
			mags = append(mags, cell.ZetaAbs)
			totals = append(totals, cell.Total)
		}
	}

	if len(mags) > 0 {
		s.MinZetaAbs = floats.Min(mags)
		s.MaxZetaAbs = floats.Max(mags)
		s.MeanZetaAbs = floats.Sum(mags) / float64(len(mags))
		s.MaxTotal = floats.Max(totals)
		s.MeanTotal = floats.Sum(totals) / float64(len(totals))
	}
	return s
}
