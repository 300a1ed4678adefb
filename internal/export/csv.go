package export

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/san-kum/zetasim/internal/field"
)

// CSVHeader is the column layout of field exports. The first six columns
// match the historical simulator output; the flags were added for the
// singular-point and candidate tagging.
var CSVHeader = []string{
	"sigma", "t", "zeta_abs", "potential_V", "collapse_C", "total_potential",
	"near_zero", "singular",
}

// WriteCSV writes one row per sample point in grid order (rows bottom to
// top, columns left to right). Singular rows carry NaN numerics and
// singular=true; consumers must key on the flag.
func WriteCSV(w io.Writer, res *field.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}

	nan := formatFloat(math.NaN())
	record := make([]string, len(CSVHeader))
	for r, row := range res.Cells {
		for c, cell := range row {
			record[0] = formatFloat(res.Grid.Sigmas[c])
			record[1] = formatFloat(res.Grid.Ts[r])
			if cell.Singular {
				record[2], record[3], record[4], record[5] = nan, nan, nan, nan
			} else {
				record[2] = formatFloat(cell.ZetaAbs)
				record[3] = formatFloat(cell.Potential)
				record[4] = formatFloat(cell.Collapse)
				record[5] = formatFloat(cell.Total)
			}
			record[6] = strconv.FormatBool(cell.NearZero)
			record[7] = strconv.FormatBool(cell.Singular)
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the field to a file.
func SaveCSV(path string, res *field.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCSV(f, res)
}

// CandidatesCSVHeader is the column layout of candidate exports.
var CandidatesCSVHeader = []string{"sigma", "t", "zeta_abs"}

// WriteCandidatesCSV writes the near-zero list, already ordered by
// ascending t.
func WriteCandidatesCSV(w io.Writer, cands []field.Candidate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CandidatesCSVHeader); err != nil {
		return err
	}
	for _, cand := range cands {
		rec := []string{
			formatFloat(cand.Sigma),
			formatFloat(cand.T),
			formatFloat(cand.ZetaAbs),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCandidatesCSV writes the candidate list to a file.
func SaveCandidatesCSV(path string, cands []field.Candidate) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteCandidatesCSV(f, cands)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
