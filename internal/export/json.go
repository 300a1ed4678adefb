package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/zetasim/internal/analysis"
	"github.com/san-kum/zetasim/internal/field"
)

// Parameters is the flattened run configuration attached to exports and
// API responses.
type Parameters struct {
	ReMin            float64 `json:"re_min"`
	ReMax            float64 `json:"re_max"`
	ImMin            float64 `json:"im_min"`
	ImMax            float64 `json:"im_max"`
	Step             float64 `json:"step"`
	Alpha            float64 `json:"alpha"`
	Terms            int     `json:"terms"`
	ZeroThreshold    float64 `json:"zero_threshold"`
	LineTolerance    float64 `json:"line_tolerance"`
	PotentialCeiling float64 `json:"potential_ceiling"`
	PoleEpsilon      float64 `json:"pole_epsilon"`
	Backend          string  `json:"backend"`
}

// ParametersFrom collects the parameters a result was produced with.
func ParametersFrom(res *field.Result) Parameters {
	r := res.Grid.Rect
	p := res.Params
	return Parameters{
		ReMin:            r.ReMin,
		ReMax:            r.ReMax,
		ImMin:            r.ImMin,
		ImMax:            r.ImMax,
		Step:             r.Step,
		Alpha:            p.Alpha,
		Terms:            p.Terms,
		ZeroThreshold:    p.ZeroThreshold,
		LineTolerance:    p.LineTolerance,
		PotentialCeiling: p.PotentialCeiling,
		PoleEpsilon:      p.PoleEpsilon,
		Backend:          res.Backend,
	}
}

// ExportData is the JSON document for one evaluated field. Singular cells
// hold zero in the value matrices (JSON has no NaN) and true in the
// singular mask.
type ExportData struct {
	Parameters Parameters        `json:"parameters"`
	Rows       int               `json:"rows"`
	Cols       int               `json:"cols"`
	ElapsedMS  int64             `json:"elapsed_ms"`
	Summary    analysis.Summary  `json:"summary"`
	Sigmas     []float64         `json:"sigmas"`
	Ts         []float64         `json:"ts"`
	ZetaAbs    [][]float64       `json:"zeta_abs"`
	Potential  [][]float64       `json:"potential"`
	Collapse   [][]float64       `json:"collapse"`
	Total      [][]float64       `json:"total"`
	Singular   [][]bool          `json:"singular"`
	Candidates []field.Candidate `json:"candidates"`
}

// BuildExportData flattens a result into its JSON form.
func BuildExportData(res *field.Result) *ExportData {
	rows, cols := res.Grid.Rows(), res.Grid.Cols()
	data := &ExportData{
		Parameters: ParametersFrom(res),
		Rows:       rows,
		Cols:       cols,
		ElapsedMS:  res.Elapsed.Milliseconds(),
		Summary:    analysis.Summarize(res),
		Sigmas:     res.Grid.Sigmas,
		Ts:         res.Grid.Ts,
		ZetaAbs:    make([][]float64, rows),
		Potential:  make([][]float64, rows),
		Collapse:   make([][]float64, rows),
		Total:      make([][]float64, rows),
		Singular:   make([][]bool, rows),
		Candidates: res.Candidates,
	}
	if data.Candidates == nil {
		data.Candidates = []field.Candidate{}
	}

	for r, row := range res.Cells {
		za := make([]float64, cols)
		po := make([]float64, cols)
		co := make([]float64, cols)
		to := make([]float64, cols)
		sg := make([]bool, cols)
		for c, cell := range row {
			if cell.Singular {
				sg[c] = true
				continue
			}
			za[c] = cell.ZetaAbs
			po[c] = cell.Potential
			co[c] = cell.Collapse
			to[c] = cell.Total
		}
		data.ZetaAbs[r] = za
		data.Potential[r] = po
		data.Collapse[r] = co
		data.Total[r] = to
		data.Singular[r] = sg
	}
	return data
}

// WriteJSON writes the indented JSON document.
func WriteJSON(w io.Writer, res *field.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildExportData(res))
}

// ExportJSON writes the JSON document to a file.
func ExportJSON(path string, res *field.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, res)
}
