package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"image/color"
	"image/png"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/san-kum/zetasim/internal/field"
	"github.com/san-kum/zetasim/internal/grid"
)

func evalRect(t *testing.T, r grid.Rect) *field.Result {
	t.Helper()
	g, err := grid.Build(r)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	res, err := field.Evaluate(g, field.DefaultParams(), nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	return res
}

func sampleResult(t *testing.T) *field.Result {
	return evalRect(t, grid.Rect{ReMin: 0.3, ReMax: 0.7, ImMin: 1, ImMax: 2, Step: 0.2})
}

// singularResult covers s = 1, which the evaluator tags instead of
// computing.
func singularResult(t *testing.T) *field.Result {
	return evalRect(t, grid.Rect{ReMin: 0.5, ReMax: 1.5, ImMin: -0.5, ImMax: 0.5, Step: 0.5})
}

// candidateResult brackets the first nontrivial zero at t ~ 14.1347.
func candidateResult(t *testing.T) *field.Result {
	return evalRect(t, grid.Rect{ReMin: 0.4, ReMax: 0.6, ImMin: 14, ImMax: 14.3, Step: 0.05})
}

func TestWriteCSV(t *testing.T) {
	res := sampleResult(t)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got, want := len(records), 1+res.Grid.NumPoints(); got != want {
		t.Fatalf("record count = %d, want %d", got, want)
	}
	for i, col := range CSVHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}

	// Row order is grid order: the first data record is the bottom-left
	// point, and values round-trip exactly.
	first := records[1]
	if got, _ := strconv.ParseFloat(first[0], 64); got != res.Grid.Sigmas[0] {
		t.Errorf("sigma = %v, want %v", got, res.Grid.Sigmas[0])
	}
	if got, _ := strconv.ParseFloat(first[1], 64); got != res.Grid.Ts[0] {
		t.Errorf("t = %v, want %v", got, res.Grid.Ts[0])
	}
	if got, _ := strconv.ParseFloat(first[2], 64); got != res.Cells[0][0].ZetaAbs {
		t.Errorf("zeta_abs = %v, want %v", got, res.Cells[0][0].ZetaAbs)
	}
	if got, _ := strconv.ParseFloat(first[5], 64); got != res.Cells[0][0].Total {
		t.Errorf("total = %v, want %v", got, res.Cells[0][0].Total)
	}
	if first[7] != "false" {
		t.Errorf("singular flag = %q, want %q", first[7], "false")
	}
}

func TestWriteCSV_Singular(t *testing.T) {
	res := singularResult(t)
	if res.Singular != 1 {
		t.Fatalf("singular count = %d, want 1", res.Singular)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, res); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	found := 0
	for _, rec := range records[1:] {
		if rec[7] != "true" {
			continue
		}
		found++
		for _, i := range []int{2, 3, 4, 5} {
			v, err := strconv.ParseFloat(rec[i], 64)
			if err != nil {
				t.Fatalf("ParseFloat(%q) error = %v", rec[i], err)
			}
			if !math.IsNaN(v) {
				t.Errorf("singular column %d = %v, want NaN", i, v)
			}
		}
	}
	if found != 1 {
		t.Errorf("singular rows = %d, want 1", found)
	}
}

func TestWriteCandidatesCSV(t *testing.T) {
	res := candidateResult(t)
	if len(res.Candidates) == 0 {
		t.Fatal("expected candidates near the first zero")
	}

	var buf bytes.Buffer
	if err := WriteCandidatesCSV(&buf, res.Candidates); err != nil {
		t.Fatalf("WriteCandidatesCSV() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got, want := len(records), 1+len(res.Candidates); got != want {
		t.Fatalf("record count = %d, want %d", got, want)
	}
	if got, _ := strconv.ParseFloat(records[1][1], 64); got != res.Candidates[0].T {
		t.Errorf("candidate t = %v, want %v", got, res.Candidates[0].T)
	}
}

func TestBuildExportData(t *testing.T) {
	res := sampleResult(t)
	data := BuildExportData(res)

	if data.Rows != res.Grid.Rows() || data.Cols != res.Grid.Cols() {
		t.Fatalf("shape = %dx%d, want %dx%d", data.Rows, data.Cols, res.Grid.Rows(), res.Grid.Cols())
	}
	if data.ZetaAbs[0][0] != res.Cells[0][0].ZetaAbs {
		t.Errorf("ZetaAbs[0][0] = %v, want %v", data.ZetaAbs[0][0], res.Cells[0][0].ZetaAbs)
	}
	if data.Candidates == nil {
		t.Error("Candidates = nil, want empty slice")
	}
	if data.Parameters.Alpha != res.Params.Alpha {
		t.Errorf("Parameters.Alpha = %v, want %v", data.Parameters.Alpha, res.Params.Alpha)
	}
}

func TestExportJSON_Singular(t *testing.T) {
	res := singularResult(t)
	data := BuildExportData(res)

	r, c := -1, -1
	for i, row := range res.Cells {
		for j, cell := range row {
			if cell.Singular {
				r, c = i, j
			}
		}
	}
	if r < 0 {
		t.Fatal("no singular cell found")
	}
	if !data.Singular[r][c] {
		t.Errorf("Singular[%d][%d] = false, want true", r, c)
	}
	if data.Potential[r][c] != 0 {
		t.Errorf("Potential at singular cell = %v, want 0", data.Potential[r][c])
	}

	// NaN would make Marshal fail; singular cells must be masked out.
	var buf bytes.Buffer
	if err := WriteJSON(&buf, res); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	for _, key := range []string{"parameters", "summary", "zeta_abs", "singular", "candidates"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("JSON missing key %q", key)
		}
	}
}

func TestColormapAt(t *testing.T) {
	tests := []struct {
		name string
		m    Colormap
		v    float64
		want color.RGBA
	}{
		{"viridis low", Viridis, 0, color.RGBA{68, 1, 84, 255}},
		{"viridis high", Viridis, 1, color.RGBA{253, 231, 37, 255}},
		{"viridis clamp low", Viridis, -2, color.RGBA{68, 1, 84, 255}},
		{"viridis clamp high", Viridis, 7, color.RGBA{253, 231, 37, 255}},
		{"viridis anchor", Viridis, 0.5, color.RGBA{33, 145, 140, 255}},
		{"viridis midpoint", Viridis, 0.125, color.RGBA{64, 42, 112, 255}},
		{"magma low", Magma, 0, color.RGBA{0, 0, 4, 255}},
		{"plasma high", Plasma, 1, color.RGBA{240, 249, 33, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.At(tt.v); got != tt.want {
				t.Errorf("At(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestForField(t *testing.T) {
	tests := []struct {
		kind     field.FieldKind
		wantName string
		wantLog  bool
	}{
		{field.FieldZetaAbs, "viridis", false},
		{field.FieldPotential, "plasma", true},
		{field.FieldCollapse, "inferno", false},
		{field.FieldTotal, "magma", true},
	}
	for _, tt := range tests {
		m, logScale := ForField(tt.kind)
		if m.Name != tt.wantName || logScale != tt.wantLog {
			t.Errorf("ForField(%v) = %q, %v, want %q, %v",
				tt.kind, m.Name, logScale, tt.wantName, tt.wantLog)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	res := candidateResult(t)
	img := Render(res)
	if img.Bounds().Dx() <= 0 || img.Bounds().Dy() <= 0 {
		t.Fatalf("Render() bounds = %v, want non-empty", img.Bounds())
	}

	var buf bytes.Buffer
	if err := WritePNG(&buf, res); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestRenderSVG(t *testing.T) {
	res := candidateResult(t)
	svg := RenderSVG(res)

	if !strings.HasPrefix(svg, "<svg ") {
		t.Fatalf("SVG does not start with <svg: %q", svg[:20])
	}
	if !strings.Contains(svg, "</svg>") {
		t.Error("SVG missing closing tag")
	}
	if got := strings.Count(svg, "<rect"); got < res.Grid.NumPoints() {
		t.Errorf("rect count = %d, want >= %d", got, res.Grid.NumPoints())
	}
	if !strings.Contains(svg, "<circle") {
		t.Error("SVG missing candidate circles")
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("SVG missing dashed critical line")
	}
}

func TestRenderSVG_Singular(t *testing.T) {
	res := singularResult(t)
	svg := RenderSVG(res)
	if !strings.Contains(svg, "#46464e") {
		t.Error("SVG missing singular cell shade")
	}
}
