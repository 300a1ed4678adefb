package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/zetasim/internal/field"
	"github.com/san-kum/zetasim/internal/grid"
)

func testResult(t *testing.T) *field.Result {
	t.Helper()
	g, err := grid.Build(grid.Rect{ReMin: 0.4, ReMax: 0.6, ImMin: 14, ImMax: 14.3, Step: 0.05})
	if err != nil {
		t.Fatalf("build grid failed: %v", err)
	}
	res, err := field.Evaluate(g, field.DefaultParams(), nil)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	return res
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res := testResult(t)
	runID, err := st.Save(res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "zeta_") {
		t.Errorf("expected zeta_ prefix, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Rows != res.Grid.Rows() || meta.Cols != res.Grid.Cols() {
		t.Errorf("expected shape %dx%d, got %dx%d",
			res.Grid.Rows(), res.Grid.Cols(), meta.Rows, meta.Cols)
	}
	if meta.Candidates != len(res.Candidates) {
		t.Errorf("expected %d candidates, got %d", len(res.Candidates), meta.Candidates)
	}
	if meta.Parameters.Step != 0.05 {
		t.Errorf("expected step 0.05, got %v", meta.Parameters.Step)
	}
}

func TestStoreLoadField(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res := testResult(t)
	runID, err := st.Save(res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := st.LoadField(runID)
	if err != nil {
		t.Fatalf("load field failed: %v", err)
	}

	if loaded.Grid.Rows() != res.Grid.Rows() || loaded.Grid.Cols() != res.Grid.Cols() {
		t.Fatalf("expected shape %dx%d, got %dx%d",
			res.Grid.Rows(), res.Grid.Cols(), loaded.Grid.Rows(), loaded.Grid.Cols())
	}

	// Values are written with full precision, so the round trip is exact.
	for r := range res.Cells {
		for c := range res.Cells[r] {
			if loaded.Cells[r][c] != res.Cells[r][c] {
				t.Fatalf("cell (%d,%d) = %+v, want %+v", r, c, loaded.Cells[r][c], res.Cells[r][c])
			}
		}
	}

	if len(loaded.Candidates) != len(res.Candidates) {
		t.Fatalf("expected %d candidates, got %d", len(res.Candidates), len(loaded.Candidates))
	}
	for i := range res.Candidates {
		if loaded.Candidates[i] != res.Candidates[i] {
			t.Errorf("candidate %d = %+v, want %+v", i, loaded.Candidates[i], res.Candidates[i])
		}
	}

	if loaded.Params != res.Params {
		t.Errorf("expected params %+v, got %+v", res.Params, loaded.Params)
	}
	if loaded.Singular != res.Singular {
		t.Errorf("expected %d singular, got %d", res.Singular, loaded.Singular)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	res := testResult(t)
	if _, err := st.Save(res); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save(res); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res := testResult(t)
	runID, err := st.Save(res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{"metadata.json", "field.csv", "candidates.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}
