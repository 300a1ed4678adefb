package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/zetasim/internal/export"
	"github.com/san-kum/zetasim/internal/field"
	"github.com/san-kum/zetasim/internal/grid"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Parameters export.Parameters `json:"parameters"`
	Rows       int               `json:"rows"`
	Cols       int               `json:"cols"`
	Candidates int               `json:"candidates"`
	Singular   int               `json:"singular"`
	ElapsedMS  int64             `json:"elapsed_ms"`
}

// Save writes one evaluated field as a run directory holding
// metadata.json, field.csv and candidates.csv, and returns the run ID.
func (s *Store) Save(res *field.Result) (string, error) {
	runID := fmt.Sprintf("zeta_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		Parameters: export.ParametersFrom(res),
		Rows:       res.Grid.Rows(),
		Cols:       res.Grid.Cols(),
		Candidates: len(res.Candidates),
		Singular:   res.Singular,
		ElapsedMS:  res.Elapsed.Milliseconds(),
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := export.SaveCSV(filepath.Join(runDir, "field.csv"), res); err != nil {
		return "", err
	}
	if err := export.SaveCandidatesCSV(filepath.Join(runDir, "candidates.csv"), res.Candidates); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadField rebuilds a full result from a saved run. The grid comes from
// the stored parameters, the cells from field.csv and the candidate list
// from candidates.csv.
func (s *Store) LoadField(runID string) (*field.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	p := meta.Parameters

	g, err := grid.Build(grid.Rect{
		ReMin: p.ReMin,
		ReMax: p.ReMax,
		ImMin: p.ImMin,
		ImMax: p.ImMax,
		Step:  p.Step,
	})
	if err != nil {
		return nil, err
	}

	cells, singular, err := s.loadCells(runID, g.Rows(), g.Cols())
	if err != nil {
		return nil, err
	}
	cands, err := s.loadCandidates(runID)
	if err != nil {
		return nil, err
	}

	return &field.Result{
		Grid:       g,
		Cells:      cells,
		Candidates: cands,
		Params: field.Params{
			Alpha:            p.Alpha,
			Terms:            p.Terms,
			ZeroThreshold:    p.ZeroThreshold,
			LineTolerance:    p.LineTolerance,
			PotentialCeiling: p.PotentialCeiling,
			PoleEpsilon:      p.PoleEpsilon,
		},
		Backend:  p.Backend,
		Singular: singular,
		Elapsed:  time.Duration(meta.ElapsedMS) * time.Millisecond,
	}, nil
}

func (s *Store) loadCells(runID string, rows, cols int) ([][]field.Cell, int, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "field.csv"))
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, 0, err
	}
	if got, want := len(records), 1+rows*cols; got != want {
		return nil, 0, fmt.Errorf("storage: field.csv has %d records, want %d", got, want)
	}

	cells := make([][]field.Cell, rows)
	for r := range cells {
		cells[r] = make([]field.Cell, cols)
	}

	singular := 0
	for i, rec := range records[1:] {
		r, c := i/cols, i%cols
		cell := &cells[r][c]

		cell.NearZero, _ = strconv.ParseBool(rec[6])
		cell.Singular, _ = strconv.ParseBool(rec[7])
		if cell.Singular {
			// Numeric columns hold NaN; the in-memory form keeps zeros.
			singular++
			continue
		}

		if cell.ZetaAbs, err = strconv.ParseFloat(rec[2], 64); err != nil {
			return nil, 0, fmt.Errorf("storage: field.csv record %d: %w", i+1, err)
		}
		if cell.Potential, err = strconv.ParseFloat(rec[3], 64); err != nil {
			return nil, 0, fmt.Errorf("storage: field.csv record %d: %w", i+1, err)
		}
		if cell.Collapse, err = strconv.ParseFloat(rec[4], 64); err != nil {
			return nil, 0, fmt.Errorf("storage: field.csv record %d: %w", i+1, err)
		}
		if cell.Total, err = strconv.ParseFloat(rec[5], 64); err != nil {
			return nil, 0, fmt.Errorf("storage: field.csv record %d: %w", i+1, err)
		}
	}

	return cells, singular, nil
}

func (s *Store) loadCandidates(runID string) ([]field.Candidate, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "candidates.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []field.Candidate{}, nil
	}

	cands := make([]field.Candidate, 0, len(records)-1)
	for _, rec := range records[1:] {
		var cand field.Candidate
		if cand.Sigma, err = strconv.ParseFloat(rec[0], 64); err != nil {
			continue
		}
		if cand.T, err = strconv.ParseFloat(rec[1], 64); err != nil {
			continue
		}
		if cand.ZetaAbs, err = strconv.ParseFloat(rec[2], 64); err != nil {
			continue
		}
		cands = append(cands, cand)
	}

	return cands, nil
}
