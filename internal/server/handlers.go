package server

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/san-kum/zetasim/internal/analysis"
	"github.com/san-kum/zetasim/internal/compute"
	"github.com/san-kum/zetasim/internal/config"
	"github.com/san-kum/zetasim/internal/export"
	"github.com/san-kum/zetasim/internal/field"
	"github.com/san-kum/zetasim/internal/grid"
	"github.com/san-kum/zetasim/internal/metrics"
)

//go:embed index.html
var indexHTML []byte

type simulateRequest struct {
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
	Preset           string  `json:"preset"`
	Save             bool    `json:"save"`
}

type simulateResponse struct {
	Parameters export.Parameters `json:"parameters"`
	Rows       int               `json:"rows"`
	Cols       int               `json:"cols"`
	Backend    string            `json:"backend"`
	ElapsedMS  int64             `json:"elapsed_ms"`
	Summary    analysis.Summary  `json:"summary"`
	Candidates []field.Candidate `json:"candidates"`
	CSVData    string            `json:"csv_data"`
	PlotImage  string            `json:"plot_image"`
	SavedID    string            `json:"saved_id,omitempty"`
}

func requestFromConfig(c *config.Config) simulateRequest {
	return simulateRequest{
		ReMin:            c.Domain.ReMin,
		ReMax:            c.Domain.ReMax,
		ImMin:            c.Domain.ImMin,
		ImMax:            c.Domain.ImMax,
		Step:             c.Domain.Step,
		Alpha:            c.Field.Alpha,
		Terms:            c.Field.Terms,
		ZeroThreshold:    c.Field.ZeroThreshold,
		LineTolerance:    c.Field.LineTolerance,
		PotentialCeiling: c.Field.PotentialCeiling,
		PoleEpsilon:      c.Field.PoleEpsilon,
		Backend:          c.Backend,
	}
}

func parametersFromConfig(c *config.Config) export.Parameters {
	return export.Parameters{
		ReMin:            c.Domain.ReMin,
		ReMax:            c.Domain.ReMax,
		ImMin:            c.Domain.ImMin,
		ImMax:            c.Domain.ImMax,
		Step:             c.Domain.Step,
		Alpha:            c.Field.Alpha,
		Terms:            c.Field.Terms,
		ZeroThreshold:    c.Field.ZeroThreshold,
		LineTolerance:    c.Field.LineTolerance,
		PotentialCeiling: c.Field.PotentialCeiling,
		PoleEpsilon:      c.Field.PoleEpsilon,
		Backend:          c.Backend,
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorw("failed to encode JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, statusCode int, msg string) {
	s.respondJSON(w, map[string]string{"error": msg}, statusCode)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// simulate evaluates a field for the posted parameters. Absent fields fall
// back to the server defaults, or to the named preset when one is given.
func (s *Server) simulate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "request body too large")
		return
	}

	req := requestFromConfig(s.cfg)
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
			return
		}
	}
	if req.Preset != "" {
		pc := config.GetPreset(req.Preset)
		if pc == nil {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown preset %q", req.Preset))
			return
		}
		// Re-apply the body on top of the preset so explicit fields win.
		base := requestFromConfig(pc)
		if len(body) > 0 {
			if err := json.Unmarshal(body, &base); err != nil {
				s.respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request: %v", err))
				return
			}
		}
		req = base
	}

	rect := grid.Rect{
		ReMin: req.ReMin,
		ReMax: req.ReMax,
		ImMin: req.ImMin,
		ImMax: req.ImMax,
		Step:  req.Step,
	}
	if err := rect.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, cols := rect.Counts()
	if rows*cols > s.maxPoints {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("grid of %d points exceeds the limit of %d; increase step or shrink the window", rows*cols, s.maxPoints))
		return
	}

	params := field.Params{
		Alpha:            req.Alpha,
		Terms:            req.Terms,
		ZeroThreshold:    req.ZeroThreshold,
		LineTolerance:    req.LineTolerance,
		PotentialCeiling: req.PotentialCeiling,
		PoleEpsilon:      req.PoleEpsilon,
	}
	if err := params.Validate(); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	be, err := compute.Select(req.Backend)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer be.Cleanup()

	g, err := grid.Build(rect)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	res, err := field.Evaluate(g, params, be)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.ObserveRun(res)

	var csvBuf bytes.Buffer
	if err := export.WriteCSV(&csvBuf, res); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var pngBuf bytes.Buffer
	if err := export.WritePNG(&pngBuf, res); err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	cands := res.Candidates
	if cands == nil {
		cands = []field.Candidate{}
	}
	resp := simulateResponse{
		Parameters: export.ParametersFrom(res),
		Rows:       rows,
		Cols:       cols,
		Backend:    res.Backend,
		ElapsedMS:  res.Elapsed.Milliseconds(),
		Summary:    analysis.Summarize(res),
		Candidates: cands,
		CSVData:    csvBuf.String(),
		PlotImage:  base64.StdEncoding.EncodeToString(pngBuf.Bytes()),
	}

	if req.Save && s.store != nil {
		id, err := s.store.Save(res)
		if err != nil {
			s.logger.Errorw("failed to save run", "error", err)
		} else {
			resp.SavedID = id
		}
	}

	s.respondJSON(w, resp, http.StatusOK)
}

type presetEntry struct {
	Name       string            `json:"name"`
	Parameters export.Parameters `json:"parameters"`
}

func (s *Server) getPresets(w http.ResponseWriter, r *http.Request) {
	entries := make([]presetEntry, 0)
	for _, name := range config.ListPresets() {
		c := config.GetPreset(name)
		if c == nil {
			continue
		}
		entries = append(entries, presetEntry{Name: name, Parameters: parametersFromConfig(c)})
	}
	s.respondJSON(w, entries, http.StatusOK)
}

func (s *Server) getRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusServiceUnavailable, "run storage not available")
		return
	}
	runs, err := s.store.List()
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, runs, http.StatusOK)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.respondError(w, http.StatusServiceUnavailable, "run storage not available")
		return
	}
	id := mux.Vars(r)["id"]
	meta, err := s.store.Load(id)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, fmt.Sprintf("run %q not found", id))
		} else {
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.respondJSON(w, meta, http.StatusOK)
}

func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}
