package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/san-kum/zetasim/internal/field"
	"github.com/san-kum/zetasim/internal/grid"
)

func TestMetricsRegistration(t *testing.T) {
	assert.NotNil(t, SimulationsTotal)
	assert.NotNil(t, SimulationDuration)
	assert.NotNil(t, GridPointsTotal)
	assert.NotNil(t, CandidatesTotal)
	assert.NotNil(t, SingularPointsTotal)
}

func TestObserveRun(t *testing.T) {
	g, err := grid.Build(grid.Rect{ReMin: 0.4, ReMax: 0.6, ImMin: 0, ImMax: 1, Step: 0.1})
	assert.NoError(t, err)
	res, err := field.Evaluate(g, field.DefaultParams(), nil)
	assert.NoError(t, err)
	res.Elapsed = 10 * time.Millisecond

	// Counters are process global, so measure the delta.
	simsBefore := testutil.ToFloat64(SimulationsTotal.WithLabelValues(res.Backend))
	pointsBefore := testutil.ToFloat64(GridPointsTotal)
	candsBefore := testutil.ToFloat64(CandidatesTotal)

	ObserveRun(res)

	assert.Equal(t, simsBefore+1, testutil.ToFloat64(SimulationsTotal.WithLabelValues(res.Backend)))
	assert.Equal(t, pointsBefore+float64(g.NumPoints()), testutil.ToFloat64(GridPointsTotal))
	assert.Equal(t, candsBefore+float64(len(res.Candidates)), testutil.ToFloat64(CandidatesTotal))
}
