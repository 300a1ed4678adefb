package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/san-kum/zetasim/internal/field"
)

var (
	SimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "zetasim_simulations_total",
			Help: "Total number of field evaluations",
		},
		[]string{"backend"},
	)

	SimulationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zetasim_simulation_duration_seconds",
			Help:    "Time taken to evaluate a field",
			Buckets: prometheus.DefBuckets,
		},
	)

	GridPointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zetasim_grid_points_total",
			Help: "Total number of grid points evaluated",
		},
	)

	CandidatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zetasim_candidates_total",
			Help: "Total number of near-zero candidates found",
		},
	)

	SingularPointsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "zetasim_singular_points_total",
			Help: "Total number of singular points tagged",
		},
	)
)

// ObserveRun records one finished evaluation.
func ObserveRun(res *field.Result) {
	SimulationsTotal.WithLabelValues(res.Backend).Inc()
	SimulationDuration.Observe(res.Elapsed.Seconds())
	GridPointsTotal.Add(float64(res.Grid.NumPoints()))
	CandidatesTotal.Add(float64(len(res.Candidates)))
	SingularPointsTotal.Add(float64(res.Singular))
}
