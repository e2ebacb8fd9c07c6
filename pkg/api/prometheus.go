package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusObserver exports run metrics through a Prometheus registerer.
type PrometheusObserver struct {
	NoopObserver

	runs       *prometheus.CounterVec
	visits     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	pathLength *prometheus.HistogramVec
}

// NewPrometheusObserver registers the gridpath collectors on reg. Passing nil
// uses prometheus.DefaultRegisterer. Registering twice on the same
// registerer panics, as with promauto.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusObserver{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridpath_runs_total",
			Help: "Finished runs by algorithm and outcome",
		}, []string{"algorithm", "outcome"}),
		visits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gridpath_visits_total",
			Help: "Instrumentation events emitted by algorithms",
		}, []string{"algorithm"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gridpath_run_duration_seconds",
			Help:    "Run duration in seconds, pacing included",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~260s
		}, []string{"algorithm"}),
		pathLength: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gridpath_path_steps",
			Help:    "Number of steps on found paths",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500},
		}, []string{"algorithm"}),
	}
}

func (p *PrometheusObserver) OnVisit(ctx context.Context, run *RunRecord, pos Position, count int) {
	p.visits.WithLabelValues(run.Algorithm).Inc()
}

func (p *PrometheusObserver) OnRunCompleted(ctx context.Context, run *RunRecord) {
	p.finish(run)
	if run.Outcome == OutcomePath {
		p.pathLength.WithLabelValues(run.Algorithm).Observe(float64(run.Steps()))
	}
}

func (p *PrometheusObserver) OnRunCancelled(ctx context.Context, run *RunRecord) {
	p.finish(run)
}

func (p *PrometheusObserver) OnRunFailed(ctx context.Context, run *RunRecord, err error) {
	p.finish(run)
}

func (p *PrometheusObserver) finish(run *RunRecord) {
	p.runs.WithLabelValues(run.Algorithm, string(run.Outcome)).Inc()
	p.duration.WithLabelValues(run.Algorithm).Observe(run.Duration().Seconds())
}
