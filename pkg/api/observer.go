package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the controller as a run progresses.
//
// All callbacks for one run are made from the goroutine executing that run,
// in order. OnVisit is called inside the algorithm's inner loop, so
// implementations should be fast; the controller's pacing delay already
// throttles it.
type Observer interface {
	// OnRunStart is called once before the algorithm is invoked.
	OnRunStart(ctx context.Context, run *RunRecord)

	// OnVisit is called for every instrumentation event. count is the
	// number of times pos has been reported so far in this run (1 on the
	// first visit).
	OnVisit(ctx context.Context, run *RunRecord, pos Position, count int)

	// OnRunCompleted is called when the algorithm returned normally, with or
	// without a path (run.Outcome is OutcomePath or OutcomeNoPath).
	OnRunCompleted(ctx context.Context, run *RunRecord)

	// OnRunCancelled is called when the run stopped on request.
	OnRunCancelled(ctx context.Context, run *RunRecord)

	// OnRunFailed is called when the algorithm faulted.
	OnRunFailed(ctx context.Context, run *RunRecord, err error)

	// OnPathStep discloses the winning path one position at a time during
	// replay. index is 0 for the start.
	OnPathStep(ctx context.Context, run *RunRecord, pos Position, index int)

	// OnUnreachable is called once during replay when no path was found.
	OnUnreachable(ctx context.Context, run *RunRecord)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnRunStart(ctx context.Context, run *RunRecord)                          {}
func (NoopObserver) OnVisit(ctx context.Context, run *RunRecord, pos Position, count int)    {}
func (NoopObserver) OnRunCompleted(ctx context.Context, run *RunRecord)                      {}
func (NoopObserver) OnRunCancelled(ctx context.Context, run *RunRecord)                      {}
func (NoopObserver) OnRunFailed(ctx context.Context, run *RunRecord, err error)              {}
func (NoopObserver) OnPathStep(ctx context.Context, run *RunRecord, pos Position, index int) {}
func (NoopObserver) OnUnreachable(ctx context.Context, run *RunRecord)                       {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnRunStart(ctx context.Context, run *RunRecord) {
	for _, o := range c.observers {
		o.OnRunStart(ctx, run)
	}
}

func (c *CompositeObserver) OnVisit(ctx context.Context, run *RunRecord, pos Position, count int) {
	for _, o := range c.observers {
		o.OnVisit(ctx, run, pos, count)
	}
}

func (c *CompositeObserver) OnRunCompleted(ctx context.Context, run *RunRecord) {
	for _, o := range c.observers {
		o.OnRunCompleted(ctx, run)
	}
}

func (c *CompositeObserver) OnRunCancelled(ctx context.Context, run *RunRecord) {
	for _, o := range c.observers {
		o.OnRunCancelled(ctx, run)
	}
}

func (c *CompositeObserver) OnRunFailed(ctx context.Context, run *RunRecord, err error) {
	for _, o := range c.observers {
		o.OnRunFailed(ctx, run, err)
	}
}

func (c *CompositeObserver) OnPathStep(ctx context.Context, run *RunRecord, pos Position, index int) {
	for _, o := range c.observers {
		o.OnPathStep(ctx, run, pos, index)
	}
}

func (c *CompositeObserver) OnUnreachable(ctx context.Context, run *RunRecord) {
	for _, o := range c.observers {
		o.OnUnreachable(ctx, run)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs run lifecycle events
// using the provided slog.Logger. If logger is nil, slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnRunStart(ctx context.Context, run *RunRecord) {
	o.Logger.InfoContext(ctx, "run_start",
		slog.String("run_id", run.ID),
		slog.String("algorithm", run.Algorithm),
		slog.Int("rows", run.Rows),
		slog.Int("columns", run.Columns),
		slog.String("start", run.Start.Key()),
		slog.String("end", run.End.Key()),
	)
}

func (o *LoggingObserver) OnVisit(ctx context.Context, run *RunRecord, pos Position, count int) {
	o.Logger.DebugContext(ctx, "visit",
		slog.String("run_id", run.ID),
		slog.Int("x", pos.X),
		slog.Int("y", pos.Y),
		slog.Int("count", count),
	)
}

func (o *LoggingObserver) OnRunCompleted(ctx context.Context, run *RunRecord) {
	o.Logger.InfoContext(ctx, "run_completed",
		slog.String("run_id", run.ID),
		slog.String("algorithm", run.Algorithm),
		slog.String("outcome", string(run.Outcome)),
		slog.Int("steps", run.Steps()),
		slog.Int("cost", run.Cost),
		slog.Int("visits", run.VisitCount),
		slog.Duration("duration", run.Duration()),
	)
}

func (o *LoggingObserver) OnRunCancelled(ctx context.Context, run *RunRecord) {
	o.Logger.InfoContext(ctx, "run_cancelled",
		slog.String("run_id", run.ID),
		slog.String("algorithm", run.Algorithm),
		slog.Int("visits", run.VisitCount),
	)
}

func (o *LoggingObserver) OnRunFailed(ctx context.Context, run *RunRecord, err error) {
	o.Logger.ErrorContext(ctx, "run_failed",
		slog.String("run_id", run.ID),
		slog.String("algorithm", run.Algorithm),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnPathStep(ctx context.Context, run *RunRecord, pos Position, index int) {
	o.Logger.DebugContext(ctx, "path_step",
		slog.String("run_id", run.ID),
		slog.Int("x", pos.X),
		slog.Int("y", pos.Y),
		slog.Int("index", index),
	)
}

func (o *LoggingObserver) OnUnreachable(ctx context.Context, run *RunRecord) {
	o.Logger.InfoContext(ctx, "path_unreachable",
		slog.String("run_id", run.ID),
		slog.String("algorithm", run.Algorithm),
	)
}

// BasicMetrics collects simple counters and aggregate run durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	runsStarted   atomic.Int64
	runsFound     atomic.Int64
	runsNoPath    atomic.Int64
	runsCancelled atomic.Int64
	runsFailed    atomic.Int64
	visits        atomic.Int64
	totalDuration atomic.Int64 // nanoseconds, finished runs only
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	RunsStarted   int64
	RunsFound     int64
	RunsNoPath    int64
	RunsCancelled int64
	RunsFailed    int64
	RunsInFlight  int64

	Visits         int64
	AvgRunDuration time.Duration
}

func (m *BasicMetrics) OnRunStart(ctx context.Context, run *RunRecord) {
	m.runsStarted.Add(1)
}

func (m *BasicMetrics) OnVisit(ctx context.Context, run *RunRecord, pos Position, count int) {
	m.visits.Add(1)
}

func (m *BasicMetrics) OnRunCompleted(ctx context.Context, run *RunRecord) {
	if run.Outcome == OutcomePath {
		m.runsFound.Add(1)
	} else {
		m.runsNoPath.Add(1)
	}
	m.totalDuration.Add(run.Duration().Nanoseconds())
}

func (m *BasicMetrics) OnRunCancelled(ctx context.Context, run *RunRecord) {
	m.runsCancelled.Add(1)
	m.totalDuration.Add(run.Duration().Nanoseconds())
}

func (m *BasicMetrics) OnRunFailed(ctx context.Context, run *RunRecord, err error) {
	m.runsFailed.Add(1)
	m.totalDuration.Add(run.Duration().Nanoseconds())
}

// Snapshot returns a snapshot of the current metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.runsStarted.Load()
	found := m.runsFound.Load()
	noPath := m.runsNoPath.Load()
	cancelled := m.runsCancelled.Load()
	failed := m.runsFailed.Load()
	finished := found + noPath + cancelled + failed

	var avg time.Duration
	if finished > 0 {
		avg = time.Duration(m.totalDuration.Load() / finished)
	}

	return BasicMetricsSnapshot{
		RunsStarted:    started,
		RunsFound:      found,
		RunsNoPath:     noPath,
		RunsCancelled:  cancelled,
		RunsFailed:     failed,
		RunsInFlight:   started - finished,
		Visits:         m.visits.Load(),
		AvgRunDuration: avg,
	}
}
