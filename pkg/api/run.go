package api

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// State is the controller's lifecycle state.
type State string

const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateCancelled State = "CANCELLED"
	StateErrored   State = "ERRORED"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeRunning   Outcome = "RUNNING"
	OutcomePath      Outcome = "PATH"
	OutcomeNoPath    Outcome = "NO_PATH"
	OutcomeCancelled Outcome = "CANCELLED"
	OutcomeErrored   Outcome = "ERRORED"
)

// Terminal reports whether the outcome is final.
func (o Outcome) Terminal() bool {
	return o != OutcomeRunning && o != ""
}

// RunRequest asks the controller to run one algorithm against a board.
type RunRequest struct {
	Algorithm string
	Board     Board
}

// RunRecord holds everything known about a run.
type RunRecord struct {
	ID        string
	Algorithm string
	Rows      int
	Columns   int
	Start     Position
	End       Position

	Outcome Outcome

	// Path is nil unless Outcome is OutcomePath.
	Path []Position
	// Cost is the summed edge weight of Path.
	Cost int

	// Visits counts instrumentation events per position.
	Visits map[Position]int
	// VisitCount is the total number of instrumentation events.
	VisitCount int

	Err error

	StartedAt  time.Time
	FinishedAt time.Time
}

// Steps returns the number of moves on the path, or -1 without one.
func (r *RunRecord) Steps() int {
	if r.Path == nil {
		return -1
	}
	return len(r.Path) - 1
}

// Duration is the wall time between start and finish.
func (r *RunRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Clone returns a deep copy, safe to hand to another goroutine.
func (r *RunRecord) Clone() *RunRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.Path != nil {
		c.Path = slices.Clone(r.Path)
	}
	if r.Visits != nil {
		c.Visits = maps.Clone(r.Visits)
	}
	return &c
}

// RunListOptions filters ListRuns. Zero values mean "no filter".
type RunListOptions struct {
	Algorithm string
	Outcome   Outcome
}

// Run is the handle returned by Controller.Start. It completes once the
// controller has finished the run, replayed its path and returned to idle.
type Run struct {
	ID string

	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	record *RunRecord
}

// NewRun creates a pending run handle. It is used by controller
// implementations.
func NewRun(id string) *Run {
	return &Run{ID: id, done: make(chan struct{})}
}

// Finish stores the final record and releases waiters. Only the first call
// has an effect.
func (r *Run) Finish(rec *RunRecord) {
	r.once.Do(func() {
		r.mu.Lock()
		r.record = rec.Clone()
		r.mu.Unlock()
		close(r.done)
	})
}

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Record returns the final record, or nil while the run is still going.
func (r *Run) Record() *RunRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.record.Clone()
}

// Wait blocks until the run finishes or ctx is done. Cancelled and no-path
// runs are not errors; an errored run returns its fault.
func (r *Run) Wait(ctx context.Context) (*RunRecord, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
	}
	rec := r.Record()
	if rec.Outcome == OutcomeErrored {
		return rec, rec.Err
	}
	return rec, nil
}
