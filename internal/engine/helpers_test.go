package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/petrijr/gridpath/pkg/api"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(t *testing.T, obs api.Observer) api.Controller {
	t.Helper()
	return NewInMemoryController(Config{Observer: obs, Logger: discardLogger()})
}

func openBoard(rows, columns int, start, end api.Position) api.Board {
	return api.Board{Rows: rows, Columns: columns, Start: &start, End: &end}
}

func waitRun(t *testing.T, run *api.Run) (*api.RunRecord, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rec, err := run.Wait(ctx)
	if rec == nil {
		t.Fatalf("run %s did not finish: %v", run.ID, err)
	}
	return rec, err
}

// blockingAlgorithm parks before its first cancellation check until release
// is closed.
func blockingAlgorithm(started, release chan struct{}) api.Algorithm {
	return api.NewAlgorithm("blocking", func(ctx context.Context, s api.RunSettings, emit api.EmitFunc, check api.CancelCheck) ([]api.Position, error) {
		close(started)
		<-release
		if err := check(); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// recordingObserver keeps every callback in order.
type recordingObserver struct {
	api.NoopObserver

	mu          sync.Mutex
	calls       []string
	visits      []api.Position
	counts      map[api.Position]int
	pathSteps   []api.Position
	unreachable int
	failures    []error

	// onPathStep runs inside OnPathStep, before the step is recorded.
	onPathStep func(index int)
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{counts: make(map[api.Position]int)}
}

func (o *recordingObserver) record(call string) {
	o.mu.Lock()
	o.calls = append(o.calls, call)
	o.mu.Unlock()
}

func (o *recordingObserver) OnRunStart(ctx context.Context, run *api.RunRecord) {
	o.record("start")
}

func (o *recordingObserver) OnVisit(ctx context.Context, run *api.RunRecord, pos api.Position, count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visits = append(o.visits, pos)
	o.counts[pos] = count
}

func (o *recordingObserver) OnRunCompleted(ctx context.Context, run *api.RunRecord) {
	o.record("completed")
}

func (o *recordingObserver) OnRunCancelled(ctx context.Context, run *api.RunRecord) {
	o.record("cancelled")
}

func (o *recordingObserver) OnRunFailed(ctx context.Context, run *api.RunRecord, err error) {
	o.mu.Lock()
	o.failures = append(o.failures, err)
	o.mu.Unlock()
	o.record("failed")
}

func (o *recordingObserver) OnPathStep(ctx context.Context, run *api.RunRecord, pos api.Position, index int) {
	if o.onPathStep != nil {
		o.onPathStep(index)
	}
	o.mu.Lock()
	o.pathSteps = append(o.pathSteps, pos)
	o.mu.Unlock()
}

func (o *recordingObserver) OnUnreachable(ctx context.Context, run *api.RunRecord) {
	o.mu.Lock()
	o.unreachable++
	o.mu.Unlock()
}

func (o *recordingObserver) Calls() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.calls...)
}

func (o *recordingObserver) PathSteps() []api.Position {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]api.Position(nil), o.pathSteps...)
}

// panickingObserver panics in the callback named by on.
type panickingObserver struct {
	api.NoopObserver
	on string
}

func (o *panickingObserver) OnRunStart(ctx context.Context, run *api.RunRecord) {
	if o.on == "start" {
		panic("observer exploded")
	}
}

func (o *panickingObserver) OnRunCompleted(ctx context.Context, run *api.RunRecord) {
	if o.on == "completed" {
		panic("observer exploded")
	}
}
