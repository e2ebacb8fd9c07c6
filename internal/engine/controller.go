package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petrijr/gridpath/internal/grid"
	"github.com/petrijr/gridpath/internal/persistence"
	"github.com/petrijr/gridpath/internal/search"
	"github.com/petrijr/gridpath/pkg/api"
)

const tracerName = "github.com/petrijr/gridpath"

// controllerImpl runs one algorithm at a time on a background goroutine.
type controllerImpl struct {
	registry *algorithmRegistry
	runs     persistence.RunStore
	events   persistence.EventStore
	observer api.Observer
	logger   *slog.Logger
	tracer   trace.Tracer

	updateSpeed time.Duration
	replayDelay time.Duration

	mu     sync.Mutex
	state  api.State
	signal atomic.Bool
}

// Config describes how to construct a controller.
// External callers use the helpers in the gridpath package.
type Config struct {
	Persistence persistence.Persistence
	Observer    api.Observer
	Logger      *slog.Logger

	// UpdateSpeed is the pacing delay per instrumentation event. Zero
	// disables pacing.
	UpdateSpeed time.Duration
	// ReplayDelay is the delay between replayed path positions. Zero means
	// UpdateSpeed.
	ReplayDelay time.Duration

	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

var _ api.Controller = (*controllerImpl)(nil)

// NewController creates a controller with the built-in algorithms
// registered. Missing stores default to an in-memory store.
func NewController(cfg Config) api.Controller {
	if cfg.Persistence.Runs == nil || cfg.Persistence.Events == nil {
		mem := persistence.NewInMemoryStore()
		if cfg.Persistence.Runs == nil {
			cfg.Persistence.Runs = mem
		}
		if cfg.Persistence.Events == nil {
			cfg.Persistence.Events = mem
		}
	}

	obs := cfg.Observer
	if obs == nil {
		obs = api.NoopObserver{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	replayDelay := cfg.ReplayDelay
	if replayDelay <= 0 {
		replayDelay = cfg.UpdateSpeed
	}

	c := &controllerImpl{
		registry:    newAlgorithmRegistry(),
		runs:        cfg.Persistence.Runs,
		events:      cfg.Persistence.Events,
		observer:    obs,
		logger:      logger,
		tracer:      tp.Tracer(tracerName),
		updateSpeed: cfg.UpdateSpeed,
		replayDelay: replayDelay,
		state:       api.StateIdle,
	}
	for _, a := range search.Builtins() {
		// Built-in names are distinct.
		_ = c.registry.Register(a)
	}
	return c
}

// NewInMemoryController keeps runs and history in memory.
func NewInMemoryController(cfg Config) api.Controller {
	mem := persistence.NewInMemoryStore()
	cfg.Persistence = persistence.Persistence{Runs: mem, Events: mem}
	return NewController(cfg)
}

// NewSQLiteController keeps runs and history in db. The caller imports the
// SQLite driver.
func NewSQLiteController(db *sql.DB, cfg Config) (api.Controller, error) {
	runs, err := persistence.NewSQLiteRunStore(db)
	if err != nil {
		return nil, err
	}
	events, err := persistence.NewSQLiteEventStore(db)
	if err != nil {
		return nil, err
	}

	cfg.Persistence = persistence.Persistence{Runs: runs, Events: events}
	return NewController(cfg), nil
}

func (c *controllerImpl) RegisterAlgorithm(a api.Algorithm) error {
	return c.registry.Register(a)
}

func (c *controllerImpl) Algorithms() []string {
	return c.registry.Names()
}

func (c *controllerImpl) State() api.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *controllerImpl) setState(s api.State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func validateRequest(req api.RunRequest) error {
	b := req.Board
	if b.Start == nil {
		return fmt.Errorf("%w: board has no start", api.ErrInvalidRunRequest)
	}
	if b.End == nil {
		return fmt.Errorf("%w: board has no end", api.ErrInvalidRunRequest)
	}
	if b.Rows < 1 || b.Columns < 1 {
		return fmt.Errorf("%w: board is %dx%d", api.ErrInvalidRunRequest, b.Rows, b.Columns)
	}
	if !b.InBounds(*b.Start) {
		return fmt.Errorf("%w: start %s is outside the board", api.ErrInvalidRunRequest, b.Start)
	}
	if !b.InBounds(*b.End) {
		return fmt.Errorf("%w: end %s is outside the board", api.ErrInvalidRunRequest, b.End)
	}
	return nil
}

func (c *controllerImpl) Start(ctx context.Context, req api.RunRequest) (*api.Run, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	alg, err := c.registry.Get(req.Algorithm)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.state != api.StateIdle {
		c.mu.Unlock()
		return nil, api.ErrRunInProgress
	}
	c.signal.Store(false)
	c.state = api.StateRunning
	c.mu.Unlock()

	b := req.Board
	rec := &api.RunRecord{
		ID:        uuid.NewString(),
		Algorithm: alg.Name(),
		Rows:      b.Rows,
		Columns:   b.Columns,
		Start:     *b.Start,
		End:       *b.End,
		Outcome:   api.OutcomeRunning,
		StartedAt: time.Now(),
	}

	if err := c.runs.SaveRun(rec); err != nil {
		c.setState(api.StateIdle)
		return nil, fmt.Errorf("save run: %w", err)
	}

	settings := api.RunSettings{
		Graph: grid.BuildBoardGraph(b),
		Start: rec.Start,
		End:   rec.End,
	}

	run := api.NewRun(rec.ID)
	go c.execute(ctx, alg, settings, rec, run)
	return run, nil
}

func (c *controllerImpl) Cancel() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != api.StateRunning {
		return api.ErrNotRunning
	}
	c.signal.Store(true)
	return nil
}

// execute drives one run from start to idle.
func (c *controllerImpl) execute(ctx context.Context, alg api.Algorithm, settings api.RunSettings, rec *api.RunRecord, run *api.Run) {
	ctx, span := c.tracer.Start(ctx, "gridpath.run",
		trace.WithAttributes(
			attribute.String("gridpath.run_id", rec.ID),
			attribute.String("gridpath.algorithm", rec.Algorithm),
			attribute.Int("gridpath.rows", rec.Rows),
			attribute.Int("gridpath.columns", rec.Columns),
		),
	)

	events := newEventLog(c.events, c.logger, rec)

	defer func() {
		if r := recover(); r != nil {
			c.recoverExecute(ctx, span, rec, r)
		}
		span.End()
		c.mu.Lock()
		c.signal.Store(false)
		c.state = api.StateIdle
		c.mu.Unlock()
		run.Finish(rec)
	}()

	c.observer.OnRunStart(ctx, rec)
	events.append(ctx, api.EventRunStarted, rec.Start, 0, fmt.Sprintf("%dx%d", rec.Rows, rec.Columns))

	ch := newInstrumentationChannel(rec, &c.signal, c.updateSpeed, c.observer, events)
	path, err := c.search(ctx, alg, settings, ch)

	rec.Visits, rec.VisitCount = ch.Visits()
	rec.FinishedAt = time.Now()

	var state api.State
	switch {
	case err == nil:
		state = api.StateCompleted
		if path == nil {
			rec.Outcome = api.OutcomeNoPath
		} else {
			rec.Outcome = api.OutcomePath
			rec.Path = path
			rec.Cost, _ = api.PathCost(settings.Graph, path)
		}
	case api.IsCancellation(err):
		state = api.StateCancelled
		rec.Outcome = api.OutcomeCancelled
	default:
		state = api.StateErrored
		rec.Outcome = api.OutcomeErrored
		rec.Err = err
	}

	span.SetAttributes(
		attribute.String("gridpath.outcome", string(rec.Outcome)),
		attribute.Int("gridpath.visits", rec.VisitCount),
		attribute.Int("gridpath.steps", rec.Steps()),
	)

	if err := c.runs.UpdateRun(rec); err != nil {
		c.logger.ErrorContext(ctx, "update_run_failed",
			slog.String("run_id", rec.ID),
			slog.Any("error", err),
		)
	}

	switch rec.Outcome {
	case api.OutcomePath:
		events.append(ctx, api.EventRunCompleted, rec.End, rec.Steps(), fmt.Sprintf("%d step path found", rec.Steps()))
		c.observer.OnRunCompleted(ctx, rec)
	case api.OutcomeNoPath:
		events.append(ctx, api.EventRunNoPath, rec.End, 0, "No path could be found")
		c.observer.OnRunCompleted(ctx, rec)
	case api.OutcomeCancelled:
		events.append(ctx, api.EventRunCancelled, api.Position{}, 0, api.ErrCancelled.Error())
		c.observer.OnRunCancelled(ctx, rec)
	default:
		span.RecordError(rec.Err)
		span.SetStatus(codes.Error, rec.Err.Error())
		events.append(ctx, api.EventRunFailed, api.Position{}, 0, rec.Err.Error())
		c.observer.OnRunFailed(ctx, rec, rec.Err)
	}

	c.setState(state)

	if state == api.StateCompleted {
		c.replay(ctx, rec, events)
	}
}

// recoverExecute records a panic raised outside the algorithm, typically by
// an observer. A run that had not reached an outcome yet ends errored.
func (c *controllerImpl) recoverExecute(ctx context.Context, span trace.Span, rec *api.RunRecord, r any) {
	err := fmt.Errorf("panic during run: %v", r)
	c.logger.ErrorContext(ctx, "run_panicked",
		slog.String("run_id", rec.ID),
		slog.String("algorithm", rec.Algorithm),
		slog.Any("error", err),
	)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if rec.Outcome.Terminal() {
		return
	}
	rec.Outcome = api.OutcomeErrored
	rec.Err = err
	rec.Path = nil
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}
	if uerr := c.runs.UpdateRun(rec); uerr != nil {
		c.logger.ErrorContext(ctx, "update_run_failed",
			slog.String("run_id", rec.ID),
			slog.Any("error", uerr),
		)
	}
}

// search invokes the algorithm and turns whatever it does into either a
// valid path, nil, a cancellation or an *api.AlgorithmFault.
func (c *controllerImpl) search(ctx context.Context, alg api.Algorithm, settings api.RunSettings, ch *instrumentationChannel) (path []api.Position, err error) {
	defer func() {
		if r := recover(); r != nil {
			path = nil
			err = &api.AlgorithmFault{Algorithm: alg.Name(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	path, err = alg.Search(ctx, settings, ch.Emit, ch.checker(ctx))
	if err != nil {
		// A context error the algorithm raised on its own, such as its own
		// deadline, is a fault unless a stop was actually requested.
		if api.IsCancellation(err) && ch.cancelled(ctx) != nil {
			return nil, err
		}
		var fault *api.AlgorithmFault
		if errors.As(err, &fault) {
			return nil, err
		}
		return nil, &api.AlgorithmFault{Algorithm: alg.Name(), Err: err}
	}

	if len(path) == 0 {
		return nil, nil
	}
	if err := validatePath(settings, path); err != nil {
		return nil, &api.AlgorithmFault{Algorithm: alg.Name(), Err: err}
	}
	return path, nil
}

// validatePath checks that path leads from start to end through adjacent
// traversable cells.
func validatePath(s api.RunSettings, path []api.Position) error {
	first, last := path[0], path[len(path)-1]
	if first != s.Start {
		return fmt.Errorf("%w: starts at %s, want %s", api.ErrInvalidPath, first, s.Start)
	}
	if last != s.End {
		return fmt.Errorf("%w: ends at %s, want %s", api.ErrInvalidPath, last, s.End)
	}
	if _, ok := api.PathCost(s.Graph, path); !ok {
		return fmt.Errorf("%w: consecutive positions are not adjacent", api.ErrInvalidPath)
	}
	return nil
}

func (c *controllerImpl) GetRun(ctx context.Context, id string) (*api.RunRecord, error) {
	return c.runs.GetRun(id)
}

func (c *controllerImpl) ListRuns(ctx context.Context, opts api.RunListOptions) ([]*api.RunRecord, error) {
	return c.runs.ListRuns(persistence.RunFilter{
		Algorithm: opts.Algorithm,
		Outcome:   opts.Outcome,
	})
}

func (c *controllerImpl) RunEvents(ctx context.Context, id string) ([]api.RunEvent, error) {
	if _, err := c.runs.GetRun(id); err != nil {
		return nil, err
	}
	return c.events.ListEvents(ctx, id)
}
