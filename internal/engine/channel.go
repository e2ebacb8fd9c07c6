package engine

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petrijr/gridpath/pkg/api"
)

// instrumentationChannel is handed to algorithms as their emit and check
// callbacks. It counts visits per position, forwards them to the observer
// and history, and paces the run.
type instrumentationChannel struct {
	run      *api.RunRecord
	signal   *atomic.Bool
	delay    time.Duration
	observer api.Observer
	events   *eventLog

	mu     sync.Mutex
	visits map[api.Position]int
	total  int
}

func newInstrumentationChannel(run *api.RunRecord, signal *atomic.Bool, delay time.Duration, obs api.Observer, events *eventLog) *instrumentationChannel {
	return &instrumentationChannel{
		run:      run,
		signal:   signal,
		delay:    delay,
		observer: obs,
		events:   events,
		visits:   make(map[api.Position]int),
	}
}

// cancelled reports a requested stop, either through the controller's
// signal or through ctx.
func (c *instrumentationChannel) cancelled(ctx context.Context) error {
	if c.signal.Load() {
		return api.ErrCancelled
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", api.ErrCancelled, err)
	}
	return nil
}

// checker binds cancelled to the run's context.
func (c *instrumentationChannel) checker(ctx context.Context) api.CancelCheck {
	return func() error {
		return c.cancelled(ctx)
	}
}

// Emit implements api.EmitFunc.
func (c *instrumentationChannel) Emit(ctx context.Context, pos api.Position) error {
	if err := c.cancelled(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.visits[pos]++
	c.total++
	count := c.visits[pos]
	c.mu.Unlock()

	c.observer.OnVisit(ctx, c.run, pos, count)
	c.events.append(ctx, api.EventVisit, pos, count, "")

	if err := pace(ctx, c.delay); err != nil {
		return fmt.Errorf("%w: %w", api.ErrCancelled, err)
	}
	return c.cancelled(ctx)
}

// Visits returns a snapshot of the per-position counters and their total.
func (c *instrumentationChannel) Visits() (map[api.Position]int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return maps.Clone(c.visits), c.total
}

// pace blocks for d or until ctx is done. A non-positive d returns at once.
func pace(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
