package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petrijr/gridpath/pkg/api"
	"github.com/stretchr/testify/require"
)

func TestController_RunFindsPath(t *testing.T) {
	obs := newRecordingObserver()
	c := newTestController(t, obs)

	run, err := c.Start(context.Background(), api.RunRequest{
		Algorithm: "bfs",
		Board:     openBoard(5, 5, api.Pos(0, 0), api.Pos(4, 4)),
	})
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, api.OutcomePath, rec.Outcome)
	require.Equal(t, 8, rec.Steps())
	require.Equal(t, 8, rec.Cost)
	require.Equal(t, api.Pos(0, 0), rec.Path[0])
	require.Equal(t, api.Pos(4, 4), rec.Path[len(rec.Path)-1])
	require.Positive(t, rec.VisitCount)
	require.NotContains(t, rec.Visits, api.Pos(0, 0))
	require.False(t, rec.FinishedAt.Before(rec.StartedAt))

	require.Equal(t, api.StateIdle, c.State())
	require.Equal(t, []string{"start", "completed"}, obs.Calls())
	require.Equal(t, rec.Path, obs.PathSteps())

	stored, err := c.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Path, stored.Path)
	require.Equal(t, rec.Visits, stored.Visits)
}

func TestController_StartRejectsInvalidRequests(t *testing.T) {
	c := newTestController(t, nil)
	ctx := context.Background()

	noStart := openBoard(5, 5, api.Pos(0, 0), api.Pos(4, 4))
	noStart.Start = nil
	_, err := c.Start(ctx, api.RunRequest{Algorithm: "bfs", Board: noStart})
	require.ErrorIs(t, err, api.ErrInvalidRunRequest)
	require.ErrorContains(t, err, "no start")

	noEnd := openBoard(5, 5, api.Pos(0, 0), api.Pos(4, 4))
	noEnd.End = nil
	_, err = c.Start(ctx, api.RunRequest{Algorithm: "bfs", Board: noEnd})
	require.ErrorIs(t, err, api.ErrInvalidRunRequest)
	require.ErrorContains(t, err, "no end")

	_, err = c.Start(ctx, api.RunRequest{Algorithm: "bfs", Board: openBoard(5, 5, api.Pos(0, 0), api.Pos(5, 0))})
	require.ErrorIs(t, err, api.ErrInvalidRunRequest)

	_, err = c.Start(ctx, api.RunRequest{Algorithm: "nope", Board: openBoard(5, 5, api.Pos(0, 0), api.Pos(4, 4))})
	require.ErrorIs(t, err, api.ErrUnknownAlgorithm)

	require.Equal(t, api.StateIdle, c.State())

	runs, err := c.ListRuns(ctx, api.RunListOptions{})
	require.NoError(t, err)
	require.Empty(t, runs)
}

func TestController_LifecycleAndCancel(t *testing.T) {
	obs := newRecordingObserver()
	c := newTestController(t, obs)
	require.ErrorIs(t, c.Cancel(), api.ErrNotRunning)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, c.RegisterAlgorithm(blockingAlgorithm(started, release)))

	board := openBoard(3, 3, api.Pos(0, 0), api.Pos(2, 2))
	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "blocking", Board: board})
	require.NoError(t, err)
	<-started

	require.Equal(t, api.StateRunning, c.State())

	_, err = c.Start(context.Background(), api.RunRequest{Algorithm: "bfs", Board: board})
	require.ErrorIs(t, err, api.ErrRunInProgress)

	require.NoError(t, c.Cancel())
	close(release)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeCancelled, rec.Outcome)
	require.Nil(t, rec.Path)
	require.Zero(t, rec.VisitCount)

	require.Equal(t, api.StateIdle, c.State())
	require.ErrorIs(t, c.Cancel(), api.ErrNotRunning)
	require.Equal(t, []string{"start", "cancelled"}, obs.Calls())
	require.Empty(t, obs.PathSteps())

	// The signal is reset: the next run is not cancelled.
	next, err := c.Start(context.Background(), api.RunRequest{Algorithm: "bfs", Board: board})
	require.NoError(t, err)
	rec, err = waitRun(t, next)
	require.NoError(t, err)
	require.Equal(t, api.OutcomePath, rec.Outcome)
}

func TestController_CancelDuringSearchStopsAtNextEmit(t *testing.T) {
	c := newTestController(t, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	alg := api.NewAlgorithm("emitter", func(ctx context.Context, s api.RunSettings, emit api.EmitFunc, check api.CancelCheck) ([]api.Position, error) {
		if err := emit(ctx, api.Pos(1, 0)); err != nil {
			return nil, err
		}
		close(started)
		<-release
		if err := emit(ctx, api.Pos(2, 0)); err != nil {
			return nil, err
		}
		return nil, errors.New("unreachable after cancel")
	})
	require.NoError(t, c.RegisterAlgorithm(alg))

	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "emitter", Board: openBoard(1, 3, api.Pos(0, 0), api.Pos(2, 0))})
	require.NoError(t, err)
	<-started
	require.NoError(t, c.Cancel())
	close(release)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeCancelled, rec.Outcome)
	require.Equal(t, 1, rec.VisitCount)
	require.Equal(t, map[api.Position]int{api.Pos(1, 0): 1}, rec.Visits)
}

func TestController_HostContextCancelsRun(t *testing.T) {
	c := newTestController(t, nil)

	started := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, c.RegisterAlgorithm(blockingAlgorithm(started, release)))

	ctx, cancel := context.WithCancel(context.Background())
	run, err := c.Start(ctx, api.RunRequest{Algorithm: "blocking", Board: openBoard(2, 2, api.Pos(0, 0), api.Pos(1, 1))})
	require.NoError(t, err)
	<-started
	cancel()
	close(release)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeCancelled, rec.Outcome)
	require.Equal(t, api.StateIdle, c.State())
}

func TestController_AlgorithmErrorIsFault(t *testing.T) {
	obs := newRecordingObserver()
	c := newTestController(t, obs)

	boom := errors.New("boom")
	require.NoError(t, c.RegisterAlgorithm(api.NewAlgorithm("broken", func(context.Context, api.RunSettings, api.EmitFunc, api.CancelCheck) ([]api.Position, error) {
		return nil, boom
	})))

	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "broken", Board: openBoard(2, 2, api.Pos(0, 0), api.Pos(1, 1))})
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	require.ErrorIs(t, err, boom)

	var fault *api.AlgorithmFault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, "broken", fault.Algorithm)

	require.Equal(t, api.OutcomeErrored, rec.Outcome)
	require.Equal(t, api.StateIdle, c.State())
	require.Equal(t, []string{"start", "failed"}, obs.Calls())
	require.Empty(t, obs.PathSteps())
	require.Zero(t, obs.unreachable)

	stored, err := c.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeErrored, stored.Outcome)
	require.ErrorContains(t, stored.Err, "boom")
}

func TestController_PanicIsRecoveredAsFault(t *testing.T) {
	c := newTestController(t, nil)

	require.NoError(t, c.RegisterAlgorithm(api.NewAlgorithm("panicky", func(context.Context, api.RunSettings, api.EmitFunc, api.CancelCheck) ([]api.Position, error) {
		panic("kaboom")
	})))

	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "panicky", Board: openBoard(2, 2, api.Pos(0, 0), api.Pos(1, 1))})
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	var fault *api.AlgorithmFault
	require.ErrorAs(t, err, &fault)
	require.ErrorContains(t, err, "kaboom")
	require.Equal(t, api.OutcomeErrored, rec.Outcome)
	require.Equal(t, api.StateIdle, c.State())
}

func TestController_AlgorithmOwnDeadlineIsFault(t *testing.T) {
	obs := newRecordingObserver()
	c := newTestController(t, obs)

	require.NoError(t, c.RegisterAlgorithm(api.NewAlgorithm("impatient", func(context.Context, api.RunSettings, api.EmitFunc, api.CancelCheck) ([]api.Position, error) {
		inner, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		<-inner.Done()
		return nil, inner.Err()
	})))

	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "impatient", Board: openBoard(2, 2, api.Pos(0, 0), api.Pos(1, 1))})
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.False(t, api.IsCancellation(err))

	var fault *api.AlgorithmFault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, "impatient", fault.Algorithm)

	require.Equal(t, api.OutcomeErrored, rec.Outcome)
	require.Equal(t, api.StateIdle, c.State())
	require.Equal(t, []string{"start", "failed"}, obs.Calls())
}

func TestController_ObserverPanicBeforeOutcomeErrorsRun(t *testing.T) {
	c := newTestController(t, &panickingObserver{on: "start"})

	req := api.RunRequest{Algorithm: "bfs", Board: openBoard(3, 3, api.Pos(0, 0), api.Pos(2, 2))}
	run, err := c.Start(context.Background(), req)
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	require.ErrorContains(t, err, "observer exploded")
	require.Equal(t, api.OutcomeErrored, rec.Outcome)
	require.Nil(t, rec.Path)
	require.Equal(t, api.StateIdle, c.State())

	stored, err := c.GetRun(context.Background(), run.ID)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeErrored, stored.Outcome)

	// The controller accepts the next run.
	run, err = c.Start(context.Background(), req)
	require.NoError(t, err)
	_, _ = waitRun(t, run)
	require.Equal(t, api.StateIdle, c.State())
}

func TestController_ObserverPanicAfterOutcomeKeepsIt(t *testing.T) {
	c := newTestController(t, &panickingObserver{on: "completed"})

	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "bfs", Board: openBoard(3, 3, api.Pos(0, 0), api.Pos(2, 2))})
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, api.OutcomePath, rec.Outcome)
	require.Equal(t, 4, rec.Steps())
	require.Equal(t, api.StateIdle, c.State())
}

func TestController_InvalidPathIsFault(t *testing.T) {
	c := newTestController(t, nil)

	require.NoError(t, c.RegisterAlgorithm(api.NewAlgorithm("teleport", func(_ context.Context, s api.RunSettings, _ api.EmitFunc, _ api.CancelCheck) ([]api.Position, error) {
		return []api.Position{s.Start, s.End}, nil
	})))

	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "teleport", Board: openBoard(3, 3, api.Pos(0, 0), api.Pos(2, 2))})
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	require.ErrorIs(t, err, api.ErrInvalidPath)
	require.Equal(t, api.OutcomeErrored, rec.Outcome)
}

func TestController_CustomSlotFindsNoPath(t *testing.T) {
	obs := newRecordingObserver()
	c := newTestController(t, obs)

	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "custom", Board: openBoard(3, 3, api.Pos(0, 0), api.Pos(2, 2))})
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeNoPath, rec.Outcome)
	require.Equal(t, -1, rec.Steps())
	require.Zero(t, rec.VisitCount)
	require.Equal(t, 1, obs.unreachable)
	require.Empty(t, obs.PathSteps())
}

func TestController_EmptyPathMeansNoPath(t *testing.T) {
	c := newTestController(t, nil)

	require.NoError(t, c.RegisterAlgorithm(api.NewAlgorithm("empty", func(context.Context, api.RunSettings, api.EmitFunc, api.CancelCheck) ([]api.Position, error) {
		return []api.Position{}, nil
	})))

	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "empty", Board: openBoard(2, 2, api.Pos(0, 0), api.Pos(1, 1))})
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeNoPath, rec.Outcome)
	require.Nil(t, rec.Path)
}

func TestController_CancelDuringReplayIsRejected(t *testing.T) {
	obs := newRecordingObserver()
	replaying := make(chan struct{})
	resume := make(chan struct{})
	obs.onPathStep = func(index int) {
		if index == 0 {
			close(replaying)
			<-resume
		}
	}
	c := newTestController(t, obs)

	board := openBoard(1, 4, api.Pos(0, 0), api.Pos(3, 0))
	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "dijkstra", Board: board})
	require.NoError(t, err)
	<-replaying

	require.Equal(t, api.StateCompleted, c.State())
	require.ErrorIs(t, c.Cancel(), api.ErrNotRunning)
	_, err = c.Start(context.Background(), api.RunRequest{Algorithm: "bfs", Board: board})
	require.ErrorIs(t, err, api.ErrRunInProgress)

	close(resume)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, rec.Path, obs.PathSteps())
	require.Len(t, obs.PathSteps(), 4)
	require.Equal(t, api.StateIdle, c.State())
}

func TestController_HostContextStopsReplay(t *testing.T) {
	obs := newRecordingObserver()
	replaying := make(chan struct{})
	resume := make(chan struct{})
	obs.onPathStep = func(index int) {
		if index == 0 {
			close(replaying)
			<-resume
		}
	}
	c := NewInMemoryController(Config{
		Observer:    obs,
		Logger:      discardLogger(),
		ReplayDelay: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	run, err := c.Start(ctx, api.RunRequest{Algorithm: "astar", Board: openBoard(1, 4, api.Pos(0, 0), api.Pos(3, 0))})
	require.NoError(t, err)
	<-replaying

	cancel()
	close(resume)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, api.OutcomePath, rec.Outcome)
	require.Equal(t, []api.Position{api.Pos(0, 0)}, obs.PathSteps())
	require.Equal(t, api.StateIdle, c.State())
}

func TestController_PacingDelaysEmits(t *testing.T) {
	c := NewInMemoryController(Config{Logger: discardLogger(), UpdateSpeed: 5 * time.Millisecond})

	require.NoError(t, c.RegisterAlgorithm(api.NewAlgorithm("three", func(ctx context.Context, s api.RunSettings, emit api.EmitFunc, _ api.CancelCheck) ([]api.Position, error) {
		for x := 1; x <= 3; x++ {
			if err := emit(ctx, api.Pos(x, 0)); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})))

	start := time.Now()
	run, err := c.Start(context.Background(), api.RunRequest{Algorithm: "three", Board: openBoard(1, 4, api.Pos(0, 0), api.Pos(3, 0))})
	require.NoError(t, err)

	rec, err := waitRun(t, run)
	require.NoError(t, err)
	require.Equal(t, 3, rec.VisitCount)
	require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestController_EventHistory(t *testing.T) {
	c := newTestController(t, nil)
	ctx := context.Background()

	run, err := c.Start(ctx, api.RunRequest{Algorithm: "bfs", Board: openBoard(3, 3, api.Pos(0, 0), api.Pos(2, 0))})
	require.NoError(t, err)
	rec, err := waitRun(t, run)
	require.NoError(t, err)

	events, err := c.RunEvents(ctx, run.ID)
	require.NoError(t, err)
	require.NotEmpty(t, events)

	require.Equal(t, api.EventRunStarted, events[0].Type)
	for i, ev := range events {
		require.Equal(t, i+1, ev.Seq)
		require.Equal(t, run.ID, ev.RunID)
	}

	var visits, steps int
	var completed api.RunEvent
	for _, ev := range events {
		switch ev.Type {
		case api.EventVisit:
			visits++
		case api.EventPathStep:
			steps++
		case api.EventRunCompleted:
			completed = ev
		}
	}
	require.Equal(t, rec.VisitCount, visits)
	require.Equal(t, len(rec.Path), steps)
	require.Equal(t, "2 step path found", completed.Detail)
	require.Equal(t, api.EventPathStep, events[len(events)-1].Type)

	_, err = c.RunEvents(ctx, "missing")
	require.ErrorIs(t, err, api.ErrRunNotFound)
}

func visitSequence(t *testing.T, c api.Controller, id string) []api.Position {
	t.Helper()

	events, err := c.RunEvents(context.Background(), id)
	require.NoError(t, err)

	var out []api.Position
	for _, ev := range events {
		if ev.Type == api.EventVisit {
			out = append(out, ev.Pos)
		}
	}
	return out
}

func TestController_RunsAreDeterministic(t *testing.T) {
	board := openBoard(6, 6, api.Pos(0, 0), api.Pos(5, 5))
	board.Walls = []api.Position{api.Pos(2, 0), api.Pos(2, 1), api.Pos(2, 2), api.Pos(2, 3)}
	board.Weights = []api.WeightedPosition{{Pos: api.Pos(1, 4), Weight: 5}}

	for _, name := range []string{"bfs", "dijkstra", "astar"} {
		t.Run(name, func(t *testing.T) {
			c := newTestController(t, nil)

			first, err := c.Start(context.Background(), api.RunRequest{Algorithm: name, Board: board})
			require.NoError(t, err)
			a, err := waitRun(t, first)
			require.NoError(t, err)

			second, err := c.Start(context.Background(), api.RunRequest{Algorithm: name, Board: board})
			require.NoError(t, err)
			b, err := waitRun(t, second)
			require.NoError(t, err)

			require.Equal(t, a.Path, b.Path)
			require.Equal(t, visitSequence(t, c, first.ID), visitSequence(t, c, second.ID))
		})
	}
}

func TestController_ListRunsFilters(t *testing.T) {
	c := newTestController(t, nil)
	ctx := context.Background()

	for _, name := range []string{"bfs", "custom", "bfs"} {
		run, err := c.Start(ctx, api.RunRequest{Algorithm: name, Board: openBoard(2, 2, api.Pos(0, 0), api.Pos(1, 1))})
		require.NoError(t, err)
		_, err = waitRun(t, run)
		require.NoError(t, err)
	}

	all, err := c.ListRuns(ctx, api.RunListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	bfs, err := c.ListRuns(ctx, api.RunListOptions{Algorithm: "bfs"})
	require.NoError(t, err)
	require.Len(t, bfs, 2)

	noPath, err := c.ListRuns(ctx, api.RunListOptions{Outcome: api.OutcomeNoPath})
	require.NoError(t, err)
	require.Len(t, noPath, 1)
	require.Equal(t, "custom", noPath[0].Algorithm)

	_, err = c.GetRun(ctx, "missing")
	require.ErrorIs(t, err, api.ErrRunNotFound)
}
