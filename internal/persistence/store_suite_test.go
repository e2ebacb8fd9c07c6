package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/petrijr/gridpath/pkg/api"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite runs the same contract against every store implementation.
type StoreTestSuite struct {
	suite.Suite

	newStores func(t *testing.T) (RunStore, EventStore)

	runs   RunStore
	events EventStore
	ctx    context.Context
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.runs, s.events = s.newStores(s.T())
}

var baseTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func sampleRun(id, algorithm string, offset time.Duration) *api.RunRecord {
	return &api.RunRecord{
		ID:        id,
		Algorithm: algorithm,
		Rows:      5,
		Columns:   5,
		Start:     api.Pos(0, 0),
		End:       api.Pos(4, 4),
		Outcome:   api.OutcomeRunning,
		StartedAt: baseTime.Add(offset),
	}
}

func (s *StoreTestSuite) TestSaveGetUpdate() {
	rec := sampleRun("run-1", "bfs", 0)
	s.Require().NoError(s.runs.SaveRun(rec))

	got, err := s.runs.GetRun("run-1")
	s.Require().NoError(err)
	s.Equal("bfs", got.Algorithm)
	s.Equal(api.OutcomeRunning, got.Outcome)
	s.Nil(got.Path)
	s.Equal(-1, got.Steps())
	s.True(got.StartedAt.Equal(rec.StartedAt))
	s.True(got.FinishedAt.IsZero())

	rec.Outcome = api.OutcomePath
	rec.Path = []api.Position{api.Pos(0, 0), api.Pos(1, 0), api.Pos(1, 1)}
	rec.Cost = 2
	rec.Visits = map[api.Position]int{api.Pos(1, 0): 1, api.Pos(0, 1): 2}
	rec.VisitCount = 3
	rec.FinishedAt = rec.StartedAt.Add(40 * time.Millisecond)
	s.Require().NoError(s.runs.UpdateRun(rec))

	got, err = s.runs.GetRun("run-1")
	s.Require().NoError(err)
	s.Equal(api.OutcomePath, got.Outcome)
	s.Equal(rec.Path, got.Path)
	s.Equal(2, got.Steps())
	s.Equal(2, got.Cost)
	s.Equal(rec.Visits, got.Visits)
	s.Equal(3, got.VisitCount)
	s.Equal(40*time.Millisecond, got.Duration())
	s.NoError(got.Err)
}

func (s *StoreTestSuite) TestErrorIsPreserved() {
	rec := sampleRun("run-err", "custom", 0)
	s.Require().NoError(s.runs.SaveRun(rec))

	rec.Outcome = api.OutcomeErrored
	rec.Err = errors.New("boom")
	rec.FinishedAt = rec.StartedAt.Add(time.Millisecond)
	s.Require().NoError(s.runs.UpdateRun(rec))

	got, err := s.runs.GetRun("run-err")
	s.Require().NoError(err)
	s.Require().Error(got.Err)
	s.Equal("boom", got.Err.Error())
}

func (s *StoreTestSuite) TestGetUnknownRun() {
	_, err := s.runs.GetRun("missing")
	s.ErrorIs(err, api.ErrRunNotFound)
}

func (s *StoreTestSuite) TestUpdateUnknownRun() {
	err := s.runs.UpdateRun(sampleRun("missing", "bfs", 0))
	s.ErrorIs(err, api.ErrRunNotFound)
}

func (s *StoreTestSuite) TestListRunsOrderAndFilter() {
	b := sampleRun("b", "astar", 2*time.Second)
	b.Outcome = api.OutcomeNoPath
	s.Require().NoError(s.runs.SaveRun(b))
	s.Require().NoError(s.runs.SaveRun(sampleRun("a", "bfs", time.Second)))
	s.Require().NoError(s.runs.SaveRun(sampleRun("c", "bfs", 3*time.Second)))

	all, err := s.runs.ListRuns(RunFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	bfs, err := s.runs.ListRuns(RunFilter{Algorithm: "bfs"})
	s.Require().NoError(err)
	s.Len(bfs, 2)

	noPath, err := s.runs.ListRuns(RunFilter{Outcome: api.OutcomeNoPath})
	s.Require().NoError(err)
	s.Require().Len(noPath, 1)
	s.Equal("b", noPath[0].ID)

	none, err := s.runs.ListRuns(RunFilter{Algorithm: "bfs", Outcome: api.OutcomeNoPath})
	s.Require().NoError(err)
	s.Empty(none)
}

func (s *StoreTestSuite) TestEventsAppendAndList() {
	for i, typ := range []api.EventType{api.EventRunStarted, api.EventVisit, api.EventRunCompleted} {
		s.Require().NoError(s.events.AppendEvent(s.ctx, api.RunEvent{
			RunID:     "run-ev",
			Seq:       i + 1,
			At:        baseTime.Add(time.Duration(i) * time.Millisecond),
			Type:      typ,
			Algorithm: "bfs",
			Pos:       api.Pos(i, 0),
			Count:     1,
		}))
	}
	s.Require().NoError(s.events.AppendEvent(s.ctx, api.RunEvent{RunID: "other", Seq: 1, Type: api.EventRunStarted}))

	events, err := s.events.ListEvents(s.ctx, "run-ev")
	s.Require().NoError(err)
	s.Require().Len(events, 3)
	s.Equal(api.EventRunStarted, events[0].Type)
	s.Equal(api.EventVisit, events[1].Type)
	s.Equal(api.Pos(1, 0), events[1].Pos)
	s.Equal(api.EventRunCompleted, events[2].Type)
	for i, ev := range events {
		s.Equal(i+1, ev.Seq)
	}

	none, err := s.events.ListEvents(s.ctx, "missing")
	s.Require().NoError(err)
	s.Empty(none)
}
