package persistence

import (
	"context"
	"slices"
	"sync"

	"github.com/petrijr/gridpath/pkg/api"
)

// InMemoryStore is a simple, goroutine-safe implementation of RunStore and
// EventStore backed by maps. Records are copied in and out so callers never
// share them with the running controller.
type InMemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]*api.RunRecord
	events map[string][]api.RunEvent
}

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		runs:   make(map[string]*api.RunRecord),
		events: make(map[string][]api.RunEvent),
	}
}

// Ensure InMemoryStore implements the interfaces.
var _ RunStore = (*InMemoryStore)(nil)

var _ EventStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) SaveRun(rec *api.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[rec.ID] = rec.Clone()
	return nil
}

func (s *InMemoryStore) UpdateRun(rec *api.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[rec.ID]; !ok {
		return api.ErrRunNotFound
	}

	s.runs[rec.ID] = rec.Clone()
	return nil
}

func (s *InMemoryStore) GetRun(id string) (*api.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[id]
	if !ok {
		return nil, api.ErrRunNotFound
	}

	return rec.Clone(), nil
}

func (s *InMemoryStore) ListRuns(filter RunFilter) ([]*api.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*api.RunRecord
	for _, rec := range s.runs {
		if filter.match(rec) {
			result = append(result, rec.Clone())
		}
	}

	slices.SortFunc(result, func(a, b *api.RunRecord) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return result, nil
}

func (s *InMemoryStore) AppendEvent(ctx context.Context, ev api.RunEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events[ev.RunID] = append(s.events[ev.RunID], ev)
	return nil
}

func (s *InMemoryStore) ListEvents(ctx context.Context, runID string) ([]api.RunEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.events[runID]), nil
}
