package persistence

import (
	"context"

	"github.com/petrijr/gridpath/pkg/api"
)

// EventStore is an append-only history store for run events.
type EventStore interface {
	AppendEvent(ctx context.Context, ev api.RunEvent) error
	// ListEvents returns the events of one run in Seq order.
	ListEvents(ctx context.Context, runID string) ([]api.RunEvent, error)
}

// NoopEventStore discards all events.
type NoopEventStore struct{}

func (NoopEventStore) AppendEvent(ctx context.Context, ev api.RunEvent) error { return nil }
func (NoopEventStore) ListEvents(ctx context.Context, runID string) ([]api.RunEvent, error) {
	return nil, nil
}
