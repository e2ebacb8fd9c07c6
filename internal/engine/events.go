package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/petrijr/gridpath/internal/persistence"
	"github.com/petrijr/gridpath/pkg/api"
)

// eventLog numbers and appends the history of one run. Appends are
// serialized so Seq follows emission order.
type eventLog struct {
	mu        sync.Mutex
	store     persistence.EventStore
	logger    *slog.Logger
	runID     string
	algorithm string
	seq       int
}

func newEventLog(store persistence.EventStore, logger *slog.Logger, rec *api.RunRecord) *eventLog {
	return &eventLog{
		store:     store,
		logger:    logger,
		runID:     rec.ID,
		algorithm: rec.Algorithm,
	}
}

func (l *eventLog) append(ctx context.Context, typ api.EventType, pos api.Position, count int, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	ev := api.RunEvent{
		RunID:     l.runID,
		Seq:       l.seq,
		At:        time.Now(),
		Type:      typ,
		Algorithm: l.algorithm,
		Pos:       pos,
		Count:     count,
		Detail:    detail,
	}

	// History is written even after the host context is done.
	if err := l.store.AppendEvent(context.WithoutCancel(ctx), ev); err != nil {
		l.logger.WarnContext(ctx, "append_event_failed",
			slog.String("run_id", l.runID),
			slog.String("type", string(typ)),
			slog.Any("error", err),
		)
	}
}
