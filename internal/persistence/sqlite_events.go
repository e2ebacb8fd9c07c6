package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/petrijr/gridpath/pkg/api"
)

// SQLiteEventStore stores run events in SQLite.
type SQLiteEventStore struct {
	db *sql.DB
}

// Ensure SQLiteEventStore implements the interfaces.
var _ EventStore = (*SQLiteEventStore)(nil)

func NewSQLiteEventStore(db *sql.DB) (*SQLiteEventStore, error) {
	s := &SQLiteEventStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteEventStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS run_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			at INTEGER NOT NULL,
			type TEXT NOT NULL,
			algorithm TEXT NOT NULL DEFAULT '',
			x INTEGER NOT NULL DEFAULT 0,
			y INTEGER NOT NULL DEFAULT 0,
			count INTEGER NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_run_events_run_id ON run_events(run_id, seq);
	`)
	return err
}

func (s *SQLiteEventStore) AppendEvent(ctx context.Context, ev api.RunEvent) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO run_events (run_id, seq, at, type, algorithm, x, y, count, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.RunID,
		ev.Seq,
		at.UnixNano(),
		string(ev.Type),
		ev.Algorithm,
		ev.Pos.X,
		ev.Pos.Y,
		ev.Count,
		ev.Detail,
	)
	return err
}

func (s *SQLiteEventStore) ListEvents(ctx context.Context, runID string) ([]api.RunEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, at, type, algorithm, x, y, count, detail
		FROM run_events
		WHERE run_id = ?
		ORDER BY seq ASC, id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.RunEvent
	for rows.Next() {
		var (
			ev  api.RunEvent
			atN int64
			typ string
		)
		if err := rows.Scan(&ev.RunID, &ev.Seq, &atN, &typ, &ev.Algorithm, &ev.Pos.X, &ev.Pos.Y, &ev.Count, &ev.Detail); err != nil {
			return nil, err
		}
		ev.At = time.Unix(0, atN)
		ev.Type = api.EventType(typ)
		out = append(out, ev)
	}
	return out, rows.Err()
}
