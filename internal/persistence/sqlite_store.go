package persistence

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/petrijr/gridpath/pkg/api"
)

// SQLiteRunStore is a RunStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
type SQLiteRunStore struct {
	db *sql.DB
}

// Ensure SQLiteRunStore implements RunStore.
var _ RunStore = (*SQLiteRunStore)(nil)

// NewSQLiteRunStore initializes the required schema in the given database
// and returns a new SQLiteRunStore.
func NewSQLiteRunStore(db *sql.DB) (*SQLiteRunStore, error) {
	s := &SQLiteRunStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteRunStore) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			algorithm TEXT NOT NULL,
			rows INTEGER NOT NULL,
			columns INTEGER NOT NULL,
			start_x INTEGER NOT NULL,
			start_y INTEGER NOT NULL,
			end_x INTEGER NOT NULL,
			end_y INTEGER NOT NULL,
			outcome TEXT NOT NULL,
			path BLOB,
			cost INTEGER NOT NULL DEFAULT 0,
			visits BLOB,
			visit_count INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at, id);`,
	)
	return err
}

// runColumns holds the encoded form of a record, shared by insert and update.
type runColumns struct {
	path     []byte
	visits   []byte
	errStr   string
	started  int64
	finished int64
}

func encodeRun(rec *api.RunRecord) (runColumns, error) {
	var cols runColumns
	var err error

	if cols.path, err = EncodePath(rec.Path); err != nil {
		return cols, err
	}
	if cols.visits, err = EncodeVisits(rec.Visits); err != nil {
		return cols, err
	}
	if rec.Err != nil {
		cols.errStr = rec.Err.Error()
	}
	cols.started = rec.StartedAt.UnixNano()
	if !rec.FinishedAt.IsZero() {
		cols.finished = rec.FinishedAt.UnixNano()
	}
	return cols, nil
}

func (s *SQLiteRunStore) SaveRun(rec *api.RunRecord) error {
	cols, err := encodeRun(rec)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO runs (id, algorithm, rows, columns, start_x, start_y, end_x, end_y,
			outcome, path, cost, visits, visit_count, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Algorithm,
		rec.Rows,
		rec.Columns,
		rec.Start.X,
		rec.Start.Y,
		rec.End.X,
		rec.End.Y,
		string(rec.Outcome),
		cols.path,
		rec.Cost,
		cols.visits,
		rec.VisitCount,
		cols.errStr,
		cols.started,
		cols.finished,
	)
	return err
}

func (s *SQLiteRunStore) UpdateRun(rec *api.RunRecord) error {
	cols, err := encodeRun(rec)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(`
		UPDATE runs
		SET outcome = ?, path = ?, cost = ?, visits = ?, visit_count = ?, error = ?, finished_at = ?
		WHERE id = ?`,
		string(rec.Outcome),
		cols.path,
		rec.Cost,
		cols.visits,
		rec.VisitCount,
		cols.errStr,
		cols.finished,
		rec.ID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return api.ErrRunNotFound
	}

	return nil
}

const selectRuns = `
	SELECT id, algorithm, rows, columns, start_x, start_y, end_x, end_y,
		outcome, path, cost, visits, visit_count, error, started_at, finished_at
	FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*api.RunRecord, error) {
	var (
		rec        api.RunRecord
		outcome    string
		path       []byte
		visits     []byte
		errStr     sql.NullString
		startedAt  int64
		finishedAt int64
	)

	if err := row.Scan(
		&rec.ID, &rec.Algorithm, &rec.Rows, &rec.Columns,
		&rec.Start.X, &rec.Start.Y, &rec.End.X, &rec.End.Y,
		&outcome, &path, &rec.Cost, &visits, &rec.VisitCount, &errStr,
		&startedAt, &finishedAt,
	); err != nil {
		return nil, err
	}

	rec.Outcome = api.Outcome(outcome)
	rec.StartedAt = time.Unix(0, startedAt)
	if finishedAt != 0 {
		rec.FinishedAt = time.Unix(0, finishedAt)
	}

	var err error
	if rec.Path, err = DecodePath(path); err != nil {
		return nil, err
	}
	if rec.Visits, err = DecodeVisits(visits); err != nil {
		return nil, err
	}

	if errStr.Valid && errStr.String != "" {
		rec.Err = errors.New(errStr.String)
	}

	return &rec, nil
}

func (s *SQLiteRunStore) GetRun(id string) (*api.RunRecord, error) {
	row := s.db.QueryRow(selectRuns+` WHERE id = ?`, id)

	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, api.ErrRunNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteRunStore) ListRuns(filter RunFilter) ([]*api.RunRecord, error) {
	query := selectRuns
	var args []any
	var clauses []string

	if filter.Algorithm != "" {
		clauses = append(clauses, "algorithm = ?")
		args = append(args, filter.Algorithm)
	}
	if filter.Outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, string(filter.Outcome))
	}

	if len(clauses) > 0 {
		query = query + " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY started_at ASC, id ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*api.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
