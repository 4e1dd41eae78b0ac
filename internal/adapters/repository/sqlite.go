package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/okian/gridbook/internal/domain/model"
	"github.com/okian/gridbook/pkg/logger"
	"github.com/okian/gridbook/pkg/metrics"

	_ "modernc.org/sqlite"
)

const resultsSchema = `
CREATE TABLE IF NOT EXISTS results (
	record_id     TEXT PRIMARY KEY,
	season        INTEGER NOT NULL,
	round         INTEGER NOT NULL,
	kind          TEXT NOT NULL,
	event_name    TEXT NOT NULL,
	event_date    INTEGER NOT NULL,
	standing      INTEGER NOT NULL,
	driver_number TEXT NOT NULL,
	driver_name   TEXT NOT NULL,
	team          TEXT NOT NULL,
	fastest_lap   TEXT NOT NULL,
	points        REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_results_event ON results(event_name);
CREATE INDEX IF NOT EXISTS idx_results_session ON results(season, round, kind);
`

const upsertResult = `
INSERT INTO results (
	record_id, season, round, kind, event_name, event_date,
	standing, driver_number, driver_name, team, fastest_lap, points
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(record_id) DO UPDATE SET
	season = excluded.season,
	round = excluded.round,
	kind = excluded.kind,
	event_name = excluded.event_name,
	event_date = excluded.event_date,
	standing = excluded.standing,
	driver_number = excluded.driver_number,
	driver_name = excluded.driver_name,
	team = excluded.team,
	fastest_lap = excluded.fastest_lap,
	points = excluded.points
`

// SQLiteStore is the durable Store. The ON CONFLICT upsert makes each
// write atomic per RecordID, so concurrent workers get last-write-wins
// without field interleaving.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

// OpenSQLite opens (and if necessary initializes) a SQLite store at path.
// Use ":memory:" for an ephemeral store.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", ErrStore)
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite db: %v", ErrStore, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping sqlite db: %v", ErrStore, err)
	}
	if _, err := db.Exec(resultsSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: create schema: %v", ErrStore, err)
	}
	return &SQLiteStore{db: db, log: logger.Get().Named("sqlite-store")}, nil
}

// Upsert writes rec, replacing any row with the same record_id.
func (s *SQLiteStore) Upsert(ctx context.Context, rec model.ResultRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpsertLatency(float64(time.Since(start).Milliseconds()))
	}()

	var eventDate int64
	if !rec.EventDate.IsZero() {
		eventDate = rec.EventDate.UTC().UnixMilli()
	}
	_, err := s.db.ExecContext(ctx, upsertResult,
		rec.RecordID,
		rec.Session.Season,
		rec.Session.Round,
		string(rec.Session.Kind),
		rec.EventName,
		eventDate,
		rec.Standing,
		rec.DriverNumber,
		rec.DriverName,
		rec.Team,
		rec.FastestLap,
		rec.Points,
	)
	if err != nil {
		metrics.RecordUpsertError()
		return fmt.Errorf("%w: upsert %s: %v", ErrStore, rec.RecordID, err)
	}
	metrics.RecordUpsert()
	return nil
}

// chronologicalOrder keeps snapshots stable across reads: calendar order
// of the session (sprint runs before the race within a round), then
// record id.
const chronologicalOrder = `ORDER BY season, round,
	CASE kind WHEN 'Sprint' THEN 0 ELSE 1 END, record_id`

// QueryAll returns every stored record in chronological order.
func (s *SQLiteStore) QueryAll(ctx context.Context) ([]model.ResultRecord, error) {
	return s.query(ctx, `SELECT record_id, season, round, kind, event_name, event_date,
		standing, driver_number, driver_name, team, fastest_lap, points FROM results `+
		chronologicalOrder)
}

// QueryByEvent returns the records for one event name in chronological
// order.
func (s *SQLiteStore) QueryByEvent(ctx context.Context, eventName string) ([]model.ResultRecord, error) {
	return s.query(ctx, `SELECT record_id, season, round, kind, event_name, event_date,
		standing, driver_number, driver_name, team, fastest_lap, points FROM results
		WHERE event_name = ? `+chronologicalOrder, eventName)
}

// Count returns the number of stored records. A failing count is logged
// and reported so a broken store cannot pose as an empty one.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&n); err != nil {
		s.log.Error(ctx, "count failed", logger.Error(err))
		metrics.RecordErrorByComponent("store", "count_error")
		return 0
	}
	return n
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]model.ResultRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrStore, err)
	}
	defer rows.Close()

	var out []model.ResultRecord
	for rows.Next() {
		var (
			rec       model.ResultRecord
			kind      string
			eventDate int64
		)
		if err := rows.Scan(
			&rec.RecordID,
			&rec.Session.Season,
			&rec.Session.Round,
			&kind,
			&rec.EventName,
			&eventDate,
			&rec.Standing,
			&rec.DriverNumber,
			&rec.DriverName,
			&rec.Team,
			&rec.FastestLap,
			&rec.Points,
		); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", ErrStore, err)
		}
		rec.Session.Kind = model.SessionKind(kind)
		if eventDate != 0 {
			rec.EventDate = time.UnixMilli(eventDate).UTC()
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", ErrStore, err)
	}
	return out, nil
}
