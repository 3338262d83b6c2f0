package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (or creates) the run database at dbPath. Use
// ":memory:" for a throwaway in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A pooled second connection would see a separate ":memory:" database,
	// and concurrent writers on one file would hit SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		warnings INTEGER NOT NULL,
		examples INTEGER NOT NULL,
		manifests INTEGER NOT NULL,
		report BLOB
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores one run record.
func (s *SQLiteStore) Append(ctx context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, project, started_at, finished_at, outcome, warnings, examples, manifests, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Project, rec.StartedAt.Unix(), rec.FinishedAt.Unix(),
		rec.Outcome, rec.Warnings, rec.Examples, rec.Manifests, rec.Report,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs ordered newest first. limit <= 0 means
// everything.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, project, started_at, finished_at, outcome, warnings, examples, manifests, report
		 FROM runs ORDER BY started_at DESC, id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+" LIMIT ?", limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedUnix, finishedUnix int64

		err := rows.Scan(&rec.ID, &rec.Project, &startedUnix, &finishedUnix,
			&rec.Outcome, &rec.Warnings, &rec.Examples, &rec.Manifests, &rec.Report)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt = time.Unix(startedUnix, 0)
		rec.FinishedAt = time.Unix(finishedUnix, 0)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
