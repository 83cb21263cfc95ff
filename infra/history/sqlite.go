package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	corehistory "github.com/kilianp07/footprint/core/history"
)

// SQLiteStore persists snapshots to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS snapshots (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL,
        ts INTEGER NOT NULL,
        source TEXT NOT NULL,
        total_weekly REAL NOT NULL,
        record TEXT NOT NULL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts the snapshot. Older rows are kept for auditing.
func (s *SQLiteStore) Save(ctx context.Context, snap corehistory.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, ts, source, total_weekly, record) VALUES (?, ?, ?, ?, ?)`,
		snap.ID, snap.Timestamp.UnixNano(), string(snap.Source), snap.Result.Summary.TotalWeeklyKgCO2, string(b))
	return err
}

// LoadLast returns the most recently inserted snapshot.
func (s *SQLiteStore) LoadLast(ctx context.Context) (corehistory.Snapshot, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM snapshots ORDER BY seq DESC LIMIT 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return corehistory.Snapshot{}, false, nil
	}
	if err != nil {
		return corehistory.Snapshot{}, false, err
	}
	var snap corehistory.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return corehistory.Snapshot{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, true, nil
}

// Count returns the number of stored snapshots.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
