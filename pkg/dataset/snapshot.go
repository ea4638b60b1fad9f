package dataset

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned by Get when a source has never been fetched.
var ErrNoSnapshot = errors.New("no snapshot for source")

// SnapshotStore keeps the last downloaded body of each source spreadsheet in
// SQLite so restarts inside the cache TTL do not re-hit the upstream links.
type SnapshotStore struct {
	db *sql.DB
}

// OpenSnapshotStore opens (or creates) the SQLite database at path and
// ensures the snapshots table exists.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}

	const ddl = `CREATE TABLE IF NOT EXISTS snapshots (
		source     TEXT PRIMARY KEY,
		url        TEXT NOT NULL,
		body       BLOB NOT NULL,
		fetched_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}

	return &SnapshotStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}

// Put stores (or replaces) the body for a source.
func (s *SnapshotStore) Put(source, url string, body []byte) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO snapshots (source, url, body, fetched_at) VALUES (?, ?, ?, ?)`,
		source, url, body, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("put snapshot %s: %w", source, err)
	}
	return nil
}

// Get returns the stored body and fetch time for a source.
// Returns ErrNoSnapshot when the source has never been stored.
func (s *SnapshotStore) Get(source string) ([]byte, time.Time, error) {
	var body []byte
	var fetchedAt int64
	err := s.db.QueryRow(
		`SELECT body, fetched_at FROM snapshots WHERE source = ?`, source,
	).Scan(&body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("get snapshot %s: %w", source, err)
	}
	return body, time.Unix(fetchedAt, 0), nil
}
