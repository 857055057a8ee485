package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens or creates the history database.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// An in-memory database exists per connection.
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
	CREATE TABLE IF NOT EXISTS reloads (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		trigger TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		pages INTEGER NOT NULL,
		collisions INTEGER NOT NULL,
		hash TEXT,
		revision TEXT,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_reloads_started_at ON reloads(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores e. An empty ID is replaced by a new UUID.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reloads (id, trigger, started_at, duration_ns, pages, collisions, hash, revision, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Trigger, e.StartedAt.UnixNano(), int64(e.Duration), e.Pages, e.Collisions, e.Hash, e.Revision, e.Error,
	)
	if err != nil {
		return fmt.Errorf("insert reload: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A limit below one returns nothing.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	if limit < 1 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, trigger, started_at, duration_ns, pages, collisions, hash, revision, error
		 FROM reloads ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query reloads: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var startedAt, duration int64
		var hash, revision, errText sql.NullString
		if err := rows.Scan(&e.ID, &e.Trigger, &startedAt, &duration, &e.Pages, &e.Collisions, &hash, &revision, &errText); err != nil {
			return nil, fmt.Errorf("scan reload: %w", err)
		}
		e.StartedAt = time.Unix(0, startedAt)
		e.Duration = time.Duration(duration)
		e.Hash, e.Revision, e.Error = hash.String, revision.String, errText.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
