// Package history keeps a durable record of index rebuilds.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by a store after Close.
var ErrClosed = errors.New("history store is closed")

// Entry is one index rebuild.
type Entry struct {
	ID         string        `json:"id"`
	Trigger    string        `json:"trigger"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Pages      int           `json:"pages"`
	Collisions int           `json:"collisions"`
	Hash       string        `json:"hash,omitempty"`
	Revision   string        `json:"revision,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Succeeded reports whether the rebuild produced a snapshot.
func (e Entry) Succeeded() bool { return e.Error == "" }

// Store records rebuilds and lists the most recent ones, newest first.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}

// Open returns a SQLite store at path, or a Noop store when path is empty.
func Open(path string) (Store, error) {
	if path == "" {
		return Noop{}, nil
	}
	return NewSQLiteStore(path)
}

// Noop discards every entry.
type Noop struct{}

func (Noop) Record(context.Context, Entry) error          { return nil }
func (Noop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
func (Noop) Close() error                                 { return nil }
