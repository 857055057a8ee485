// Package notify announces rebuilt indexes to other services.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// DefaultSubject is the NATS subject index events are published on.
const DefaultSubject = "docsite.index.rebuilt"

// IndexEvent describes a snapshot that was just swapped in.
type IndexEvent struct {
	ID        string    `json:"id"`
	Trigger   string    `json:"trigger"`
	Hash      string    `json:"hash"`
	Revision  string    `json:"revision,omitempty"`
	Pages     int       `json:"pages"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers index events.
type Publisher interface {
	Publish(ctx context.Context, ev IndexEvent) error
	Close() error
}

// Noop drops every event.
type Noop struct{}

func (Noop) Publish(context.Context, IndexEvent) error { return nil }
func (Noop) Close() error                              { return nil }

// conn is the subset of *nats.Conn used for publishing.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Drain() error
}

// NATSPublisher publishes events as JSON with core NATS.
type NATSPublisher struct {
	conn    conn
	subject string
}

// Options configures a NATS publisher.
type Options struct {
	URL     string
	Subject string
	Timeout time.Duration
}

// New returns a NATS publisher, or Noop when no URL is configured.
func New(opts Options) (Publisher, error) {
	if opts.URL == "" {
		return Noop{}, nil
	}
	return NewNATSPublisher(opts)
}

// NewNATSPublisher connects to the NATS server at opts.URL.
func NewNATSPublisher(opts Options) (*NATSPublisher, error) {
	natsOpts := []nats.Option{nats.Name("docsite")}
	if opts.Timeout > 0 {
		natsOpts = append(natsOpts, nats.Timeout(opts.Timeout))
	}
	nc, err := nats.Connect(opts.URL, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS publisher connected", logfields.URL(opts.URL), slog.String("subject", subjectOrDefault(opts.Subject)))
	return newNATSPublisher(nc, opts.Subject), nil
}

func newNATSPublisher(c conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: c, subject: subjectOrDefault(subject)}
}

func subjectOrDefault(s string) string {
	if s == "" {
		return DefaultSubject
	}
	return s
}

// Publish sends ev and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, ev IndexEvent) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	slog.Debug("Published index event", logfields.Hash(ev.Hash), logfields.Count(ev.Pages))
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
