// Package reload rebuilds the content index and swaps the served snapshot,
// on demand, on filesystem changes and on a schedule.
package reload

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/notify"
)

// Reload triggers.
const (
	TriggerStartup  = "startup"
	TriggerWatch    = "watch"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// Indexer builds a snapshot of the content root.
type Indexer interface {
	Index(ctx context.Context) (*content.Snapshot, error)
}

// Reloader serializes rebuilds and publishes their results.
type Reloader struct {
	mu        sync.Mutex
	indexer   Indexer
	holder    *content.Holder
	history   history.Store
	publisher notify.Publisher
	recorder  metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
}

// Option customizes a Reloader.
type Option func(*Reloader)

// WithHistory records every reload attempt in s.
func WithHistory(s history.Store) Option {
	return func(r *Reloader) {
		if s != nil {
			r.history = s
		}
	}
}

// WithPublisher announces successful reloads through p.
func WithPublisher(p notify.Publisher) Option {
	return func(r *Reloader) {
		if p != nil {
			r.publisher = p
		}
	}
}

// WithRecorder reports reload metrics to m.
func WithRecorder(m metrics.Recorder) Option {
	return func(r *Reloader) {
		if m != nil {
			r.recorder = m
		}
	}
}

// WithLogger sets the logger used for reload outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reloader) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a Reloader storing every successful snapshot in holder.
func New(ix Indexer, holder *content.Holder, opts ...Option) *Reloader {
	r := &Reloader{
		indexer:   ix,
		holder:    holder,
		history:   history.Noop{},
		publisher: notify.Noop{},
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Reload rebuilds the index and swaps it in. On failure the previously served
// snapshot stays in place and the error is returned.
func (r *Reloader) Reload(ctx context.Context, trigger string) (*content.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	start := r.now()
	snap, err := r.indexer.Index(ctx)
	elapsed := r.now().Sub(start)
	r.recorder.ObserveReloadDuration(trigger, elapsed)

	entry := history.Entry{ID: id, Trigger: trigger, StartedAt: start, Duration: elapsed}
	if err != nil {
		outcome := metrics.ReloadFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			outcome = metrics.ReloadCanceled
		}
		r.recorder.IncReloadOutcome(trigger, outcome)
		entry.Error = err.Error()
		r.record(ctx, entry)
		r.logger.Warn("Content index rebuild failed; keeping previous snapshot",
			logfields.Trigger(trigger),
			logfields.Elapsed(elapsed),
			logfields.Error(err))
		return nil, err
	}

	r.holder.Store(snap)
	r.recorder.IncReloadOutcome(trigger, metrics.ReloadSuccess)
	r.recorder.SetIndexedPages(snap.Len())
	r.recorder.SetSlugCollisions(len(snap.Collisions()))

	entry.Pages = snap.Len()
	entry.Collisions = len(snap.Collisions())
	entry.Hash = snap.Hash()
	entry.Revision = snap.Revision()
	r.record(ctx, entry)

	ev := notify.IndexEvent{
		ID:        id,
		Trigger:   trigger,
		Hash:      snap.Hash(),
		Revision:  snap.Revision(),
		Pages:     snap.Len(),
		Timestamp: snap.BuiltAt(),
	}
	if perr := r.publisher.Publish(ctx, ev); perr != nil {
		r.logger.Warn("Failed to publish index event", logfields.Error(perr))
	}

	r.logger.Info("Content index rebuilt",
		logfields.Trigger(trigger),
		logfields.Count(snap.Len()),
		logfields.Hash(snap.Hash()),
		logfields.Elapsed(elapsed))
	return snap, nil
}

func (r *Reloader) record(ctx context.Context, e history.Entry) {
	if err := r.history.Record(context.WithoutCancel(ctx), e); err != nil {
		r.logger.Warn("Failed to record reload history", logfields.Error(err))
	}
}
