package reload

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/content"
	"git.home.luguber.info/inful/docsite/internal/history"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/notify"
)

type stubIndexer struct {
	mu    sync.Mutex
	snaps []*content.Snapshot
	errs  []error
	calls int
}

func (s *stubIndexer) Index(context.Context) (*content.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return s.snaps[i], nil
}

type recordingPublisher struct {
	events []notify.IndexEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev notify.IndexEvent) error {
	p.events = append(p.events, ev)
	return p.err
}
func (p *recordingPublisher) Close() error { return nil }

type countingRecorder struct {
	metrics.NoopRecorder
	outcomes map[metrics.ReloadOutcome]int
	pages    int
}

func (c *countingRecorder) IncReloadOutcome(_ string, o metrics.ReloadOutcome) {
	if c.outcomes == nil {
		c.outcomes = map[metrics.ReloadOutcome]int{}
	}
	c.outcomes[o]++
}
func (c *countingRecorder) SetIndexedPages(n int) { c.pages = n }

func snapshotOf(t *testing.T, fsys fstest.MapFS) *content.Snapshot {
	t.Helper()
	s, err := content.NewIndexerFS(fsys).Index(context.Background())
	require.NoError(t, err)
	return s
}

func TestReload_SwapsAndPublishes(t *testing.T) {
	snap := snapshotOf(t, fstest.MapFS{"index.mdx": {Data: []byte("---\ntitle: Intro\n---\n")}})
	ix := &stubIndexer{snaps: []*content.Snapshot{snap}}
	holder := content.NewHolder(nil)
	store, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	pub := &recordingPublisher{}
	rec := &countingRecorder{}

	r := New(ix, holder, WithHistory(store), WithPublisher(pub), WithRecorder(rec))
	got, err := r.Reload(context.Background(), TriggerStartup)
	require.NoError(t, err)

	assert.Same(t, snap, got)
	assert.Same(t, snap, holder.Load())
	assert.Equal(t, 1, rec.outcomes[metrics.ReloadSuccess])
	assert.Equal(t, 1, rec.pages)

	require.Len(t, pub.events, 1)
	assert.Equal(t, snap.Hash(), pub.events[0].Hash)
	assert.Equal(t, TriggerStartup, pub.events[0].Trigger)

	entries, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, pub.events[0].ID, entries[0].ID)
	assert.Equal(t, 1, entries[0].Pages)
	assert.True(t, entries[0].Succeeded())
}

func TestReload_FailureKeepsPreviousSnapshot(t *testing.T) {
	first := snapshotOf(t, fstest.MapFS{"a.md": {Data: []byte("a")}})
	boom := errors.New("duplicate slug")
	ix := &stubIndexer{snaps: []*content.Snapshot{first, nil, nil}, errs: []error{nil, boom, context.Canceled}}
	holder := content.NewHolder(nil)
	store, err := history.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer store.Close()
	pub := &recordingPublisher{}
	rec := &countingRecorder{}
	r := New(ix, holder, WithHistory(store), WithPublisher(pub), WithRecorder(rec))

	_, err = r.Reload(context.Background(), TriggerStartup)
	require.NoError(t, err)

	_, err = r.Reload(context.Background(), TriggerWatch)
	require.ErrorIs(t, err, boom)
	assert.Same(t, first, holder.Load())

	_, err = r.Reload(context.Background(), TriggerSchedule)
	require.ErrorIs(t, err, context.Canceled)
	assert.Same(t, first, holder.Load())

	assert.Len(t, pub.events, 1, "only successful rebuilds are announced")
	assert.Equal(t, 1, rec.outcomes[metrics.ReloadFailed])
	assert.Equal(t, 1, rec.outcomes[metrics.ReloadCanceled])

	entries, err := store.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, context.Canceled.Error(), entries[0].Error)
	assert.Equal(t, "duplicate slug", entries[1].Error)
}

func TestReload_PublishErrorIsNotFatal(t *testing.T) {
	snap := snapshotOf(t, fstest.MapFS{})
	holder := content.NewHolder(nil)
	r := New(&stubIndexer{snaps: []*content.Snapshot{snap}}, holder,
		WithPublisher(&recordingPublisher{err: errors.New("nats down")}))

	_, err := r.Reload(context.Background(), TriggerManual)
	require.NoError(t, err)
	assert.Same(t, snap, holder.Load())
}

// blockingIndexer records how many Index calls overlap.
type blockingIndexer struct {
	mu      sync.Mutex
	active  int
	maxSeen int
}

func (b *blockingIndexer) Index(context.Context) (*content.Snapshot, error) {
	b.mu.Lock()
	b.active++
	if b.active > b.maxSeen {
		b.maxSeen = b.active
	}
	b.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	b.mu.Lock()
	b.active--
	b.mu.Unlock()
	return content.Empty(), nil
}

func TestReload_Serialized(t *testing.T) {
	ix := &blockingIndexer{}
	r := New(ix, content.NewHolder(nil))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Reload(context.Background(), TriggerManual)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ix.maxSeen)
}
