package reload

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, root string, fn func(context.Context)) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatcher(root, 50*time.Millisecond, fn)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher did not become ready")
	}
	return cancel, done
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	root := t.TempDir()
	var rebuilds atomic.Int32
	cancel, done := startWatcher(t, root, func(context.Context) { rebuilds.Add(1) })

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(root, "page.md"), []byte{byte('a' + i)}, 0o600))
	}

	require.Eventually(t, func() bool { return rebuilds.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), rebuilds.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	var rebuilds atomic.Int32
	cancel, done := startWatcher(t, root, func(context.Context) { rebuilds.Add(1) })

	sub := filepath.Join(root, "usage")
	require.NoError(t, os.Mkdir(sub, 0o750))
	require.Eventually(t, func() bool { return rebuilds.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	before := rebuilds.Load()
	require.NoError(t, os.WriteFile(filepath.Join(sub, "cli.mdx"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return rebuilds.Load() > before }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_WaitsForMissingRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "docs")
	var rebuilds atomic.Int32
	cancel, done := startWatcher(t, root, func(context.Context) { rebuilds.Add(1) })

	require.NoError(t, os.WriteFile(filepath.Join(parent, "sibling.md"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), rebuilds.Load(), "changes beside the root are ignored")

	require.NoError(t, os.Mkdir(root, 0o750))
	require.Eventually(t, func() bool { return rebuilds.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)

	before := rebuilds.Load()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.md"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return rebuilds.Load() > before }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_IgnoresHiddenAndSwapFiles(t *testing.T) {
	root := t.TempDir()
	var rebuilds atomic.Int32
	cancel, done := startWatcher(t, root, func(context.Context) { rebuilds.Add(1) })

	require.NoError(t, os.WriteFile(filepath.Join(root, ".page.md.swp"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "page.md~"), []byte("x"), 0o600))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), rebuilds.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestShouldIgnoreEvent(t *testing.T) {
	for _, p := range []string{"/d/.hidden.md", "/d/page.md~", "/d/page.md.swp", "/d/#page.md#", "/d/Thumbs.db"} {
		assert.True(t, shouldIgnoreEvent(p), p)
	}
	for _, p := range []string{"/d/page.md", "/d/usage", "/d/index.mdx"} {
		assert.False(t, shouldIgnoreEvent(p), p)
	}
}
