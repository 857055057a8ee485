package reload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild runs.
const DefaultDebounce = 300 * time.Millisecond

// Watcher rebuilds the index when files under the content root change.
// Bursts of events are debounced into one rebuild; changes arriving during a
// rebuild queue at most one more.
type Watcher struct {
	root     string
	debounce time.Duration
	rebuild  func(ctx context.Context)
	ready    chan struct{}
}

// NewWatcher watches root recursively and calls rebuild after changes settle.
func NewWatcher(root string, debounce time.Duration, rebuild func(ctx context.Context)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: filepath.Clean(root), debounce: debounce, rebuild: rebuild, ready: make(chan struct{})}
}

// Ready is closed once every existing directory is being watched.
// A missing root is awaited through its parent directory.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run watches until ctx is done. It returns after the rebuild worker exits.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()
	awaiting := w.watchRoot(fw)
	close(w.ready)

	rebuildReq := make(chan struct{}, 1)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				w.rebuild(ctx)
			}
		}
	}()
	defer wg.Wait()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var settled <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if awaiting != "" {
				if !w.rootCreated(fw, ev) {
					continue
				}
				_ = fw.Remove(awaiting)
				awaiting = ""
			} else if !handleFileEvent(fw, ev) {
				continue
			}
			timer.Reset(w.debounce)
			settled = timer.C
		case <-settled:
			settled = nil
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

// watchRoot adds the content root to fw. When the root does not exist yet its
// parent is watched instead and returned, so creating the root can be noticed.
func (w *Watcher) watchRoot(fw *fsnotify.Watcher) string {
	if fi, err := os.Stat(w.root); err == nil && fi.IsDir() {
		addDirsRecursive(fw, w.root)
		slog.Info("Watching content root for changes", logfields.Path(w.root))
		return ""
	}
	parent := filepath.Dir(w.root)
	if err := fw.Add(parent); err != nil {
		slog.Warn("Content root missing and its parent cannot be watched; changes will not trigger rebuilds",
			logfields.Path(w.root), logfields.Error(err))
		return ""
	}
	slog.Warn("Content root missing; waiting for it to be created", logfields.Path(w.root))
	return parent
}

// rootCreated reports whether ev created the awaited content root, and starts
// watching it when it did.
func (w *Watcher) rootCreated(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.root || !ev.Has(fsnotify.Create) {
		return false
	}
	if fi, err := os.Stat(w.root); err != nil || !fi.IsDir() {
		return false
	}
	addDirsRecursive(fw, w.root)
	slog.Info("Content root created; watching for changes", logfields.Path(w.root))
	return true
}

// handleFileEvent reports whether ev should trigger a rebuild. Newly created
// directories are added to the watch.
func handleFileEvent(fw *fsnotify.Watcher, ev fsnotify.Event) bool {
	if shouldIgnoreEvent(ev.Name) {
		return false
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	return true
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp and swap files.
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db"
}
