// Package watch reports page identifiers whose index file changed on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a page must be quiet before it is reported.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a content root recursively. Editors and atomic writers
// produce bursts of events per save; each page is reported once per burst.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	root        string
	indexFile   string
	logger      *zap.Logger
	debounceMap map[string]time.Time
	debounceDur time.Duration
	events      chan string
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// New creates a watcher for root. Call Start to begin receiving events.
func New(root, indexFile string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		root:        filepath.Clean(root),
		indexFile:   indexFile,
		logger:      logger,
		debounceMap: make(map[string]time.Time),
		debounceDur: DefaultDebounce,
		events:      make(chan string, 16),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetDebounce changes the quiet period. It must be called before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounceDur = d
	}
}

// Events delivers changed page identifiers. It is closed when the watcher
// stops.
func (w *Watcher) Events() <-chan string { return w.events }

// Start adds every directory under the root and starts the event loop. It
// does not block. If Start fails the OS watches are released and the
// Watcher cannot be started again; Stop is then a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	// mu is held while the tree is added so a concurrent Stop waits for the
	// outcome. addTree only takes mu when mark is set.
	if err := w.addTree(w.root, false); err != nil {
		w.mu.Unlock()
		if cerr := w.watcher.Close(); cerr != nil {
			w.logger.Error("cannot close watcher", zap.Error(cerr))
		}
		return fmt.Errorf("cannot watch %s: %w", w.root, err)
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("watching content root", zap.String("root", w.root))

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the OS watches.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("cannot close watcher", zap.Error(err))
	}
}

// Done is closed once the event loop has exited.
func (w *Watcher) Done() <-chan struct{} { return w.doneCh }

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer close(w.events)

	tick := time.NewTicker(w.debounceDur / 4)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-tick.C:
			for _, page := range w.settled() {
				select {
				case w.events <- page:
				case <-ctx.Done():
					return
				case <-w.stopCh:
					return
				}
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return
	}

	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			if err := w.addTree(ev.Name, true); err != nil {
				w.logger.Warn("cannot watch new directory", zap.String("dir", ev.Name), zap.Error(err))
			}
			return
		}
	}

	page, ok := w.PageFor(ev.Name)
	if !ok {
		return
	}
	w.logger.Debug("page event", zap.String("page", page), zap.String("op", ev.Op.String()))
	w.touch(page)
}

// addTree watches dir and everything below it, skipping dot-directories.
// When mark is set, index files already present are reported; they were
// written before the watch existed.
func (w *Watcher) addTree(dir string, mark bool) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p != w.root {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			if mark {
				if page, ok := w.PageFor(p); ok {
					w.touch(page)
				}
			}
			return nil
		}
		if p != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(p)
	})
}

func (w *Watcher) touch(page string) {
	w.mu.Lock()
	w.debounceMap[page] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) settled() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now()
	var out []string
	for page, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			out = append(out, page)
			delete(w.debounceMap, page)
		}
	}
	return out
}

// PageFor maps a file path to the page identifier it belongs to. Only the
// index file of a directory below the root maps to a page.
func (w *Watcher) PageFor(name string) (string, bool) {
	if filepath.Base(name) != w.indexFile {
		return "", false
	}
	rel, err := filepath.Rel(w.root, filepath.Dir(name))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return "", false
		}
	}
	return rel, true
}
