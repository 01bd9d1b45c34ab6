// Package watching normalizes filesystem events for the configured scan
// roots and dispatches them to a reload controller on a dedicated
// background worker, coalescing bursts of events for the same path.
package watching

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/go-autoload/autoload/internal/logging"
)

// Kind classifies a normalized filesystem event.
type Kind int

const (
	// Created indicates a new file or directory.
	Created Kind = iota
	// Modified indicates an existing file was written.
	Modified
	// Deleted indicates a file or directory was removed.
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is a normalized filesystem change notification.
type Event struct {
	Kind Kind
	Path string
}

// Dispatcher receives normalized events. The reload controller implements
// this interface.
type Dispatcher interface {
	Dispatch(Event)
}

const (
	// coalescingWindow is the time window over which events for the same
	// path are merged into one, mirroring the teacher's own event
	// coalescing window for recursive watches.
	coalescingWindow = 10 * time.Millisecond
	// maximumPendingPaths bounds how many distinct paths can be pending
	// coalescing at once, as a defensive limit against unbounded growth
	// during a massive burst (e.g. a `git checkout` touching thousands of
	// files at once).
	maximumPendingPaths = 10 * 1024
)

// ErrTooManyPendingPaths indicates that a coalescing window accumulated more
// distinct paths than maximumPendingPaths; the watcher then dispatches every
// pending event immediately, before the window ends, rather than growing
// unboundedly.
var ErrTooManyPendingPaths = errors.New("watching: too many pending paths")

// Watcher watches a set of root directories for changes to recognized
// source files and dispatches normalized, coalesced events.
type Watcher struct {
	logger     *logging.Logger
	fsnotify   *fsnotify.Watcher
	dispatcher Dispatcher
	recognized func(path string) bool

	pendingLock sync.Mutex
	pending     map[string]Kind
	timer       *time.Timer

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Watcher over the given roots. recognized filters which
// paths should produce events at all (e.g. only recognized source
// extensions and non-ignored basenames); if nil, every path is recognized.
func New(roots []string, recognized func(path string) bool, dispatcher Dispatcher, logger *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if recognized == nil {
		recognized = func(string) bool { return true }
	}

	w := &Watcher{
		logger:     logger,
		fsnotify:   fsw,
		dispatcher: dispatcher,
		recognized: recognized,
		pending:    make(map[string]Kind),
		done:       make(chan struct{}),
	}

	for _, root := range roots {
		if err := w.addRecursive(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx)

	return w, nil
}

// addRecursive adds root and every directory beneath it to the underlying
// watch, since fsnotify only watches the directories it is explicitly given.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // ScanFailure-equivalent: skip unreadable subtrees.
		}
		if d.IsDir() {
			return w.fsnotify.Add(path)
		}
		return nil
	})
}

// run is the watcher's background worker loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			w.handleRaw(event)
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			// WatchFailure: logged, never fatal.
			w.logger.Warn(err)
		}
	}
}

func (w *Watcher) handleRaw(event fsnotify.Event) {
	if !w.recognized(event.Name) {
		return
	}

	var kind Kind
	switch {
	case event.Op&fsnotify.Create != 0:
		kind = Created
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
		}
	case event.Op&fsnotify.Write != 0:
		kind = Modified
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		kind = Deleted
	default:
		return
	}

	w.coalesce(event.Name, kind)
}

// coalesce merges kind into any pending event for path and (re)arms the
// coalescing timer. A create followed within the window by a modify still
// reports as a single created event with the window's flush.
func (w *Watcher) coalesce(path string, kind Kind) {
	w.pendingLock.Lock()
	defer w.pendingLock.Unlock()

	if _, exists := w.pending[path]; !exists && len(w.pending) >= maximumPendingPaths {
		w.logger.Warn(ErrTooManyPendingPaths)
		w.flushLocked()
	}

	if existing, ok := w.pending[path]; ok {
		// A deletion always wins over an earlier creation/modification
		// within the same window; otherwise keep the first-seen kind.
		if kind == Deleted {
			w.pending[path] = Deleted
		} else if existing == Deleted {
			// leave as deleted
		}
	} else {
		w.pending[path] = kind
	}

	if w.timer == nil {
		w.timer = time.AfterFunc(coalescingWindow, w.flush)
	} else {
		w.timer.Reset(coalescingWindow)
	}
}

func (w *Watcher) flush() {
	w.pendingLock.Lock()
	w.flushLocked()
	w.pendingLock.Unlock()
}

func (w *Watcher) flushLocked() {
	for path, kind := range w.pending {
		w.dispatcher.Dispatch(Event{Kind: kind, Path: path})
	}
	w.pending = make(map[string]Kind)
	w.timer = nil
}

// Stop terminates the watcher's background worker and waits for it to
// exit, per the engine's synchronous teardown contract.
func (w *Watcher) Stop() error {
	w.cancel()
	<-w.done
	w.flush()
	return w.fsnotify.Close()
}
