// Package watch regenerates per-document outputs when documents change on
// disk.
//
// The directories holding the documents are watched rather than the files,
// so editors that save by renaming a temporary file are seen. Changes are
// debounced per document and callbacks run one at a time.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/mdimages/internal/logfields"
	"git.home.luguber.info/inful/mdimages/internal/util/sets"
)

// DefaultDebounce is the quiet period after the last event before a document
// is regenerated.
const DefaultDebounce = 300 * time.Millisecond

// Callback regenerates the outputs of one document. path is the document
// path as passed to New.
type Callback func(ctx context.Context, path string) error

// Watcher watches a fixed set of documents.
type Watcher struct {
	fsw      *fsnotify.Watcher
	docs     map[string]string // absolute path -> path as given
	callback Callback
	debounce time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New starts watching the directories of paths. Call Close when Run is not
// used.
func New(paths []string, cb Callback, opts ...Option) (*Watcher, error) {
	w := &Watcher{
		docs:     make(map[string]string, len(paths)),
		callback: cb,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
		timers:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := sets.New[string]()
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		w.docs[abs] = p
		dirs.Add(filepath.Dir(abs))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for _, dir := range sets.Sorted(dirs) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.fsw = fsw
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.mu.Unlock()
	return w.fsw.Close()
}

// Run dispatches change events until ctx is done, then closes the watcher.
// Callback errors are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.Close() }()

	changed := make(chan string, len(w.docs))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, changed)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", logfields.Error(err))
		case path := <-changed:
			w.logger.Info("document changed; regenerating", logfields.Document(path))
			if err := w.callback(ctx, path); err != nil {
				w.logger.Error("regeneration failed", logfields.Document(path), logfields.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event, changed chan<- string) {
	if shouldIgnoreEvent(ev.Name) || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	path, ok := w.docs[abs]
	if !ok {
		return
	}
	w.logger.Debug("file change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))

	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		select {
		case changed <- path:
		default:
		}
	})
}

// shouldIgnoreEvent reports editor swap, backup and hidden files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	}
	return false
}
