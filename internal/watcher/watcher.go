// Package watcher reports on-disk changes to open documents.
//
// A FileWatcher watches the parent directory of every file it is given and
// filters events down to those files, so editors that save by writing a new
// file and renaming it over the old one are still observed. Bursts of events
// for the same file are coalesced into one delivery after a debounce delay.
package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Errors returned by FileWatcher.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
	ErrIsDirectory     = errors.New("path is a directory")
)

// DefaultDebounce is the delay used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Op describes a set of file operations.
type Op uint32

// File operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Has reports whether op contains every bit of other.
func (op Op) Has(other Op) bool {
	return op&other == other
}

// String returns the operations joined with "|".
func (op Op) String() string {
	if op == 0 {
		return "none"
	}
	var parts []string
	for _, n := range []struct {
		op   Op
		name string
	}{
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{OpChmod, "chmod"},
	} {
		if op.Has(n.op) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// Event is a debounced change to a watched file.
type Event struct {
	Path      string
	Op        Op
	Timestamp time.Time
}

// Changed reports whether the file content may differ from before.
func (e Event) Changed() bool {
	return e.Op.Has(OpWrite) || e.Op.Has(OpCreate) || e.Op.Has(OpRename)
}

// Removed reports whether the file is gone.
func (e Event) Removed() bool {
	return e.Op.Has(OpRemove)
}

// Handler receives debounced events. It is called from a timer goroutine.
type Handler func(Event)

// Option configures a FileWatcher.
type Option func(*FileWatcher)

// WithDebounce sets the coalescing delay.
func WithDebounce(d time.Duration) Option {
	return func(w *FileWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *FileWatcher) {
		if logger != nil {
			w.logger = logger.Named("watcher")
		}
	}
}

// WithErrorHandler sets a callback for errors reported by the OS watcher.
func WithErrorHandler(fn func(error)) Option {
	return func(w *FileWatcher) {
		w.onError = fn
	}
}

// pendingEvent is an event waiting for its debounce timer.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// FileWatcher watches individual files for changes.
type FileWatcher struct {
	mu sync.Mutex

	watcher  *fsnotify.Watcher
	handler  Handler
	onError  func(error)
	debounce time.Duration
	logger   *zap.Logger

	// files maps watched absolute file paths to their directory.
	files map[string]string
	// dirs counts watched files per directory.
	dirs    map[string]int
	pending map[string]*pendingEvent

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New creates a FileWatcher delivering events to handler.
func New(handler Handler, opts ...Option) (*FileWatcher, error) {
	if handler == nil {
		return nil, errors.New("watcher: nil handler")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &FileWatcher{
		watcher:  fsw,
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		files:    make(map[string]string),
		dirs:     make(map[string]int),
		pending:  make(map[string]*pendingEvent),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching a file.
func (w *FileWatcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrPathNotExist
		}
		return err
	}
	if info.IsDir() {
		return ErrIsDirectory
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if _, ok := w.files[absPath]; ok {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.watcher.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = dir

	w.logger.Debug("watching file", zap.String("path", absPath))
	return nil
}

// Unwatch stops watching a file.
func (w *FileWatcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	dir, ok := w.files[absPath]
	if !ok {
		return ErrNotWatching
	}

	delete(w.files, absPath)
	if p, ok := w.pending[absPath]; ok {
		p.timer.Stop()
		delete(w.pending, absPath)
	}

	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if err := w.watcher.Remove(dir); err != nil {
			return err
		}
	}
	return nil
}

// IsWatching reports whether path is being watched.
func (w *FileWatcher) IsWatching(path string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.files[absPath]
	return ok
}

// WatchedPaths returns the watched files sorted by path.
func (w *FileWatcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Close stops the watcher. Pending events are discarded.
func (w *FileWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.closedWg.Wait()
	return w.watcher.Close()
}

// processLoop handles incoming fsnotify events.
func (w *FileWatcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

// handleFSEvent filters an fsnotify event and schedules its delivery.
func (w *FileWatcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	absPath, err := filepath.Abs(fsEvent.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if _, ok := w.files[absPath]; !ok {
		return
	}

	now := time.Now()
	if p, ok := w.pending[absPath]; ok {
		p.event.Op |= op
		p.event.Timestamp = now
		p.timer.Reset(w.debounce)
		return
	}

	p := &pendingEvent{event: Event{Path: absPath, Op: op, Timestamp: now}}
	p.timer = time.AfterFunc(w.debounce, func() {
		w.fire(absPath)
	})
	w.pending[absPath] = p
}

// fire delivers a pending event.
func (w *FileWatcher) fire(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if !ok || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, path)
	event := p.event
	w.mu.Unlock()

	w.logger.Debug("file changed",
		zap.String("path", event.Path),
		zap.Stringer("op", event.Op),
	)
	w.handler(event)
}

// convertOp converts fsnotify.Op to Op.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	if fsOp.Has(fsnotify.Chmod) {
		op |= OpChmod
	}
	return op
}
