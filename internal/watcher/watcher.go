// Package watcher reorders source files again whenever they change on disk.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"deporder/internal/parse"
	"deporder/internal/paths"
)

// EventType represents the type of file system event
type EventType int

const (
	EventCreate EventType = iota
	EventModify
	EventDelete
	EventRename
)

// String returns a string representation of the event type
func (e EventType) String() string {
	switch e {
	case EventCreate:
		return "create"
	case EventModify:
		return "modify"
	case EventDelete:
		return "delete"
	case EventRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Event represents a file system event
type Event struct {
	Type      EventType
	Path      string
	Timestamp time.Time
}

// Handler receives the files changed during one quiet period. Calls never overlap.
type Handler func(ctx context.Context, files []string)

// Config contains watcher configuration
type Config struct {
	DebounceMs int
	Include    []string
	Ignore     []string
}

// Watcher watches a directory tree with fsnotify.
type Watcher struct {
	root    string
	config  Config
	logger  *slog.Logger
	handler Handler

	fs        *fsnotify.Watcher
	debouncer *BatchDebouncer

	mu      sync.Mutex
	runMu   sync.Mutex
	ctx     context.Context
	stopped bool
	wg      sync.WaitGroup
}

// New creates a watcher over root. Nothing is watched until Run.
func New(root string, config Config, logger *slog.Logger, handler Handler) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:    abs,
		config:  config,
		logger:  logger,
		handler: handler,
		fs:      fsw,
	}
	w.debouncer = NewBatchDebouncer(time.Duration(config.DebounceMs)*time.Millisecond, w.emit)
	return w, nil
}

// Run watches until ctx is canceled, then waits for a running handler to return.
func (w *Watcher) Run(ctx context.Context) error {
	w.mu.Lock()
	w.ctx = ctx
	w.mu.Unlock()
	defer w.shutdown()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	w.logger.Info("Watching for changes", "root", w.root, "debounceMs", w.config.DebounceMs)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", "error", err)
		}
	}
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	w.debouncer.Stop()
	if err := w.fs.Close(); err != nil {
		w.logger.Warn("Failed to close watcher", "error", err)
	}
	w.wg.Wait()
}

// addTree watches dir and every non-ignored directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Directories may vanish between the event and the walk.
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && paths.IsIgnored(w.rel(path), w.config.Ignore) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			return err
		}
		w.logger.Debug("Watching directory", "path", path)
		return nil
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	var eventType EventType
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = EventCreate
	case event.Op&fsnotify.Write != 0:
		eventType = EventModify
	case event.Op&fsnotify.Remove != 0:
		eventType = EventDelete
	case event.Op&fsnotify.Rename != 0:
		eventType = EventRename
	default:
		return
	}

	if eventType == EventCreate {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.relevant(event.Name) {
		return
	}
	w.logger.Debug("File event", "type", eventType.String(), "path", event.Name)
	w.debouncer.Add(Event{Type: eventType, Path: event.Name, Timestamp: time.Now()})
}

// relevant reports whether path is a source file selected by the include and ignore
// patterns.
func (w *Watcher) relevant(path string) bool {
	if !parse.Supported(path) || !paths.IsWithin(path, w.root) {
		return false
	}
	rel := w.rel(path)
	if paths.IsIgnored(rel, w.config.Ignore) {
		return false
	}
	return len(w.config.Include) == 0 || paths.IsIgnored(rel, w.config.Include)
}

func (w *Watcher) rel(path string) string {
	rel, err := paths.CanonicalizePath(path, w.root)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return rel
}

// emit runs the handler for the files that still exist after a batch.
func (w *Watcher) emit(events []Event) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	ctx := w.ctx
	w.wg.Add(1)
	w.mu.Unlock()
	defer w.wg.Done()

	var files []string
	for _, ev := range events {
		if ev.Type == EventDelete || ev.Type == EventRename {
			continue
		}
		if _, err := os.Stat(ev.Path); err == nil {
			files = append(files, ev.Path)
		}
	}
	if len(files) == 0 {
		return
	}

	w.runMu.Lock()
	defer w.runMu.Unlock()
	if ctx.Err() != nil {
		return
	}
	w.handler(ctx, files)
}
