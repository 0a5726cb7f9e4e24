// Package watch reports on-disk changes to the record store file.
//
// The directory containing the file is watched rather than the file itself,
// since an update replaces the file with a new inode.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/passline/internal/core/ports/driven"
	"github.com/custodia-labs/passline/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.StoreWatcher = (*Watcher)(nil)

// Watcher reports changes to a single file.
type Watcher struct {
	path string

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	present bool
	now     func() time.Time
}

// New creates a watcher for the file at path. Nothing is watched until Watch
// is called.
func New(path string) *Watcher {
	return &Watcher{path: filepath.Clean(path), now: time.Now}
}

// Watch starts watching and delivers changes until ctx is cancelled or the
// watcher is closed. It may only be called once.
func (w *Watcher) Watch(ctx context.Context) (<-chan driven.StoreChange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw != nil {
		return nil, fmt.Errorf("watcher for %s already started", w.path)
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	w.fsw = fsw

	_, statErr := os.Stat(w.path)
	w.present = statErr == nil

	changes := make(chan driven.StoreChange, 16)
	go w.loop(ctx, fsw, changes)

	logger.Debug("Watching %s for changes", w.path)
	return changes, nil
}

// Close stops the watcher. The changes channel is closed shortly after.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw == nil {
		return nil
	}
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- driven.StoreChange) {
	defer close(changes)

	for {
		select {
		case <-ctx.Done():
			_ = fsw.Close()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			change, ok := w.handleEvent(event)
			if !ok {
				continue
			}
			select {
			case changes <- change:
			case <-ctx.Done():
				_ = fsw.Close()
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error for %s: %v", w.path, err)
		}
	}
}

// handleEvent maps a directory event to a change of the watched file.
// Events for other files, including update temporaries, are dropped.
func (w *Watcher) handleEvent(event fsnotify.Event) (driven.StoreChange, bool) {
	if filepath.Clean(event.Name) != w.path {
		return driven.StoreChange{}, false
	}

	var op driven.StoreChangeOp
	switch {
	case event.Has(fsnotify.Create):
		// A create over a file we already knew about is an atomic replace.
		op = driven.StoreChangeCreate
		if w.present {
			op = driven.StoreChangeReplace
		}
		w.present = true
	case event.Has(fsnotify.Write):
		op = driven.StoreChangeWrite
		w.present = true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = driven.StoreChangeRemove
		w.present = false
	default:
		return driven.StoreChange{}, false
	}

	return driven.StoreChange{Path: w.path, Op: op, At: w.now()}, true
}
