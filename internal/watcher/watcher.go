package watcher

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// Event represents a change to the watched file.
type Event struct {
	Path string
	Op   fsnotify.Op
}

// Removed reports whether the file went away (deleted or renamed).
func (e Event) Removed() bool {
	return e.Op&(fsnotify.Remove|fsnotify.Rename) != 0
}

// Created reports whether the file (re)appeared.
func (e Event) Created() bool {
	return e.Op&fsnotify.Create != 0
}

// Watcher reports removal and re-creation of a single file. It watches the
// parent directory so the watch survives the file being deleted.
type Watcher struct {
	fsw    *fsnotify.Watcher
	log    logrus.FieldLogger
	path   string
	Events chan Event
}

// New creates a Watcher for path.
func New(path string, log logrus.FieldLogger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		fsw:    fsw,
		log:    log,
		path:   abs,
		Events: make(chan Event, 16),
	}, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Start forwards removal and creation events for the file. It blocks until
// the context is cancelled, then closes Events.
func (w *Watcher) Start(ctx context.Context) {
	defer w.fsw.Close()
	defer close(w.Events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			e := Event{Path: ev.Name, Op: ev.Op}
			if !e.Removed() && !e.Created() {
				continue
			}
			select {
			case w.Events <- e:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("watcher error")
		}
	}
}
