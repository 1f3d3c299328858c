// Package watcher reports external changes to the client data file.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/clientbook/internal/log"
	"github.com/zjrosen/clientbook/internal/pubsub"
)

// Watcher monitors the data file and publishes a debounced event on its
// broker after each burst of changes. The payload is the watched path.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	names     map[string]struct{}
	debounce  time.Duration
	broker    *pubsub.Broker[string]
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Path is the data file. Companion files named Path plus a suffix in
	// Suffixes (e.g. "-wal") count as the same file.
	Path        string
	Suffixes    []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		Suffixes:    []string{"-wal"},
		DebounceDur: 250 * time.Millisecond,
	}
}

// New creates a watcher. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	base := filepath.Base(cfg.Path)
	names := map[string]struct{}{base: {}}
	for _, suffix := range cfg.Suffixes {
		names[base+suffix] = struct{}{}
	}

	return &Watcher{
		fsWatcher: fsw,
		path:      cfg.Path,
		names:     names,
		debounce:  cfg.DebounceDur,
		broker:    pubsub.NewBroker[string](),
		done:      make(chan struct{}),
	}, nil
}

// Broker returns the broker events are published on.
func (w *Watcher) Broker() *pubsub.Broker[string] {
	return w.broker
}

// Start watches the directory containing the data file, creating it if
// needed. The file itself need not exist yet.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", dir, err)
	}

	log.Debug(log.CatWatcher, "Watching data file", "path", w.path)
	go w.loop()
	return nil
}

// Stop terminates the watcher and closes the broker.
func (w *Watcher) Stop() error {
	close(w.done)
	w.broker.Close()
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending pubsub.EventType
	)
	fire := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			kind, relevant := w.classify(event)
			if !relevant {
				continue
			}
			pending = kind
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-fire():
			if pending != "" {
				log.Debug(log.CatWatcher, "Data file changed", "path", w.path, "event", pending)
				w.broker.Publish(pending, w.path)
				pending = ""
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watcher error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// classify maps an fsnotify event on the data file to the event published
// for it. The last event in a burst wins.
func (w *Watcher) classify(event fsnotify.Event) (pubsub.EventType, bool) {
	if _, ok := w.names[filepath.Base(event.Name)]; !ok {
		return "", false
	}
	switch {
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		return pubsub.ChangedEvent, true
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		if filepath.Base(event.Name) != filepath.Base(w.path) {
			return "", false
		}
		return pubsub.RemovedEvent, true
	default:
		return "", false
	}
}
