package settings

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a Store when its file changes on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	store    *Store
	onChange func(Settings)
	logger   *slog.Logger
	done     chan struct{}
	mu       sync.Mutex
	running  bool
	stopped  bool
	stopOnce sync.Once
	stopErr  error
}

// NewWatcher creates a watcher for store's file. onChange, if set, is called
// from the watcher goroutine after every successful reload.
func NewWatcher(store *Store, onChange func(Settings), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  w,
		store:    store,
		onChange: onChange,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so that atomic
// replacements are seen.
func (w *Watcher) Start() error {
	if w.store.Path() == "" {
		return errors.New("settings store has no backing file")
	}
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return errors.New("settings watcher is stopped")
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.store.Path())); err != nil {
		return err
	}

	go w.watch()
	return nil
}

func (w *Watcher) watch() {
	filename := filepath.Base(w.store.Path())

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			before := w.store.Current()
			if err := w.store.Reload(); err != nil {
				w.logger.Warn("failed to reload settings", "error", err)
				continue
			}
			after := w.store.Current()
			if after == before {
				continue
			}
			w.logger.Info("settings reloaded", "enabled", after.Enabled, "mode", string(after.Mode))
			if w.onChange != nil {
				w.onChange(after)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}

// Stop stops the watcher and releases its descriptor, whether or not Start
// succeeded. Later calls return the first result.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.running = false
		w.stopped = true
		w.mu.Unlock()

		close(w.done)
		w.stopErr = w.watcher.Close()
	})
	return w.stopErr
}
