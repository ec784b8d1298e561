package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DebounceInterval coalesces the bursts of events a single Put produces.
const DebounceInterval = 100 * time.Millisecond

// Watcher reports changes to a single key's file.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *zap.Logger

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
}

// Watch calls onChange, from its own goroutine, whenever the file holding key
// is written or replaced. The watch is established before Watch returns.
func (s *Store) Watch(key string, onChange func()) (*Watcher, error) {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors and atomic writers replace the file.
	if err := fw.Add(s.dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.dir, err)
	}

	w := &Watcher{
		watcher: fw,
		path:    filepath.Clean(s.Path(key)),
		logger:  s.logger,
		done:    make(chan struct{}),
	}
	go w.run(onChange)
	return w, nil
}

func (w *Watcher) run(onChange func()) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.schedule(onChange)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watch error", zap.String("path", w.path), zap.Error(err))
		}
	}
}

func (w *Watcher) schedule(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(DebounceInterval, onChange)
}

// Close stops the watcher and waits for its goroutine to exit.
// A change notification already scheduled is cancelled.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}
