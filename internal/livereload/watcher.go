package livereload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bassista/go_preview/internal/apperror"
	"github.com/bassista/go_preview/internal/logger"
	"github.com/fsnotify/fsnotify"
)

// Broadcaster receives one call per accepted change.
type Broadcaster interface {
	Broadcast() int
}

// Watcher observes a directory tree and asks the Broadcaster to reload
// clients on every create, write, remove or rename under it.
type Watcher struct {
	root     string
	debounce time.Duration
	target   Broadcaster

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher builds a watcher for root. A zero debounce broadcasts once per
// event; a positive one collapses bursts into a single broadcast.
func NewWatcher(root string, debounce time.Duration, target Broadcaster) (*Watcher, error) {
	if target == nil {
		return nil, errors.New("broadcaster is required")
	}
	if debounce < 0 {
		return nil, fmt.Errorf("negative debounce %s", debounce)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, apperror.FileSystem("watch "+root, err)
	}
	if !info.IsDir() {
		return nil, apperror.FileSystem("watch "+root, fmt.Errorf("%s is not a directory", root))
	}
	return &Watcher{root: root, debounce: debounce, target: target}, nil
}

// Start registers the tree with fsnotify and runs the event loop until ctx is
// canceled. The returned channel is closed once the loop has exited.
func (w *Watcher) Start(ctx context.Context) (<-chan struct{}, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, apperror.FileSystem("create watcher", err)
	}
	if err := addRecursive(fsw, w.root); err != nil {
		fsw.Close()
		return nil, apperror.FileSystem("watch "+w.root, err)
	}
	logger.WithComponent("watcher").Infof("watching %s for changes", w.root)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer fsw.Close()
		defer w.stopTimer()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := addRecursive(fsw, event.Name); err != nil {
							logger.WithComponent("watcher").Warnf("watch new dir %s: %v", event.Name, err)
						}
					}
				}
				w.handleEvent(event)
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.WithComponent("watcher").Errorf("watcher error: %v", err)
			}
		}
	}()
	return done, nil
}

// handleEvent filters one event and triggers (or schedules) a broadcast.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	logger.WithComponent("watcher").Infof("file %s has been changed (%s)", event.Name, event.Op)

	if w.debounce == 0 {
		w.target.Broadcast()
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.target.Broadcast() })
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && len(d.Name()) > 1 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}
