// Package watch notices edits to corpus files so the server can retrain.
// Parent directories are watched rather than the files themselves, because
// editors often save by writing a new file and renaming it over the old one.
package watch

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/bastiangx/t9serve/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Watcher fires one callback per burst of changes to any watched corpus file.
type Watcher struct {
	fw       *fsnotify.Watcher
	log      *log.Logger
	files    map[string]bool
	debounce time.Duration
	done     chan struct{}
	timer    *time.Timer
	stopped  bool
	mu       sync.Mutex
}

// NewWatcher prepares a watcher over files. debounce <= 0 uses DefaultDebounce.
func NewWatcher(files []string, debounce time.Duration) (*Watcher, error) {
	if len(files) == 0 {
		return nil, errors.New("watch: no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fw:       fw,
		log:      logger.New("watch"),
		files:    make(map[string]bool, len(files)),
		debounce: debounce,
		done:     make(chan struct{}),
	}
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Watch starts delivering change notifications to onChange on a background goroutine.
func (w *Watcher) Watch(onChange func()) {
	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !w.relevant(event) {
					continue
				}
				w.log.Debug("Corpus changed", "file", event.Name, "op", event.Op.String())
				w.schedule(onChange)

			case err, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				w.log.Warnf("Watcher error: %v", err)

			case <-w.done:
				return
			}
		}
	}()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !w.files[filepath.Clean(event.Name)] {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		stopped := w.stopped
		w.mu.Unlock()
		if !stopped {
			onChange()
		}
	})
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.done)
	return w.fw.Close()
}
