package assets

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/hubastard/grove/engine/core"
)

// Watcher reports files that were written, created or replaced. It watches
// the parent directories so editors that save through a rename are seen.
//
// Changes are delivered on a buffered channel that the render thread drains
// with Poll; a path already pending is not queued twice.
type Watcher struct {
	fs      *fsnotify.Watcher
	files   map[string]struct{}
	changes chan string
	mu      sync.Mutex
	pending map[string]bool
	done    chan struct{}
	log     *log.Logger
}

func Watch(paths ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("assets: watcher: %w", err)
	}
	w := &Watcher{
		fs:      fsw,
		files:   map[string]struct{}{},
		changes: make(chan string, 16),
		pending: map[string]bool{},
		done:    make(chan struct{}),
		log:     core.Component("watch"),
	}
	dirs := map[string]struct{}{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("assets: watch %q: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := fsw.Add(d); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("assets: watch %q: %w", d, err)
		}
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) && !e.Has(fsnotify.Rename) {
				continue
			}
			name := filepath.Clean(e.Name)
			if _, tracked := w.files[name]; !tracked {
				continue
			}
			w.queue(name)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error("watch", "err", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) queue(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending[name] {
		return
	}
	select {
	case w.changes <- name:
		w.pending[name] = true
	default:
		w.log.Warn("change dropped, queue full", "path", name)
	}
}

// Poll returns the changed paths queued since the last call without blocking.
func (w *Watcher) Poll() []string {
	var out []string
	for {
		select {
		case name := <-w.changes:
			w.mu.Lock()
			delete(w.pending, name)
			w.mu.Unlock()
			out = append(out, name)
		default:
			return out
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
