// Package watch reloads a project's configuration when its configuration
// file or included stylesheets change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yacobolo/classlens"
	"github.com/yacobolo/classlens/internal/discovery"
	"github.com/yacobolo/classlens/internal/logging"
)

// DefaultDelay is the quiet period before a burst of changes triggers a
// reload.
const DefaultDelay = 200 * time.Millisecond

// ErrClosed is returned when starting a closed Watcher.
var ErrClosed = errors.New("watcher closed")

// Reloader is implemented by *classlens.Manager.
type Reloader interface {
	Reload(ctx context.Context, rootDir string) (*classlens.Snapshot, error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		w.delay = d
	}
}

// WithCallback registers fn to run after every reload attempt.
func WithCallback(fn func(*classlens.Snapshot, error)) Option {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// Watcher reloads the configuration of one project root on change.
type Watcher struct {
	root     string
	reloader Reloader
	delay    time.Duration
	onReload func(*classlens.Snapshot, error)

	fsw      *fsnotify.Watcher
	debounce *debouncer

	mu      sync.Mutex
	dirs    map[string]bool
	sources map[string]bool
	closed  bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// New creates a Watcher for root. Call Start to begin watching.
func New(root string, r Reloader, opts ...Option) (*Watcher, error) {
	abs, err := discovery.NormalizeRoot(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:     abs,
		reloader: r,
		delay:    DefaultDelay,
		fsw:      fsw,
		dirs:     make(map[string]bool),
		sources:  make(map[string]bool),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start watches the root and the directories of sources, then processes
// events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context, sources []string) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrClosed
	}
	w.debounce = newDebouncer(w.delay, func() { w.reload(ctx) })
	w.mu.Unlock()

	if err := w.Update(sources); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.loop(ctx)
	return nil
}

// Update replaces the set of watched source files.
func (w *Watcher) Update(sources []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}

	w.sources = make(map[string]bool, len(sources))
	wanted := map[string]bool{w.root: true}
	for _, src := range sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			continue
		}
		w.sources[abs] = true
		wanted[filepath.Dir(abs)] = true
	}

	for dir := range wanted {
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	for dir := range w.dirs {
		if !wanted[dir] {
			_ = w.fsw.Remove(dir)
			delete(w.dirs, dir)
		}
	}
	return nil
}

// Dirs returns the directories currently watched.
func (w *Watcher) Dirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	dirs := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		dirs = append(dirs, dir)
	}
	return dirs
}

// Close stops watching. Pending reloads are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	if w.debounce != nil {
		w.debounce.stop()
	}
	w.mu.Unlock()

	w.wg.Wait()
	return w.fsw.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	log := logging.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				log.Debug("configuration input changed", logging.FieldPath, event.Name, "op", event.Op.String())
				w.debounce.call()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("watch error", logging.FieldError, err)
		}
	}
}

// relevant reports whether event may change the discovered configuration.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	if IsConfigInput(event.Name) {
		return true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sources[event.Name]
}

// IsConfigInput reports whether path names a file discovery reads: a
// configuration file, a .gitignore or a stylesheet.
func IsConfigInput(path string) bool {
	name := filepath.Base(path)
	for _, candidate := range discovery.ConfigFiles {
		if name == candidate {
			return true
		}
	}
	return name == ".gitignore" || filepath.Ext(name) == ".css"
}

func (w *Watcher) reload(ctx context.Context) {
	snap, err := w.reloader.Reload(ctx, w.root)
	log := logging.FromContext(ctx)
	if err != nil {
		log.Warn("configuration reload failed", logging.FieldRoot, w.root, logging.FieldError, err)
	} else {
		log.Info("configuration reloaded", logging.FieldRoot, w.root, logging.FieldVersion, snap.Version)
		if err := w.Update(snap.Config.Sources); err != nil && !errors.Is(err, ErrClosed) {
			log.Warn("update watched sources", logging.FieldError, err)
		}
	}
	if w.onReload != nil {
		w.onReload(snap, err)
	}
}
