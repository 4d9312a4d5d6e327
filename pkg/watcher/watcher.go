// Package watcher reports changes to row source files so the front end can
// reload the table. It uses fsnotify on the containing directories and falls
// back to polling when events are unavailable.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/treetable/pkg/debug"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// ForcePollEnv forces polling when set to a true value.
const ForcePollEnv = "TT_FORCE_POLL"

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrNoPaths        = errors.New("no paths to watch")
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithOnChange sets the callback invoked after a burst of changes settles.
// It receives the last path that changed.
func WithOnChange(fn func(path string)) WatcherOption {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets the callback invoked on errors.
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll forces polling mode even if fsnotify is available.
func WithForcePoll(force bool) WatcherOption {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

type fileState struct {
	mtime time.Time
	size  int64
}

// Watcher monitors a set of files for changes.
type Watcher struct {
	paths            []string // absolute
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func(string)
	onError          func(error)
	forcePoll        bool

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool
	last        map[string]fileState
	pending     string

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
}

// NewWatcher creates a watcher for the given files.
func NewWatcher(paths []string, opts ...WatcherOption) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, ErrNoPaths
	}
	w := &Watcher{
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func(string) {},
		onError:          func(error) {},
		last:             make(map[string]fileState),
		changeCh:         make(chan struct{}, 1),
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		w.paths = append(w.paths, abs)
	}

	for _, opt := range opts {
		opt(w)
	}

	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.useFallback = w.forcePoll || envBool(ForcePollEnv)

	for _, p := range w.paths {
		info, err := os.Stat(p)
		if err != nil {
			if os.IsPermission(err) {
				w.cancel()
				return ErrPermission
			}
			// File might not exist yet, that's okay
			w.last[p] = fileState{}
			continue
		}
		w.last[p] = fileState{mtime: info.ModTime(), size: info.Size()}
	}

	if !w.useFallback {
		if fsw, err := w.newFsnotify(); err == nil {
			w.fsWatcher = fsw
			go w.watchFsnotify(fsw)
		} else {
			debug.Log("watcher: fsnotify unavailable, polling: %v", err)
			w.useFallback = true
		}
	}
	if w.useFallback {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// newFsnotify watches each containing directory once. Watching directories
// rather than files survives editors that save by rename.
func (w *Watcher) newFsnotify() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := make(map[string]bool)
	for _, p := range w.paths {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return fsw, nil
}

// Stop stops watching. The Changed channel is left open so a goroutine
// blocked on it is not woken with a spurious change.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	if w.cancel != nil {
		w.cancel()
	}
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// IsPolling returns true if the watcher is using polling mode.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.useFallback
}

// IsStarted returns true if the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed returns a channel that receives when a file changes.
// This is an alternative to using the OnChange callback.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Paths returns the watched file paths.
func (w *Watcher) Paths() []string {
	return append([]string(nil), w.paths...)
}

// PollInterval returns the polling interval used when polling mode is active.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func (w *Watcher) watched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, p := range w.paths {
		if p == abs {
			return true
		}
	}
	return false
}

// watchFsnotify monitors using fsnotify events.
func (w *Watcher) watchFsnotify(fsw *fsnotify.Watcher) {
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.watched(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)

			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.trigger(event.Name)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// watchPolling monitors using periodic stat checks.
func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.PollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			for _, p := range w.paths {
				w.poll(p)
			}
		}
	}
}

func (w *Watcher) poll(path string) {
	info, err := os.Stat(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			// Only report if the file existed before
			w.mu.Lock()
			hadFile := !w.last[path].mtime.IsZero()
			w.last[path] = fileState{}
			w.mu.Unlock()
			if hadFile {
				w.onError(ErrFileRemoved)
			}
		case os.IsPermission(err):
			w.onError(ErrPermission)
		default:
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	prev := w.last[path]
	changed := info.ModTime().After(prev.mtime) || info.Size() != prev.size
	if changed {
		w.last[path] = fileState{mtime: info.ModTime(), size: info.Size()}
	}
	w.mu.Unlock()

	if changed {
		w.trigger(path)
	}
}

func (w *Watcher) trigger(path string) {
	w.mu.Lock()
	w.pending = path
	w.mu.Unlock()
	w.debouncer.Trigger(w.notifyChange)
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	path := w.pending
	w.mu.RUnlock()

	// Best effort: callbacks racing with Stop are harmless
	if !started {
		return
	}

	w.onChange(path)

	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
