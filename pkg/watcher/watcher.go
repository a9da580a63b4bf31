// Package watcher reports changes to the input files of a page build so that
// watch mode can rebuild. It uses fsnotify and falls back to polling when
// events are unavailable or unreliable.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/snolabib/pkg/debug"
)

// DefaultPollInterval is the default polling interval for fallback mode.
const DefaultPollInterval = 2 * time.Second

// Common errors.
var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
	ErrNoPaths        = errors.New("nothing to watch")
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
		w.pollInterval = d
	}
}

// WithOnChange sets the callback invoked after a burst of changes. It
// receives the paths that changed, sorted.
func WithOnChange(fn func(paths []string)) WatcherOption {
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

// target is one watched path. Directories match any entry.
type target struct {
	path  string
	isDir bool
	mtime time.Time
	size  int64
}

// Watcher monitors a set of files and directories.
type Watcher struct {
	targets          []*target
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func([]string)
	onError          func(error)
	forcePoll        bool
	fsType           FilesystemType

	fsWatcher   *fsnotify.Watcher
	debouncer   *Debouncer
	useFallback bool

	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	pending  map[string]bool
	changeCh chan []string
}

// NewWatcher creates a watcher for the given paths. Empty paths are skipped.
func NewWatcher(paths []string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func([]string) {},
		onError:          func(error) {},
		pending:          make(map[string]bool),
		changeCh:         make(chan []string, 1),
	}
	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		w.targets = append(w.targets, &target{path: abs})
	}
	if len(w.targets) == 0 {
		return nil, ErrNoPaths
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
	w.useFallback = w.forcePoll || envBool("SNOLABIB_FORCE_POLL")

	w.fsType = DetectFilesystemType(w.targets[0].path)
	for _, t := range w.targets {
		if isRemoteFilesystem(DetectFilesystemType(t.path)) {
			w.fsType = DetectFilesystemType(t.path)
			w.useFallback = true
		}
	}

	for _, t := range w.targets {
		mtime, size, isDir, err := stat(t.path)
		if err != nil && os.IsPermission(err) {
			return ErrPermission
		}
		// missing files are fine, they may appear later
		t.mtime, t.size, t.isDir = mtime, size, isDir
	}

	if !w.useFallback {
		if fsw, err := w.openFsnotify(); err != nil {
			debug.Log("watcher: fsnotify unavailable, polling: %v", err)
			w.useFallback = true
		} else {
			w.fsWatcher = fsw
			go w.watchFsnotify()
		}
	}

	// Start polling as fallback
	if w.useFallback {
		go w.watchPolling()
	}

	w.started = true
	return nil
}

// openFsnotify watches each directory target and the parent of each file
// target, which survives editors that replace files atomically.
func (w *Watcher) openFsnotify() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := make(map[string]bool)
	for _, t := range w.targets {
		dir := filepath.Dir(t.path)
		if t.isDir {
			dir = t.path
		}
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
		dirs[dir] = true
	}
	return fsw, nil
}

// Stop stops watching. The change channel stays open.
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

// Changed returns a channel receiving the changed paths of each burst. A
// burst that arrives while the previous one is unread is dropped.
func (w *Watcher) Changed() <-chan []string {
	return w.changeCh
}

// Paths returns the watched absolute paths.
func (w *Watcher) Paths() []string {
	out := make([]string, len(w.targets))
	for i, t := range w.targets {
		out[i] = t.path
	}
	return out
}

// FilesystemType returns the best-effort filesystem classification.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the polling interval used when polling mode is active.
func (w *Watcher) PollInterval() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pollInterval
}

func envBool(name string) bool {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return false
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// match returns the target an event path belongs to.
func (w *Watcher) match(name string) (*target, bool) {
	name = filepath.Clean(name)
	for _, t := range w.targets {
		if t.path == name || (t.isDir && filepath.Dir(name) == t.path) {
			return t, true
		}
	}
	return nil, false
}

// watchFsnotify monitors using fsnotify events.
func (w *Watcher) watchFsnotify() {
	// Capture channel references to avoid race with Stop() setting fsWatcher to nil
	w.mu.RLock()
	if w.fsWatcher == nil {
		w.mu.RUnlock()
		return
	}
	events := w.fsWatcher.Events
	errs := w.fsWatcher.Errors
	w.mu.RUnlock()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			t, ok := w.match(event.Name)
			if !ok {
				continue
			}

			switch {
			case event.Op&fsnotify.Remove != 0 && !t.isDir:
				w.onError(ErrFileRemoved)

			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0:
				w.trigger(t.path)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

// watchPolling monitors using periodic stat checks.
func (w *Watcher) watchPolling() {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			for _, t := range w.targets {
				w.poll(t)
			}
		}
	}
}

func (w *Watcher) poll(t *target) {
	mtime, size, _, err := stat(t.path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			// Only report if the file existed before
			w.mu.Lock()
			hadFile := !t.mtime.IsZero()
			t.mtime, t.size = time.Time{}, 0
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
	changed := mtime.After(t.mtime) || size != t.size
	if changed {
		t.mtime, t.size = mtime, size
	}
	w.mu.Unlock()

	if changed {
		w.trigger(t.path)
	}
}

func (w *Watcher) trigger(path string) {
	w.mu.Lock()
	w.pending[path] = true
	w.mu.Unlock()
	w.debouncer.Trigger(w.notifyChange)
}

// notifyChange invokes the onChange callback and signals the change channel.
func (w *Watcher) notifyChange() {
	w.mu.Lock()
	started := w.started
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]bool)
	w.mu.Unlock()

	if !started || len(paths) == 0 {
		return
	}
	sort.Strings(paths)

	w.onChange(paths)

	select {
	case w.changeCh <- paths:
	default:
	}
}

// stat returns the modification time and size of a file, or the newest
// entry time and total entry size of a directory.
func stat(path string) (time.Time, int64, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, 0, false, err
	}
	if !info.IsDir() {
		return info.ModTime(), info.Size(), false, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return time.Time{}, 0, true, err
	}
	mtime, size := info.ModTime(), int64(0)
	for _, e := range entries {
		ei, err := e.Info()
		if err != nil {
			continue
		}
		if ei.ModTime().After(mtime) {
			mtime = ei.ModTime()
		}
		size += ei.Size()
	}
	return mtime, size, true, nil
}
