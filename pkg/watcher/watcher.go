// Package watcher reports changes to the dataset file backing a chart so the
// UI can reload it in place.
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

	"github.com/vanderheijden86/healthscatter/pkg/debug"
)

// ForcePollEnvVar forces stat polling when set to a truthy value.
const ForcePollEnvVar = "HS_FORCE_POLL"

// DefaultPollInterval is used when fsnotify is unavailable or unreliable.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("dataset file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// EventKind classifies an Event.
type EventKind int

const (
	EventChanged EventKind = iota
	EventRemoved
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventChanged:
		return "changed"
	case EventRemoved:
		return "removed"
	default:
		return "error"
	}
}

// Event is delivered on the Events channel after debouncing.
type Event struct {
	Kind EventKind
	Path string
	Err  error
	At   time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval used in polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithForcePoll skips fsnotify entirely.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// WithOnChange registers a callback run alongside the Events channel.
func WithOnChange(fn func(Event)) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// Watcher monitors a single dataset file. It watches the parent directory
// so that atomic replace-by-rename is seen as a change.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool
	onChange     func(Event)

	mu        sync.RWMutex
	started   bool
	polling   bool
	fsType    FilesystemType
	cancel    context.CancelFunc
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	lastMod   time.Time
	lastSize  int64
	wg        sync.WaitGroup

	events chan Event
}

// New creates a Watcher for path. The file does not need to exist yet.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         abs,
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		onChange:     func(Event) {},
		events:       make(chan Event, 4),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	info, err := os.Stat(w.path)
	switch {
	case err == nil:
		w.lastMod, w.lastSize = info.ModTime(), info.Size()
	case os.IsPermission(err):
		return ErrPermission
	default:
		w.lastMod, w.lastSize = time.Time{}, 0
	}

	w.fsType = DetectFilesystemType(w.path)
	w.polling = w.forcePoll || envBool(ForcePollEnvVar) || isRemoteFilesystem(w.fsType)

	ctx, w.cancel = context.WithCancel(ctx)

	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			err = fsw.Add(filepath.Dir(w.path))
			if err != nil {
				fsw.Close()
			}
		}
		if err != nil {
			debug.Log("watcher: fsnotify unavailable for %s, polling: %v", w.path, err)
			w.polling = true
		} else {
			w.fsw = fsw
			w.wg.Add(1)
			go w.runNotify(ctx, fsw)
		}
	}
	if w.polling {
		w.wg.Add(1)
		go w.runPoll(ctx)
	}

	debug.Log("watcher: watching %s (fs=%s polling=%v)", w.path, w.fsType, w.polling)
	w.started = true
	return nil
}

// Stop halts the watcher and waits for its goroutines. The Events channel
// stays open so a pending receiver is not woken with a zero Event.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	w.debouncer.Cancel()
	w.mu.Unlock()

	w.wg.Wait()
}

// Events delivers debounced change, removal and error events.
func (w *Watcher) Events() <-chan Event { return w.events }

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// IsStarted reports whether Start has been called without a matching Stop.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// IsPolling reports whether the watcher fell back to stat polling.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// FilesystemType returns the classification made at Start.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// PollInterval returns the stat interval used in polling mode.
func (w *Watcher) PollInterval() time.Duration { return w.pollInterval }

func (w *Watcher) runNotify(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			switch {
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				w.debouncer.Trigger(func() { w.emit(Event{Kind: EventChanged}) })
			case ev.Has(fsnotify.Remove):
				w.emit(Event{Kind: EventRemoved, Err: ErrFileRemoved})
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.emit(Event{Kind: EventError, Err: err})
		}
	}
}

func (w *Watcher) runPoll(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.pollOnce()
		}
	}
}

func (w *Watcher) pollOnce() {
	info, err := os.Stat(w.path)
	if err != nil {
		w.mu.Lock()
		existed := !w.lastMod.IsZero()
		w.lastMod, w.lastSize = time.Time{}, 0
		w.mu.Unlock()

		switch {
		case os.IsNotExist(err):
			if existed {
				w.emit(Event{Kind: EventRemoved, Err: ErrFileRemoved})
			}
		case os.IsPermission(err):
			w.emit(Event{Kind: EventError, Err: ErrPermission})
		default:
			w.emit(Event{Kind: EventError, Err: err})
		}
		return
	}

	w.mu.Lock()
	changed := !info.ModTime().Equal(w.lastMod) || info.Size() != w.lastSize
	w.lastMod, w.lastSize = info.ModTime(), info.Size()
	w.mu.Unlock()

	if changed {
		w.debouncer.Trigger(func() { w.emit(Event{Kind: EventChanged}) })
	}
}

// emit drops the event when the buffer is full; a reload picks up the
// latest file contents regardless of how many changes were missed.
func (w *Watcher) emit(ev Event) {
	if !w.IsStarted() {
		return
	}
	ev.Path = w.path
	ev.At = time.Now()
	w.onChange(ev)

	select {
	case w.events <- ev:
	default:
	}
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
