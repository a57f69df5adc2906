// Package watcher turns filesystem events under the note root into debounced
// reload notifications for the issue tree's views.
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
	"github.com/sirupsen/logrus"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("watcher already started")

// Option configures a Watcher.
type Option func(*Watcher)

// WithOnChange sets the callback invoked after a debounced change.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithSuppress sets a predicate consulted per event; events for which it
// returns true are dropped. Used to keep the engine's own writes from
// triggering a reload storm.
func WithSuppress(fn func() bool) Option {
	return func(w *Watcher) { w.suppress = fn }
}

// WithDebounce sets the quiet period before the change callback fires.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debouncer = NewDebouncer(d) }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(w *Watcher) { w.log = log }
}

// Watcher monitors the note root (recursively) for markdown and store-file
// changes. Bursts are coalesced through a Debouncer, so a bulk edit costs
// one notification.
type Watcher struct {
	root      string
	onChange  func()
	suppress  func() bool
	debouncer *Debouncer
	log       *logrus.Logger

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	cancel  context.CancelFunc
	started bool
}

// New creates a watcher over the note root.
func New(root string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     abs,
		onChange: func() {},
		suppress: func() bool { return false },
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.debouncer == nil {
		w.debouncer = NewDebouncer(DefaultDebounceDuration)
	}
	return w, nil
}

// Start begins watching. Directories created later are picked up as their
// create events arrive.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return ErrAlreadyStarted
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := w.addRecursive(fsw, w.root); err != nil {
		fsw.Close()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.fsw = fsw
	w.cancel = cancel
	w.started = true

	go w.loop(ctx, fsw)
	return nil
}

// Stop stops watching and drops any pending notification.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.started {
		return
	}
	w.cancel()
	w.fsw.Close()
	w.fsw = nil
	w.debouncer.Cancel()
	w.started = false
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != dir && !isStoreDir(path) {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if w.suppress() {
				continue
			}
			// Watch new directories as they appear.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fsw.Add(event.Name); err != nil {
						w.log.Debugf("watch new dir %s: %v", event.Name, err)
					}
					continue
				}
			}
			w.debouncer.Trigger(w.onChange)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log.Warnf("watch %s: %v", w.root, err)
		}
	}
}

// relevant keeps markdown files, the persisted store files, and directory
// events; editor temp files and unrelated noise are dropped.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	name := filepath.Base(event.Name)
	if strings.Contains(name, ".tmp-") || strings.HasSuffix(name, "~") {
		return false
	}
	if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".json") {
		return true
	}
	info, err := os.Stat(event.Name)
	return err == nil && info.IsDir()
}

func isStoreDir(path string) bool {
	return filepath.Base(path) == ".issues"
}
