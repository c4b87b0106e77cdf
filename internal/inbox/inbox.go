// Package inbox watches a drop folder and reports study files placed in it.
package inbox

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/csheth/studygenius/internal/ingest"
)

const DefaultDebounce = 500 * time.Millisecond

// Watcher emits a path once writes to it have been quiet for the debounce
// window, so a file still being copied is not picked up half-written.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	debounce   time.Duration
	logger     *zap.Logger
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) { w.logger = logger.Named("inbox") }
}

func New(opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		watcher:    fw,
		extensions: ingest.Extensions,
		debounce:   DefaultDebounce,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Watch monitors dir, creating it if needed. The returned channel closes when
// ctx is done or the watcher is stopped.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox %s: %w", dir, err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watch inbox %s: %w", dir, err)
	}
	w.logger.Info("watching inbox", zap.String("dir", dir))

	out := make(chan string, 16)
	settled := make(chan settleEvent)
	done := make(chan struct{})

	go func() {
		defer close(out)
		defer close(done)
		pending := newDebouncer(w.debounce, func(ev settleEvent) {
			select {
			case settled <- ev:
			case <-done:
			}
		})
		defer pending.stopAll()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.accepts(event.Name) {
					continue
				}
				switch {
				case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
					pending.touch(event.Name)
				case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
					pending.cancel(event.Name)
				}
			case ev := <-settled:
				if !pending.settle(ev) {
					continue
				}
				name := ev.name
				info, err := os.Stat(name)
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				w.logger.Info("inbox file ready", zap.String("path", name), zap.Int64("bytes", info.Size()))
				select {
				case out <- name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("inbox watcher error", zap.Error(err))
			}
		}
	}()

	return out, nil
}

// Stop releases the underlying watcher.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

type settleEvent struct {
	name string
	seq  uint64
}

type pendingFile struct {
	timer *time.Timer
	seq   uint64
}

// debouncer tracks one quiet-period timer per path. A timer that already
// fired when a new write arrives is replaced, and its event no longer
// matches the pending entry.
type debouncer struct {
	delay   time.Duration
	fire    func(settleEvent)
	seq     uint64
	pending map[string]*pendingFile
}

func newDebouncer(delay time.Duration, fire func(settleEvent)) *debouncer {
	return &debouncer{delay: delay, fire: fire, pending: map[string]*pendingFile{}}
}

func (d *debouncer) touch(name string) {
	if p, ok := d.pending[name]; ok && p.timer.Stop() {
		p.timer.Reset(d.delay)
		return
	}
	d.seq++
	ev := settleEvent{name: name, seq: d.seq}
	d.pending[name] = &pendingFile{
		seq:   ev.seq,
		timer: time.AfterFunc(d.delay, func() { d.fire(ev) }),
	}
}

// settle reports whether ev is the current timer for its path and, if so,
// forgets the path.
func (d *debouncer) settle(ev settleEvent) bool {
	p, ok := d.pending[ev.name]
	if !ok || p.seq != ev.seq {
		return false
	}
	delete(d.pending, ev.name)
	return true
}

func (d *debouncer) cancel(name string) {
	if p, ok := d.pending[name]; ok {
		p.timer.Stop()
		delete(d.pending, name)
	}
}

func (d *debouncer) stopAll() {
	for name := range d.pending {
		d.cancel(name)
	}
}
