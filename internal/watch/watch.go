// Package watch turns filesystem notifications for one file into a stream
// of change signals.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrWatch indicates the watcher could not be set up.
var ErrWatch = errors.New("cannot watch file")

// relevantOps are the operations that may change what a load returns.
// Editors that save by rename show up as Create or Rename.
const relevantOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// File is a change stream scoped to one path. The parent directory is
// watched so the stream survives atomic saves that replace the file.
//
// Changes are coalesced into a single pending slot: any number of events
// that arrive while nobody is waiting in Next produce exactly one signal,
// so the consumer always re-reads after the last change.
type File struct {
	path     string
	watcher  *fsnotify.Watcher
	pending  chan struct{}
	done     chan struct{}
	debounce time.Duration
	log      zerolog.Logger

	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// Option configures a File.
type Option func(*File)

// WithDebounce waits for d of quiet after a change before Next returns,
// folding bursts (write + chmod + rename) into one signal.
func WithDebounce(d time.Duration) Option {
	return func(f *File) {
		if d > 0 {
			f.debounce = d
		}
	}
}

// WithLogger sets the logger used for watcher errors.
func WithLogger(l zerolog.Logger) Option {
	return func(f *File) {
		f.log = l
	}
}

// Subscribe starts watching path. The file itself need not exist yet; its
// directory must.
func Subscribe(path string, opts ...Option) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrWatch, filepath.Dir(abs), err)
	}

	f := &File{
		path:    filepath.Clean(abs),
		watcher: w,
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.wg.Add(1)
	go f.loop()
	return f, nil
}

// Path returns the absolute path being watched.
func (f *File) Path() string {
	return f.path
}

func (f *File) loop() {
	defer f.wg.Done()
	defer close(f.done)

	for {
		select {
		case ev, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&relevantOps == 0 || filepath.Clean(ev.Name) != f.path {
				continue
			}
			f.log.Debug().Str("op", ev.Op.String()).Msg("file changed")
			f.signal()
		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (f *File) signal() {
	select {
	case f.pending <- struct{}{}:
	default:
	}
}

// Next blocks until the file changes. It returns io.EOF once the stream is
// closed and ctx.Err() when ctx ends first.
func (f *File) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-f.done:
		return io.EOF
	case <-f.pending:
	}

	if f.debounce <= 0 {
		return nil
	}

	timer := time.NewTimer(f.debounce)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.done:
			return io.EOF
		case <-f.pending:
			timer.Reset(f.debounce)
		case <-timer.C:
			return nil
		}
	}
}

// Close stops the watcher. Pending and future Next calls return io.EOF.
func (f *File) Close() error {
	f.closeOnce.Do(func() {
		f.closeErr = f.watcher.Close()
		f.wg.Wait()
	})
	return f.closeErr
}
