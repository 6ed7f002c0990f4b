package repo

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	perr "timeslider/internal/platform/errors"
	"timeslider/internal/platform/logger"
)

// DefaultDebounce collapses the burst of events editors emit on save
const DefaultDebounce = 500 * time.Millisecond

// Watcher reports a style file's new contents after it settles
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func([]byte)

	watcher *fsnotify.Watcher
	log     *logger.Logger

	mu    sync.Mutex
	timer *time.Timer

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWatcher watches path; onChange runs on a timer goroutine with the file's bytes
func NewWatcher(path string, debounce time.Duration, onChange func([]byte), log *logger.Logger) (*Watcher, error) {
	if path == "" {
		return nil, perr.InvalidArgf("watch: empty style path")
	}
	if onChange == nil {
		return nil, perr.InvalidArgf("watch: nil callback")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logger.Named("style_watcher")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "create file watcher")
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start watches the file's directory so rename-on-save editors are seen too
func (w *Watcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeNotFound, "watch %s", dir)
	}
	w.log.Info().Str("file", w.path).Msg("watching style for changes")
	go w.loop(ctx)
	return nil
}

// Run is Start followed by a wait for ctx; it always stops the watcher
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(ctx); err != nil {
		w.Stop()
		return err
	}
	<-ctx.Done()
	w.Stop()
	return nil
}

// Stop ends the loop and cancels a pending reload; safe to call twice
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		_ = w.watcher.Close()
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
}

// Done is closed once the loop has exited
func (w *Watcher) Done() <-chan struct{} { return w.done }

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("style changed, scheduling reload")
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("style watcher error")
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

func (w *Watcher) reload() {
	select {
	case <-w.stop:
		return
	default:
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		// a rename-on-save can leave the path briefly missing; the Create event reschedules
		w.log.Debug().Err(err).Str("file", w.path).Msg("style not readable yet")
		return
	}
	w.onChange(data)
}
