package store

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce batches the burst of events an editor save produces
const DefaultDebounce = 300 * time.Millisecond

// Watcher reloads a seed file into a store whenever the file changes.
// A dataset that fails to load leaves the store untouched.
type Watcher struct {
	path     string
	store    Writer
	log      *zap.Logger
	debounce time.Duration
	onReload func(context.Context)
	fsw      *fsnotify.Watcher
}

// NewWatcher watches path. onReload, if set, runs after every successful reload.
func NewWatcher(path string, st Writer, log *zap.Logger, onReload func(context.Context)) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors often replace the file by rename.
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		store:    st,
		log:      log,
		debounce: DefaultDebounce,
		onReload: onReload,
		fsw:      fsw,
	}, nil
}

// SetDebounce changes the quiet period before a reload
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Reload loads the seed file into the store now
func (w *Watcher) Reload(ctx context.Context) error {
	ds, err := LoadDataset(w.path)
	if err != nil {
		return err
	}
	if err := w.store.Replace(ctx, ds); err != nil {
		return fmt.Errorf("reload %s: %w", w.path, err)
	}
	w.log.Info("dataset reloaded", zap.String("path", w.path), zap.Int("projects", len(ds.Projects)))
	if w.onReload != nil {
		w.onReload(ctx)
	}
	return nil
}

// Run processes file events until ctx is done, then closes the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("seed watcher error", zap.Error(err))

		case <-timer.C:
			if err := w.Reload(ctx); err != nil {
				w.log.Error("dataset reload failed, keeping previous content", zap.Error(err))
			}
		}
	}
}
