// Package watch re-runs the rules on files as they are saved.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnoverse/papagaio/internal/cache"
	"github.com/gnoverse/papagaio/internal/runner"
)

const DefaultDebounce = 100 * time.Millisecond

type Options struct {
	// Debounce groups bursts of events on the same file into one run.
	Debounce time.Duration
	// Extensions limits the watched files. Empty watches every file.
	Extensions []string
	// OnResult is called after every processed file.
	OnResult func(runner.Result)
}

// Watcher feeds written files to a Runner. The runner decides what to do
// with them, normally rewriting in place.
type Watcher struct {
	runner   *runner.Runner
	logger   *zap.Logger
	fsw      *fsnotify.Watcher
	debounce time.Duration
	exts     map[string]struct{}
	onResult func(runner.Result)

	mutex sync.Mutex
	// content hashes of the files this watcher wrote itself
	written map[string]string
}

func New(r *runner.Runner, logger *zap.Logger, opts Options) (*Watcher, error) {
	if r == nil {
		return nil, errors.New("watch: runner is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	w := &Watcher{
		runner:   r,
		logger:   logger,
		fsw:      fsw,
		debounce: opts.Debounce,
		onResult: opts.OnResult,
		written:  make(map[string]string),
	}
	for _, ext := range opts.Extensions {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if w.exts == nil {
			w.exts = make(map[string]struct{})
		}
		w.exts[ext] = struct{}{}
	}
	return w, nil
}

// Add watches dir and every non-hidden directory below it.
func (w *Watcher) Add(dirs ...string) error {
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.fsw.Add(path)
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return nil
}

// Close releases the watcher without running it.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run handles events until ctx is done. It closes the underlying watcher
// before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.handleEvent(event); ok {
				pending[path] = struct{}{}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", zap.Error(err))

		case <-timer.C:
			for path := range pending {
				w.process(path)
			}
			clear(pending)
		}
	}
}

// handleEvent returns the file to process for event, if any. New
// directories are added to the watch list.
func (w *Watcher) handleEvent(event fsnotify.Event) (string, bool) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.Add(event.Name); err != nil {
				w.logger.Error("Error watching new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return "", false
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	if !w.isTargetFile(event.Name) {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) process(path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		// removed or renamed before the debounce fired
		w.logger.Debug("Skipping unreadable file", zap.String("file", path), zap.Error(err))
		return
	}

	hash := cache.HashContent(content)
	w.mutex.Lock()
	own := w.written[path] == hash
	w.mutex.Unlock()
	if own {
		return
	}

	res := w.runner.RunFile(path)
	if res.Err == nil {
		w.mutex.Lock()
		w.written[path] = cache.HashContent([]byte(res.Output))
		w.mutex.Unlock()
	}
	if res.Changed() {
		w.logger.Info("Rewrote file", zap.String("file", path), zap.Int("matches", res.Stats.Matches))
	}
	if w.onResult != nil {
		w.onResult(res)
	}
}

func (w *Watcher) isTargetFile(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	if len(w.exts) == 0 {
		return true
	}
	_, ok := w.exts[filepath.Ext(path)]
	return ok
}
