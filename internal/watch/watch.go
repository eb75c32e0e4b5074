package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"alignby/internal/driver"
	"alignby/internal/project"
	"alignby/internal/trace"
)

// DefaultDebounce is the quiet period before a batch of changes is aligned.
const DefaultDebounce = 150 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Paths    []string
	Walk     project.WalkOptions
	Driver   driver.Options
	Debounce time.Duration
	OnResult func(driver.Result) // called for every aligned batch entry
	OnError  func(error)         // watcher errors; nil drops them
}

// Watcher aligns files as they change.
type Watcher struct {
	opts    Options
	fs      *fsnotify.Watcher
	watched map[string]struct{}
	pending map[string]struct{}
}

// New registers the directories under opts.Paths.
func New(ctx context.Context, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.OnResult == nil {
		opts.OnResult = func(driver.Result) {}
	}
	if opts.OnError == nil {
		opts.OnError = func(error) {}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		opts:    opts,
		fs:      fw,
		watched: make(map[string]struct{}),
		pending: make(map[string]struct{}),
	}
	if err := w.addTree(ctx, opts.Paths); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// Watched returns the registered directories, sorted.
func (w *Watcher) Watched() []string {
	dirs := make([]string, 0, len(w.watched))
	for d := range w.watched {
		dirs = append(dirs, d)
	}
	slices.Sort(dirs)
	return dirs
}

// Run processes events until ctx is done or the watcher fails. It closes the
// underlying fsnotify watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.handle(ctx, ev) {
				timer.Reset(w.opts.Debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.opts.OnError(fmt.Errorf("watch: %w, some changes may be missed", err))
				continue
			}
			w.opts.OnError(err)
		case <-timer.C:
			w.flush(ctx)
		}
	}
}

// handle records ev and reports whether a file was queued.
func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	info, err := os.Stat(ev.Name)
	if err != nil {
		return false
	}
	if info.IsDir() {
		if ev.Has(fsnotify.Create) {
			if err := w.addTree(ctx, []string{ev.Name}); err != nil {
				w.opts.OnError(err)
			}
		}
		return false
	}
	if !info.Mode().IsRegular() || !w.opts.Walk.Matches(ev.Name) {
		return false
	}
	w.pending[filepath.Clean(ev.Name)] = struct{}{}
	return true
}

// flush aligns every pending file in path order.
func (w *Watcher) flush(ctx context.Context) {
	if len(w.pending) == 0 {
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	clear(w.pending)
	slices.Sort(paths)

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "watch:batch", trace.CurrentSpan(ctx))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span.ID())

	for _, p := range paths {
		if ctx.Err() != nil {
			return
		}
		info, err := os.Stat(p)
		if err != nil {
			// удалён между событием и обработкой
			continue
		}
		if limit := w.opts.Walk.MaxFileSize; limit > 0 && info.Size() > limit {
			w.opts.OnResult(driver.Result{
				Path:    p,
				Display: displayPath(p, w.opts.Driver.BaseDir),
				Status:  driver.StatusSkipped,
				Err:     fmt.Errorf("%w (%d bytes)", driver.ErrFileTooLarge, info.Size()),
			})
			continue
		}
		w.opts.OnResult(driver.AlignFile(ctx, p, w.opts.Driver))
	}
}

func (w *Watcher) addTree(ctx context.Context, roots []string) error {
	dirs, err := project.Dirs(ctx, roots, w.opts.Walk, w.opts.OnError)
	if err != nil {
		return fmt.Errorf("failed to list directories: %w", err)
	}
	for _, d := range dirs {
		if _, ok := w.watched[d]; ok {
			continue
		}
		if err := w.fs.Add(d); err != nil {
			return fmt.Errorf("failed to watch %s: %w", d, err)
		}
		w.watched[d] = struct{}{}
	}
	return nil
}

func displayPath(path, base string) string {
	if base == "" {
		return path
	}
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
