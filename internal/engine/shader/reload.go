package shader

import (
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Invalidator is implemented by caching loaders that must forget a path
// before it is reloaded.
type Invalidator interface {
	Invalidate(path string)
}

// Reloader keeps a Program in sync with its source files.
//
// The file watcher runs on its own goroutine and only marks the reloader
// dirty; the rebuild happens in Poll, on the thread that owns the context.
type Reloader struct {
	ctx          Context
	loader       Loader
	vertexPath   string
	fragmentPath string

	program *Program
	dirty   atomic.Bool

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

// NewReloader builds the initial program. It fails if that first build fails.
func NewReloader(ctx Context, loader Loader, vertexPath, fragmentPath string) (*Reloader, error) {
	p, err := New(ctx, loader, vertexPath, fragmentPath)
	if err != nil {
		return nil, err
	}
	return &Reloader{
		ctx:          ctx,
		loader:       loader,
		vertexPath:   vertexPath,
		fragmentPath: fragmentPath,
		program:      p,
	}, nil
}

// Program returns the current program. The pointer changes after a
// successful reload, so callers must not hold on to it across frames.
func (r *Reloader) Program() *Program {
	return r.program
}

// Watch starts watching the given files. Their parent directories are watched
// so that editors which save by renaming are still picked up.
func (r *Reloader) Watch(files ...string) error {
	if r.watcher != nil {
		return fmt.Errorf("reloader is already watching")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	targets := make(map[string]struct{}, len(files))
	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			w.Close()
			return err
		}
		targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	r.watcher = w
	r.wg.Add(1)
	go r.watch(targets)

	log().Info("watching shader sources", zap.Strings("files", files))
	return nil
}

func (r *Reloader) watch(targets map[string]struct{}) {
	defer r.wg.Done()
	for {
		select {
		case ev, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			if _, ok := targets[abs]; ok {
				log().Debug("shader source changed", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
				r.MarkDirty()
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			log().Warn("shader watcher error", zap.Error(err))
		}
	}
}

// MarkDirty schedules a rebuild on the next Poll. Safe to call from any goroutine.
func (r *Reloader) MarkDirty() {
	r.dirty.Store(true)
}

// Poll rebuilds the program if a change is pending and reports whether it tried.
func (r *Reloader) Poll() (bool, error) {
	if !r.dirty.CompareAndSwap(true, false) {
		return false, nil
	}
	return true, r.Reload()
}

// Reload rebuilds the program now. On failure the previous program stays in
// place and the error is returned.
func (r *Reloader) Reload() error {
	if inv, ok := r.loader.(Invalidator); ok {
		inv.Invalidate(r.vertexPath)
		inv.Invalidate(r.fragmentPath)
	}

	p, err := New(r.ctx, r.loader, r.vertexPath, r.fragmentPath)
	if err != nil {
		log().Warn("shader reload failed, keeping previous program", zap.Error(err))
		return err
	}

	if r.program != nil {
		r.program.Close()
	}
	r.program = p
	log().Info("shader program reloaded", zap.Uint32("program", p.ID()))
	return nil
}

// Close stops the watcher and releases the current program.
func (r *Reloader) Close() error {
	var err error
	if r.watcher != nil {
		err = r.watcher.Close()
		r.wg.Wait()
		r.watcher = nil
	}
	if r.program != nil {
		r.program.Close()
		r.program = nil
	}
	return err
}
