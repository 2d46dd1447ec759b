// Package watch turns file system events below a set of directories into
// debounced batches of changed files.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"vlxref/internal/source"
	"vlxref/internal/trace"
)

// Watcher watches directory trees and emits the changed files that pass
// its filter.
type Watcher struct {
	roots    []string
	debounce time.Duration
	accept   func(path string) bool
	tracer   trace.Tracer
	fsw      *fsnotify.Watcher
}

// New watches every directory below roots. Hidden directories are skipped.
// accept selects the files worth reporting.
func New(roots []string, debounce time.Duration, accept func(path string) bool, tracer trace.Tracer) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if tracer == nil {
		tracer = trace.Nop
	}
	w := &Watcher{
		roots:    roots,
		debounce: debounce,
		accept:   accept,
		tracer:   tracer,
		fsw:      fsw,
	}
	for _, root := range roots {
		if err := w.addDirs(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addDirs(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// Run reads events until ctx is done and sends each quiet period's changed
// files, sorted, to out.
func (w *Watcher) Run(ctx context.Context, out chan<- []string) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				w.maybeAddDir(ev.Name)
			}
			if !w.relevant(ev) {
				continue
			}
			pending[source.CanonicalPath(ev.Name)] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			trace.Point(w.tracer, trace.ScopeSession, "watch error", err.Error())

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			slices.Sort(batch)
			clear(pending)

			select {
			case out <- batch:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return w.accept == nil || w.accept(ev.Name)
}

// maybeAddDir starts watching path if it is a new directory.
func (w *Watcher) maybeAddDir(path string) {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		// обычный файл или уже удалён
		return
	}
	trace.Point(w.tracer, trace.ScopeSession, "watch dir", path)
}
