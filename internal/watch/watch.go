// Package watch re-runs a callback when PHP sources change on disk.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jhoff/phpcsfixlint/internal/lint"
	"github.com/jhoff/phpcsfixlint/internal/log"
)

// DefaultDebounce is how long the watcher waits after the last event
// before calling OnChange.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches directory trees and explicitly named files.
type Watcher struct {
	// Roots are directories (watched recursively) or files.
	Roots []string
	// Extensions selects which changed files are reported.
	Extensions []string
	Debounce   time.Duration
	Log        *log.Logger
	// OnChange receives the sorted set of files changed since the last
	// call. Calls never overlap.
	OnChange func(ctx context.Context, files []string)

	files map[string]bool
	ready func()
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	w.files = make(map[string]bool)
	for _, root := range w.Roots {
		if err := w.addRoot(fw, root); err != nil {
			return err
		}
	}
	if w.ready != nil {
		w.ready()
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	pending := make(map[string]bool)
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if lint.SkipDir(filepath.Base(event.Name)) {
						continue
					}
					if err := w.addTree(fw, event.Name); err != nil {
						w.Log.Warnf("watching %s: %v", event.Name, err)
					}
					continue
				}
			}
			if !w.wanted(event.Name) {
				continue
			}
			pending[event.Name] = true
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Log.Warnf("watcher error: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			sort.Strings(files)
			clear(pending)
			w.Log.Printf("changed: %s", strings.Join(files, ", "))
			w.OnChange(ctx, files)
		}
	}
}

// addRoot watches a directory tree, or the parent of a single file.
func (w *Watcher) addRoot(fw *fsnotify.Watcher, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watching %q: %w", root, err)
	}
	if info.IsDir() {
		return w.addTree(fw, root)
	}
	w.files[filepath.Clean(root)] = true
	return fw.Add(filepath.Dir(root))
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && lint.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		w.Log.Printf("watching %s", path)
		return fw.Add(path)
	})
}

// wanted reports whether a change to path should be reported.
func (w *Watcher) wanted(path string) bool {
	clean := filepath.Clean(path)
	if w.files[clean] {
		return true
	}
	if len(w.files) > 0 && w.inFileOnlyDir(clean) {
		return false
	}
	exts := w.Extensions
	if len(exts) == 0 {
		exts = lint.DefaultExtensions
	}
	ext := filepath.Ext(clean)
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// inFileOnlyDir reports whether path sits in a directory that is watched
// only on behalf of explicitly named files.
func (w *Watcher) inFileOnlyDir(path string) bool {
	dir := filepath.Dir(path)
	for _, root := range w.Roots {
		if info, err := os.Stat(root); err == nil && info.IsDir() && isWithin(filepath.Clean(root), dir) {
			return false
		}
	}
	for f := range w.files {
		if filepath.Dir(f) == dir {
			return true
		}
	}
	return false
}

func isWithin(root, dir string) bool {
	rel, err := filepath.Rel(root, dir)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
