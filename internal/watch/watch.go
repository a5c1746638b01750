// Package watch reruns a callback when watched source files change
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups editor save bursts into one run
const DefaultDebounce = 300 * time.Millisecond

// Filter reports whether a changed file should trigger a run
type Filter func(path string) bool

// Watcher watches directories and coalesces change events
type Watcher struct {
	fsw       *fsnotify.Watcher
	filter    Filter
	debounce  time.Duration
	recursive bool
}

// New watches every directory in dirs. A nil filter accepts all files.
// With recursive set, directories created under a watched directory are
// watched as well
func New(dirs []string, filter Filter, debounce time.Duration, recursive bool) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{fsw: fsw, filter: filter, debounce: debounce, recursive: recursive}, nil
}

// Run calls fn once per burst of relevant events until ctx is done. An error
// from fn stops the loop and is returned
func (w *Watcher) Run(ctx context.Context, fn func(changed []string) error) error {
	defer w.fsw.Close()

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = map[string]struct{}{}
	)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}

			marked := 0
			// A new directory has to be added before events below it arrive.
			// Files written into it before that are picked up by the walk
			if w.recursive && event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					n, err := w.addTree(event.Name, pending)
					if err != nil {
						return err
					}
					marked += n
				}
			}
			if name := filepath.Clean(event.Name); w.filter(name) {
				pending[name] = struct{}{}
				marked++
			}
			if marked == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher error: %w", err)
		case <-timerC:
			timerC = nil
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			pending = map[string]struct{}{}
			if err := fn(changed); err != nil {
				return err
			}
		}
	}
}

// addTree watches root and its subdirectories and marks the files already
// inside them as changed. It returns the number of marked files
func (w *Watcher) addTree(root string, pending map[string]struct{}) (int, error) {
	marked := 0
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Removed again before we got to it
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if err := w.fsw.Add(p); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
			return nil
		}
		if name := filepath.Clean(p); w.filter(name) {
			pending[name] = struct{}{}
			marked++
		}
		return nil
	})
	return marked, err
}

// Close stops watching without running
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
