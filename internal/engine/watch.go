package engine

// watch.go - re-running on file changes

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a burst of file events is collected before
// the change callback runs.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changed SQL files below a set of paths.
type Watcher struct {
	engine  *Engine
	watcher *fsnotify.Watcher
	ignore  *Ignore
	// dirs are watched for every SQL file in them
	dirs map[string]bool
	// files were named directly; only their parent directory is watched
	files map[string]bool
}

// NewWatcher starts watching paths: directories recursively, files through
// their parent directory. Call Close when done.
func (e *Engine) NewWatcher(paths []string) (*Watcher, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	ig, err := LoadIgnore(e.root)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		engine:  e,
		watcher: fw,
		ignore:  ig,
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
	}

	for _, p := range paths {
		if p == StdinPath {
			continue
		}
		info, err := os.Stat(p)
		if err != nil {
			_ = fw.Close()
			return nil, err
		}
		if info.IsDir() {
			if err := w.addRecursive(p); err != nil {
				_ = fw.Close()
				return nil, err
			}
			continue
		}
		w.files[filepath.Clean(p)] = true
		if err := fw.Add(filepath.Dir(p)); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignore.Match(w.engine.relative(path)) {
			return filepath.SkipDir
		}
		w.dirs[filepath.Clean(path)] = true
		return w.watcher.Add(path)
	})
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if w.files[name] {
		return true
	}
	if !w.dirs[filepath.Dir(name)] || !strings.EqualFold(filepath.Ext(name), SQLExtension) {
		return false
	}
	return !w.ignore.Match(w.engine.relative(name))
}

// Run calls onChange with the sorted changed files after each burst of
// events, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, onChange func(changed []string)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := w.engine.logger

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && w.dirs[filepath.Dir(filepath.Clean(event.Name))] {
					if err := w.addRecursive(event.Name); err != nil {
						logger.Error("failed to watch directory", "path", event.Name, "error", err)
					}
					continue
				}
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.relevant(event.Name) {
				continue
			}
			pending[filepath.Clean(event.Name)] = true

			// Debounce
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				if _, err := os.Stat(p); err == nil {
					changed = append(changed, p)
				}
			}
			clear(pending)
			if len(changed) == 0 {
				continue
			}
			sort.Strings(changed)
			logger.Debug("files changed", "count", len(changed))
			onChange(changed)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
