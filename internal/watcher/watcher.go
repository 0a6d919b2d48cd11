// Package watcher reloads the topology document when its file
// changes on disk, debouncing the editor write bursts that replace
// files in place.
package watcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DocumentWatcher watches one topology document for changes.
type DocumentWatcher struct {
	path     string
	onChange func()
	debounce time.Duration
}

// New creates a watcher calling onChange after the document settles.
func New(path string, onChange func()) *DocumentWatcher {
	return &DocumentWatcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration.
func (w *DocumentWatcher) WithDebounce(d time.Duration) *DocumentWatcher {
	w.debounce = d
	return w
}

// Watch blocks until the context is cancelled, invoking onChange for
// each settled change to the document. The containing directory is
// watched, not the file, so replace-by-rename edits are seen.
func (w *DocumentWatcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	filename := filepath.Base(w.path)
	if err := fw.Add(dir); err != nil {
		return err
	}

	log.Printf("Watching %s for changes", w.path)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, func() {
				log.Printf("Topology document changed: %s", w.path)
				w.onChange()
			})

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
