package formz

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches a file and emits its contents. It watches the parent
// directory so that editors replacing the file by rename are still seen.
type FileWatcher struct {
	path string
}

// NewFileWatcher creates a FileWatcher for path.
func NewFileWatcher(path string) *FileWatcher {
	return &FileWatcher{path: path}
}

// Watch emits the current contents, then the contents after every write,
// create or rename onto the file.
func (w *FileWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	path, err := filepath.Abs(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to watch file %s: %w", w.path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory of %s: %w", w.path, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer watcher.Close()

		emit := func() bool {
			data, err := os.ReadFile(path)
			if err != nil {
				return true
			}
			select {
			case out <- data:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if !emit() {
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Keep watching; the next event re-reads the file.
			}
		}
	}()

	return out, nil
}
