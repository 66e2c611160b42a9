package alias

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"promptshell/internal/logging"
)

// Watch reloads the alias store when the file changes on disk (for example
// after an external edit or import from another shell). The watcher runs
// until stop is closed. Watching the directory rather than the file survives
// rename-style saves.
func (m *Manager) Watch(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(m.path) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := m.Reload(); err != nil {
					logging.Alias("reload after change failed: %v", err)
					continue
				}
				logging.Alias("reloaded aliases after external change")
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logging.Alias("watcher error: %v", err)
			case <-stop:
				return
			}
		}
	}()
	return nil
}
