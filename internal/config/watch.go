package config

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors a config file and invokes a callback with the re-loaded
// configuration whenever the file changes on disk. Only a subset of settings
// can take effect at runtime (currently the logging section); the callback
// decides what to apply. A reload that fails validation is logged and skipped,
// keeping the last good configuration in effect.
type Watcher struct {
	path     string
	onChange func(*Config)
	fw       *fsnotify.Watcher
	stopChan chan struct{}
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory rather than the file itself: editors and configmap
	// mounts replace the file via rename, which drops a file-level watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		fw:       fw,
		stopChan: make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *Watcher) Start() {
	go w.run()
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				slog.Error("config reload failed, keeping previous configuration", "path", w.path, "error", err)
				continue
			}
			slog.Info("config file changed, applying runtime settings", "path", w.path)
			w.onChange(cfg)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error", "error", err)
		case <-w.stopChan:
			return
		}
	}
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	close(w.stopChan)
	w.fw.Close()
}
