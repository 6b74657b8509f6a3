package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lawnchairsociety/roguestats/internal/logger"
)

// FileWatcher calls a function after a file has been written and then left
// alone for the debounce interval.
type FileWatcher struct {
	path     string
	debounce time.Duration
	onChange func()
	watcher  *fsnotify.Watcher
}

// NewFileWatcher watches path. The parent directory is watched so editors
// that replace the file by renaming are still seen.
func NewFileWatcher(path string, debounce time.Duration, onChange func()) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	return &FileWatcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  w,
	}, nil
}

// Run delivers change notifications until ctx is done. It closes the
// underlying watcher on return.
func (fw *FileWatcher) Run(ctx context.Context) error {
	defer fw.watcher.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	logger.Info("Watching spawn log", "path", fw.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("Spawn log changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(fw.debounce)
			} else {
				timer.Reset(fw.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warning("File watcher error", "error", err)

		case <-fire:
			fire = nil
			fw.onChange()
		}
	}
}
