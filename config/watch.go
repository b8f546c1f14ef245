package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reports writes to a fixed set of files.
type Watcher struct {
	files    map[string]bool
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange func(path string)
}

// NewWatcher watches the directories holding paths. Directories are watched
// rather than files so editors that save by rename are still seen.
func NewWatcher(logger zerolog.Logger, onChange func(path string), paths ...string) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		files:    make(map[string]bool, len(paths)),
		logger:   logger,
		watcher:  watcher,
		onChange: onChange,
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("absolute path: %w", err)
		}
		w.files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watch directory: %w", err)
		}
		dirs[dir] = true
		logger.Info().Str("path", abs).Msg("watching for changes")
	}

	return w, nil
}

// Run delivers changes on the calling goroutine until ctx is done or the
// watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if !w.files[filepath.Clean(event.Name)] {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("file changed")
				w.onChange(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
