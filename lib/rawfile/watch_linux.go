//go:build linux

package rawfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/jhenstridge/go-inotify"
)

// Watch reports frame files that are written or moved into dir until ctx is
// cancelled. The channel is closed when watching stops.
func Watch(ctx context.Context, dir string) (<-chan *File, error) {
	watcher, err := inotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create inotify watcher: %w", err)
	}

	_, err = watcher.Watch(dir)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("could not watch %s: %w", dir, err)
	}

	log := slog.With("module", "rawfile")
	out := make(chan *File)
	go func() {
		defer close(out)
		defer func(watcher *inotify.Watcher) {
			err := watcher.Close()
			if err != nil {
				log.Warn("Could not close inotify watcher", "err", err)
			}
		}(watcher)

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Event:
				if !ok {
					return
				}
				if ev.Mask&(inotify.IN_CLOSE_WRITE|inotify.IN_MOVED_TO) == 0 {
					continue
				}
				name := filepath.Base(ev.Name)
				if IsOutput(name) {
					continue
				}
				f, err := NewFile(filepath.Join(dir, name))
				if err != nil {
					log.Debug("Ignoring new file", "name", name, "reason", err)
					continue
				}
				log.Debug("New frame file due to inotify event", "name", name)
				select {
				case out <- f:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
