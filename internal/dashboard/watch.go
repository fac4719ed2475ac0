package dashboard

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Change reports that a watched file changed and the cache was dropped.
type Change struct {
	Path string
	Op   fsnotify.Op
}

// Watch invalidates the cache whenever one of files is written, created,
// removed, or renamed. Parent directories are watched so that atomic
// rename-on-write replacements are seen. The returned channel receives
// a Change for each invalidation (dropped if the receiver is behind) and is
// closed after ctx is done and the watcher has shut down.
func (d *Dashboard) Watch(ctx context.Context, files ...string) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	changes := make(chan Change, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				abs, err := filepath.Abs(ev.Name)
				if err != nil || !targets[abs] {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
					!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
					continue
				}
				d.logger.Debug("watched file changed", zap.String("path", abs), zap.String("op", ev.Op.String()))
				d.Invalidate()
				select {
				case changes <- Change{Path: abs, Op: ev.Op}:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.logger.Warn("watcher error", zap.Error(err))
			}
		}
	}()

	return changes, nil
}
