package persistence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// WatchWorkspace reconciles the registry whenever generated sources change
// on disk, e.g. when a user edits a file outside the app. Events are
// debounced so a burst of writes triggers a single reload. Blocks until ctx
// is done.
func WatchWorkspace(ctx context.Context, workspace Workspace, reload func() error) error {
	if err := workspace.EnsureDirs(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()

	if err != nil {
		return fmt.Errorf("create workspace watcher: %w", err)
	}

	defer watcher.Close()

	for _, dir := range []string{workspace.RoutesDir(), workspace.TemplatesDir()} {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !event.Op.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				pending = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))

		case <-pending:
			timer = nil
			pending = nil

			if err := reload(); err != nil {
				slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
			}
		}
	}
}
