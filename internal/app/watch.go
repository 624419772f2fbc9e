package app

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/vk/taskgraph/pool"
)

// watch runs the grid once, then re-runs it every time the grid file
// changes on disk. A failing reload is logged and watching continues with
// the previous results intact.
func (a *App) watch(ctx context.Context, p *pool.Pool) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("grid watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(a.config.GridPath); err != nil {
		return fmt.Errorf("grid watcher add %s: %w", a.config.GridPath, err)
	}

	if err := a.loadAndRun(ctx, p); err != nil {
		a.logger.Error("Initial run failed, still watching for changes.", "error", err)
	}

	a.logger.Info("Watching grid file for changes.", "path", a.config.GridPath)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			a.logger.Info("Grid file changed, reloading.", "path", ev.Name)
			if err := a.loadAndRun(ctx, p); err != nil {
				a.logger.Error("Reload failed, keeping previous grid.", "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Error("Grid watcher error.", "error", err)
		}
	}
}
