// Package watch reruns the site pipelines when source files change.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc performs one synchronous pass over the site.
type RunFunc func(ctx context.Context) error

// Target is a directory to watch and the file extension that matters in it.
type Target struct {
	Dir string
	Ext string
}

// Watch runs fn once, then again after every burst of relevant changes in
// targets, until ctx is cancelled. Bursts are coalesced over debounce. Runs
// never overlap. A failing run is logged and does not stop the loop.
func Watch(ctx context.Context, targets []Target, debounce time.Duration, logger *slog.Logger, fn RunFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	exts := make(map[string]string, len(targets))
	for _, t := range targets {
		dir := filepath.Clean(t.Dir)
		if err := w.Add(dir); err != nil {
			return err
		}
		exts[dir] = t.Ext
		logger.Info("watcher: watching", slog.String("dir", dir), slog.String("ext", t.Ext))
	}

	run := func() {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			logger.Error("watcher: run failed", slog.String("error", err.Error()))
		}
	}
	run()

	// timer is used to debounce bursts of events into one run.
	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			run()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			ext, watched := exts[filepath.Dir(ev.Name)]
			if !watched || filepath.Ext(ev.Name) != ext {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
