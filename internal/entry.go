// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/starford/manuscript/internal/site"
	"github.com/starford/manuscript/internal/storage"
	"github.com/starford/manuscript/internal/watch"
)

// Commands.
const (
	CommandIngest  = "ingest"
	CommandRebuild = "rebuild"
	CommandWatch   = "watch"
)

// Run executes the selected command with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{output: os.Stderr}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg, app)
	slog.SetDefault(logger)

	logger.Debug("Configuration loaded",
		slog.String("command", app.command),
		slog.String("root", cfg.Site.Root),
		slog.String("raw_dir", cfg.Site.RawDir),
		slog.String("notes_dir", cfg.Site.NotesDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Site.Root)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	svc := site.NewService(store, cfg.Settings(), logger)

	switch app.command {
	case CommandIngest:
		_, err := svc.Ingest(ctx)
		return err
	case CommandRebuild:
		_, err := svc.Rebuild(ctx)
		return err
	case CommandWatch:
		return runWatch(ctx, cfg, store, svc, logger)
	default:
		return fmt.Errorf("unknown command %q", app.command)
	}
}

func newLogger(cfg *Config, app *application) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: cfg.App.LogLevel}
	if cfg.App.LogFormat == LogFormatText {
		return slog.New(slog.NewTextHandler(app.output, hopts))
	}
	return slog.New(slog.NewJSONHandler(app.output, hopts))
}

// runWatch runs ingest then rebuild on every change to raw notes or rendered
// articles until a shutdown signal arrives.
func runWatch(ctx context.Context, cfg *Config, store *storage.FS, svc *site.Service, logger *slog.Logger) error {
	for _, dir := range []string{cfg.Site.RawDir, cfg.Site.NotesDir} {
		if err := store.EnsureDir(dir); err != nil {
			return err
		}
	}
	rawDir, err := store.Abs(cfg.Site.RawDir)
	if err != nil {
		return err
	}
	notesDir, err := store.Abs(cfg.Site.NotesDir)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		targets := []watch.Target{{Dir: rawDir, Ext: ".txt"}, {Dir: notesDir, Ext: ".html"}}
		return watch.Watch(gCtx, targets, cfg.Watch.Debounce, logger, func(ctx context.Context) error {
			if _, err := svc.Ingest(ctx); err != nil {
				return fmt.Errorf("ingest: %w", err)
			}
			if _, err := svc.Rebuild(ctx); err != nil {
				return fmt.Errorf("rebuild: %w", err)
			}
			return nil
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
			cancel()
		case <-gCtx.Done():
		}
		return nil
	})

	return g.Wait()
}
