package dev

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/unison-ui/unison/internal/config"
)

// Loop ties the watcher and runner together: build, run, and rebuild on
// source changes until the context is cancelled.
type Loop struct {
	config  *config.Config
	logger  *slog.Logger
	runner  *Runner
	watcher *Watcher

	// debounce is how long to wait after a change before rebuilding,
	// batching rapid saves into one rebuild.
	debounce time.Duration
}

// NewLoop creates the development loop for a project.
func NewLoop(cfg *config.Config, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}

	runner := NewRunner(RunnerConfig{
		ProjectDir: cfg.Dir(),
		Tags:       cfg.Build.Tags,
	})

	watcher := NewWatcher(WatcherConfig{
		Paths: watchPaths(cfg),
	})

	return &Loop{
		config:   cfg,
		logger:   logger,
		runner:   runner,
		watcher:  watcher,
		debounce: 250 * time.Millisecond,
	}
}

// watchPaths returns the directories to watch. The project root covers
// relative watch entries; absolute entries outside it are added.
func watchPaths(cfg *config.Config) []string {
	root := cfg.Dir()
	if root == "" {
		root = "."
	}
	paths := []string{root}
	for _, p := range cfg.Dev.Watch {
		if filepath.IsAbs(p) {
			paths = append(paths, p)
		}
	}
	return paths
}

// Run builds and starts the application, then rebuilds and restarts it
// whenever Go sources change. Blocks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.runner.Stop()

	l.logger.Info("building")
	result := l.runner.Build(ctx)
	if !result.Success {
		l.logger.Error("build failed", "output", result.Output)
	} else {
		l.logger.Info("built", "duration", result.Duration.Round(time.Millisecond))
		if err := l.runner.Start(ctx); err != nil {
			l.logger.Error("start failed", "error", err)
		}
	}

	go l.watcher.Start(ctx)
	defer l.watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change := <-l.watcher.Changes():
			needsBuild := change.Kind == ChangeSource

			// Drain further changes arriving within the debounce window.
			timer := time.NewTimer(l.debounce)
		drain:
			for {
				select {
				case c := <-l.watcher.Changes():
					if c.Kind == ChangeSource {
						needsBuild = true
					}
				case <-timer.C:
					break drain
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				}
			}

			if !needsBuild {
				l.logger.Info("assets changed", "path", change.Path)
				continue
			}

			l.logger.Info("rebuilding", "trigger", change.Path)
			result := l.runner.Build(ctx)
			if !result.Success {
				l.logger.Error("build failed", "output", result.Output)
				continue
			}
			l.logger.Info("rebuilt", "duration", result.Duration.Round(time.Millisecond))
			if err := l.runner.Restart(ctx); err != nil {
				l.logger.Error("restart failed", "error", err)
			}
		}
	}
}
