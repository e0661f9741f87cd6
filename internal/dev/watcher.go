package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeKind classifies a detected change.
type ChangeKind int

const (
	// ChangeSource is a Go source change requiring a rebuild.
	ChangeSource ChangeKind = iota

	// ChangeAsset is a static asset change; no rebuild needed.
	ChangeAsset
)

// Change is a detected file change.
type Change struct {
	Path string
	Kind ChangeKind
}

// DefaultIgnore lists names and patterns the watcher always skips.
var DefaultIgnore = []string{
	".git",
	".unison",
	"node_modules",
	"dist",
	"*_test.go",
	"*.tmp",
	"*.swp",
	"*~",
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore patterns to skip in addition to DefaultIgnore. Plain names
	// match any path segment; globs match the base name.
	Ignore []string

	// Interval is the polling interval. Defaults to 200ms.
	Interval time.Duration
}

// Watcher polls the configured paths for modified, created, and deleted
// files and delivers changes on a channel.
type Watcher struct {
	config  WatcherConfig
	changes chan Change

	mu         sync.Mutex
	timestamps map[string]time.Time
	running    bool
	stop       chan struct{}
}

// NewWatcher creates a watcher. Call Start to begin polling.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 200 * time.Millisecond
	}
	config.Ignore = append(append([]string{}, DefaultIgnore...), config.Ignore...)

	return &Watcher{
		config:     config,
		changes:    make(chan Change, 64),
		timestamps: make(map[string]time.Time),
	}
}

// Changes returns the channel changes are delivered on.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start polls until ctx is cancelled or Stop is called. The first scan
// records baseline timestamps without reporting changes.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stop = make(chan struct{})
	stop := w.stop
	w.mu.Unlock()

	w.scan(false)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			w.scan(true)
		}
	}
}

// Stop ends polling. Safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stop)
		w.running = false
	}
}

// IsRunning reports whether the watcher is polling.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// scan walks the watched paths once. When report is true, differences
// against the recorded timestamps are sent as changes.
func (w *Watcher) scan(report bool) {
	seen := make(map[string]bool)
	var changes []Change

	for _, root := range w.config.Paths {
		filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if w.ignored(p) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if info.IsDir() {
				return nil
			}

			seen[p] = true

			w.mu.Lock()
			prev, known := w.timestamps[p]
			w.timestamps[p] = info.ModTime()
			w.mu.Unlock()

			if report && (!known || info.ModTime().After(prev)) {
				changes = append(changes, Change{Path: p, Kind: classify(p)})
			}
			return nil
		})
	}

	// Deleted files.
	w.mu.Lock()
	for p := range w.timestamps {
		if !seen[p] {
			delete(w.timestamps, p)
			if report {
				changes = append(changes, Change{Path: p, Kind: classify(p)})
			}
		}
	}
	w.mu.Unlock()

	for _, c := range changes {
		select {
		case w.changes <- c:
		default:
			// Channel full; the pending rebuild covers this change too.
		}
	}
}

// ignored reports whether a path matches an ignore pattern.
func (w *Watcher) ignored(p string) bool {
	base := filepath.Base(p)
	for _, pattern := range w.config.Ignore {
		if pattern == "" {
			continue
		}
		if strings.ContainsAny(pattern, "*?[") {
			if ok, _ := filepath.Match(pattern, base); ok {
				return true
			}
			continue
		}
		if base == pattern {
			return true
		}
		for _, seg := range strings.Split(filepath.ToSlash(p), "/") {
			if seg == pattern {
				return true
			}
		}
	}
	return false
}

// classify maps a file extension to a change kind.
func classify(p string) ChangeKind {
	if strings.ToLower(filepath.Ext(p)) == ".go" {
		return ChangeSource
	}
	return ChangeAsset
}
