// Package source loads the graph and options files and reports changes.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/recera/visgraph/pkg/debounce"
	"github.com/recera/visgraph/pkg/graph"
	"github.com/recera/visgraph/pkg/logging"
	"github.com/recera/visgraph/pkg/options"
)

const (
	settle    = 100 * time.Millisecond
	maxSettle = 500 * time.Millisecond
)

// Snapshot is one load of the files.
type Snapshot struct {
	Data    graph.Data
	Options options.Options
	Err     error
	At      time.Time
}

// Source reads a graph file and an optional options file.
type Source struct {
	graphPath   string
	optionsPath string
	log         *log.Logger
}

// New creates a source. optionsPath may be empty.
func New(graphPath, optionsPath string) *Source {
	return &Source{graphPath: graphPath, optionsPath: optionsPath, log: logging.For("source")}
}

// Paths returns the watched files.
func (s *Source) Paths() []string {
	if s.optionsPath == "" {
		return []string{s.graphPath}
	}
	return []string{s.graphPath, s.optionsPath}
}

// Load reads both files. A failure is reported in Snapshot.Err.
func (s *Source) Load() Snapshot {
	snap := Snapshot{At: time.Now()}
	d, err := graph.Load(s.graphPath)
	if err != nil {
		snap.Err = err
		return snap
	}
	snap.Data = d
	if s.optionsPath != "" {
		o, err := options.Load(s.optionsPath)
		if err != nil {
			snap.Err = fmt.Errorf("%s: %w", s.optionsPath, err)
			return snap
		}
		snap.Options = o
	}
	return snap
}

// Watch calls fn with a fresh Snapshot after the files change, until ctx is
// done. Bursts of writes are coalesced. Directories are watched rather than
// files so editors that replace files on save are followed.
func (s *Source) Watch(ctx context.Context, fn func(Snapshot)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	wanted := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range s.Paths() {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		wanted[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	reload := debounce.New(func() { fn(s.Load()) }, settle, maxSettle)
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, _ := filepath.Abs(event.Name)
			if !wanted[abs] || event.Op == fsnotify.Chmod {
				continue
			}
			s.log.Debug("file changed", "path", event.Name, "op", event.Op)
			reload.Trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", "err", err)
		}
	}
}
