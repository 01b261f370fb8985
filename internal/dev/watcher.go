// Package dev implements watch mode: the project's surface, catalog, and
// request files are watched, and every relevant change re-runs the pipeline.
package dev

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher watches files for changes based on patterns
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	exclude  []string
	logger   zerolog.Logger
	onChange func(path string, op fsnotify.Op)
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(patterns, exclude []string, logger zerolog.Logger, onChange func(path string, op fsnotify.Op)) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		patterns: patterns,
		exclude:  exclude,
		logger:   logger,
		onChange: onChange,
	}, nil
}

// AddDirectory recursively adds a directory tree to the watcher, skipping
// excluded subtrees.
func (fw *FileWatcher) AddDirectory(dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		for _, pattern := range fw.exclude {
			matched, _ := filepath.Match(strings.TrimSuffix(pattern, "/"), filepath.Base(path))
			if matched {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		// Only directories are registered; events arrive for their files
		if info.IsDir() {
			if err := fw.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch directory %s: %w", path, err)
			}
		}
		return nil
	})
}

// Start begins watching for file changes until the context is cancelled
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			if fw.matches(event.Name) {
				fw.onChange(event.Name, event.Op)
			}

			// A directory created under a watched tree must be watched too
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					fw.AddDirectory(event.Name)
				}
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				fw.logger.Warn().Err(err).Msg("Watcher error")
			}
		}
	}
}

// matches checks if a changed file should trigger a rebuild
func (fw *FileWatcher) matches(path string) bool {
	base := filepath.Base(path)

	for _, pattern := range fw.exclude {
		if matched, _ := filepath.Match(strings.TrimSuffix(pattern, "/"), base); matched {
			return false
		}
	}

	for _, pattern := range fw.patterns {
		if strings.HasPrefix(pattern, "**/*.") {
			if strings.HasSuffix(path, strings.TrimPrefix(pattern, "**/*")) {
				return true
			}
		} else if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
