package registry

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/quarry/internal/logger"
)

// Watch observes plugin manifest directories and invokes onChange with the
// affected path whenever a manifest is created, modified or removed.
//
// Registries are immutable after startup, so a change cannot be applied to
// a running process; callers typically log that a restart is required.
// Watch blocks until the context is cancelled. Missing directories are
// skipped with a diagnostic.
func Watch(ctx context.Context, onChange func(path string), dirs ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	watched := 0
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			logger.Warn("Not watching plugin location %s: %v", dir, err)
			continue
		}
		watched++
	}
	if watched == 0 {
		<-ctx.Done()
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".toml") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				onChange(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Plugin watcher error: %v", err)
		}
	}
}
