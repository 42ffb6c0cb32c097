package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/platinummonkey/reel/pkg/observability"
)

// WatchLogLevel re-reads observability.log_level from path whenever the file
// is written and applies it to logger. It returns once the watch is
// established; the watch stops when ctx is done.
//
// The directory is watched rather than the file so editors that replace the
// file on save keep being picked up.
func WatchLogLevel(ctx context.Context, path string, logger *observability.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to resolve config path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()
		defer observability.RecoverPanic(logger, "config watcher")

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				reloadLogLevel(abs, logger)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.WithError(err).Warn("Config watcher error")
			}
		}
	}()

	return nil
}

func reloadLogLevel(path string, logger *observability.Logger) {
	fc, err := readFile(path)
	if err != nil {
		// Partial writes are common; the next event will retry
		logger.WithError(err).Debug("Skipping config reload")
		return
	}
	if fc.Observability.LogLevel == "" {
		return
	}

	level := observability.ParseLogLevel(fc.Observability.LogLevel)
	if level == logger.Level() {
		return
	}
	logger.SetLevel(level)
	logger.WithField("level", fc.Observability.LogLevel).Info("Log level reloaded")
}
