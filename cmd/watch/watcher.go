package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	"dist":         true,
	"coverage":     true,
}

func watchAndRebuild(ctx context.Context, root string, r *rebuilder, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return fmt.Errorf("failed to watch directories: %w", err)
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevantChange(root, event) {
				continue
			}
			logger.Debug("change detected", "path", event.Name, "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, func() {
				if err := r.rebuild(ctx); err != nil && ctx.Err() == nil {
					logger.Error("rebuild failed", "err", err)
				}
			})

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		}
	}
}

// isRelevantChange reports whether event may change the compilation. Any file
// can be a context member, so only the operation and location are checked.
func isRelevantChange(root string, event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}

	rel, err := filepath.Rel(root, event.Name)
	if err != nil {
		return false
	}
	for _, segment := range strings.Split(filepath.ToSlash(rel), "/") {
		if skippedDirs[segment] {
			return false
		}
	}
	return true
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers every directory under root that is not
// skipped. Directories that vanish during the walk are ignored.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
