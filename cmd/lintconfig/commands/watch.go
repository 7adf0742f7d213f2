package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/StimulCross/configs/cmd/lintconfig/internal/settings"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// watchedFiles returns the absolute paths of the project's files that feed the
// composition. Presets are embedded and never change.
func watchedFiles(p *project) []string {
	var files []string
	for _, doc := range p.composition.Documents {
		if strings.HasPrefix(doc, "preset:") {
			continue
		}
		files = append(files, filepath.Join(p.root, filepath.FromSlash(doc)))
	}
	return files
}

// watchProject calls reload every time one of the project's files is written, created or
// replaced, until ctx is done. A failed reload is logged and the previous set of watched
// files is kept.
func watchProject(ctx context.Context, p *project, reload func() (*project, error)) error {
	logger := settings.GetLogger(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	files := map[string]bool{}
	dirs := map[string]bool{}
	track := func(p *project) error {
		for _, f := range watchedFiles(p) {
			files[f] = true
			// directories are watched so editors that replace files are still seen
			dir := filepath.Dir(f)
			if dirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
		return nil
	}
	if err := track(p); err != nil {
		return err
	}
	logger.Debug("watching", slog.Int("files", len(files)), slog.Int("dirs", len(dirs)))

	changed := make(chan string, 1)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !files[filepath.Clean(event.Name)] {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			name := event.Name
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case changed <- name:
				default:
				}
			})

		case name := <-changed:
			logger.Info("change detected", slog.String("file", filepath.Base(name)))
			next, err := reload()
			if err != nil {
				logger.Error("reload failed", slog.Any("error", err))
				continue
			}
			if err := track(next); err != nil {
				logger.Warn("watch error", slog.Any("error", err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", slog.Any("error", err))
		}
	}
}
