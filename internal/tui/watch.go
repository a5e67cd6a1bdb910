package tui

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// Watch calls notify whenever a session file in dir is written, created,
// renamed into place or removed, until ctx is cancelled.
func Watch(ctx context.Context, dir string, logger *slog.Logger, notify func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSessionFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				logger.Debug("session file changed", "path", event.Name, "op", event.Op.String())
				notify()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			// Watcher errors are non-fatal; continue watching.
			logger.Warn("watching sessions", "dir", dir, "error", err)
		}
	}
}

// isSessionFile skips the temp files written during an atomic save.
func isSessionFile(path string) bool {
	return strings.HasSuffix(filepath.Base(path), ".md")
}

// Run opens the live view full screen and reloads it when dir changes.
func Run(ctx context.Context, load Loader, dir string, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(load, dir), tea.WithAltScreen(), tea.WithContext(ctx))
	go func() {
		err := Watch(ctx, dir, logger, func() { p.Send(ReloadMsg{}) })
		if err != nil {
			logger.Warn("live reload disabled", "dir", dir, "error", err)
		}
	}()

	_, err := p.Run()
	return err
}
