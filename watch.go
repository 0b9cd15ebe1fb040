package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
)

// watchConfig reloads dir/config.yml whenever it changes and sends each
// valid result on the returned channel. The directory is watched rather
// than the file so editors that replace the file on save are seen. The
// channel is closed when ctx is done.
func watchConfig(ctx context.Context, dir string, log *slog.Logger) (<-chan *Config, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	out := make(chan *Config, 1)
	go func() {
		defer close(out)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != configFileName || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				cfg, err := LoadConfig(dir)
				if err != nil {
					log.Warn("config reload failed", "err", err)
					continue
				}
				select {
				case out <- cfg:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", "err", err)
			}
		}
	}()
	return out, nil
}

// applyReload pushes the hot-reloadable parts of next into the console
// sink and reports which other changes need a restart.
func applyReload(console *ConsoleSink, cur, next *Config, log *slog.Logger) {
	console.Reload(next.Output)
	log.Info("config reloaded")

	if cur.Layout != next.Layout || cur.MaxScanLength != next.MaxScanLength ||
		cur.Forward != next.Forward || cur.Devices.Grab != next.Devices.Grab ||
		!slices.Equal(cur.Devices.Include, next.Devices.Include) ||
		cur.Log != next.Log {
		log.Warn("some config changes take effect after a restart")
	}
}
