package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/bastiangx/kmpbench/pkg/config"
	"github.com/fsnotify/fsnotify"
)

// WatchConfig reloads the config file at path whenever it is written or
// replaced, until ctx is done. The parent dir is watched so that editors
// which save through a rename are still seen.
func (s *Server) WatchConfig(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}
	s.log.Debug("Watching config", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			s.reloadConfig(path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("Config watcher error", "err", err)
		}
	}
}

func (s *Server) reloadConfig(path string) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		s.log.Warn("Config reload failed, keeping current config", "err", err)
		return
	}
	if cfg.Server.CacheSize != s.Config().Server.CacheSize {
		s.log.Warn("server.cache_size changes apply on restart", "current", s.Config().Server.CacheSize)
	}
	s.SetConfig(cfg)
	s.log.Info("Config reloaded", "path", path)
}
