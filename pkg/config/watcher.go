package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reloads the engineering configuration when its file changes.
// The current configuration is swapped atomically; readers call Current.
type Watcher struct {
	path    string
	loader  *Loader
	logger  zerolog.Logger
	watcher *fsnotify.Watcher

	mu       sync.RWMutex
	current  *EngineConfig
	onChange func(*EngineConfig)
}

// NewWatcher creates a watcher for the given configuration file. The file
// is loaded once before watching starts.
func NewWatcher(path string, logger zerolog.Logger) (*Watcher, error) {
	loader := NewLoader()
	cfg, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the directory: editors replace files rather than write in place.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	return &Watcher{
		path:    path,
		loader:  loader,
		logger:  logger.With().Str("component", "config-watcher").Logger(),
		watcher: fw,
		current: cfg,
	}, nil
}

// Current returns the active configuration.
func (w *Watcher) Current() *EngineConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnChange registers a callback invoked after each successful reload.
func (w *Watcher) OnChange(fn func(*EngineConfig)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Run watches for changes until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("Config watch error")
		}
	}
}

// reload loads the file and swaps the active configuration. A failed
// reload keeps the previous configuration.
func (w *Watcher) reload() {
	cfg, err := w.loader.Load(w.path)
	if err != nil {
		w.logger.Error().Err(err).Str("path", w.path).Msg("Config reload failed, keeping previous")
		return
	}

	w.mu.Lock()
	w.current = cfg
	fn := w.onChange
	w.mu.Unlock()

	w.logger.Info().Str("path", w.path).Msg("Config reloaded")

	if fn != nil {
		fn(cfg)
	}
}
