package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/ganymede/pkg/config"
)

// WeightWatcher watches the configuration file and hot-applies model
// weight changes to a running manager. Structural changes (models,
// credentials, strategies, limits) require a restart and are only logged.
//
// Editors commonly produce several write events per save, so reloads are
// debounced behind a quiet period.
type WeightWatcher struct {
	watcher  *fsnotify.Watcher
	manager  *Manager
	path     string
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopCh  chan struct{}
	stopped bool
}

const defaultReloadDebounce = 100 * time.Millisecond

// NewWeightWatcher creates a watcher for the given configuration path.
func NewWeightWatcher(path string, mgr *Manager) (*WeightWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &WeightWatcher{
		watcher:  watcher,
		manager:  mgr,
		path:     path,
		debounce: defaultReloadDebounce,
		stopCh:   make(chan struct{}),
	}, nil
}

// Watch blocks processing file events until the context is cancelled or
// Stop is called.
func (w *WeightWatcher) Watch(ctx context.Context) error {
	if err := w.watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch %q: %w", w.path, err)
	}

	slog.Info("weight reload watcher started", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			slog.Info("weight reload watcher stopped")
			return nil

		case <-w.stopCh:
			slog.Info("weight reload watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.trigger()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			slog.Error("weight reload watcher error", "error", err)
		}
	}
}

// Stop stops the watcher and releases the underlying fsnotify handle.
func (w *WeightWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.stopCh)
	return w.watcher.Close()
}

// trigger resets the debounce timer; the reload fires after a quiet period.
func (w *WeightWatcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.reload)
}

// reload re-parses the configuration and applies weight changes. The file
// must pass full validation; a broken edit leaves the running weights
// untouched.
func (w *WeightWatcher) reload() {
	cfg, err := config.LoadConfig(w.path)
	if err != nil {
		slog.Error("weight reload rejected", "path", w.path, "error", err)
		return
	}
	w.manager.ApplyWeights(cfg)
}

// ApplyWeights copies model weights from the given configuration onto the
// live registry. Models missing from the new configuration, or present
// only there, are logged and skipped.
func (m *Manager) ApplyWeights(cfg *config.Config) {
	seen := make(map[string]bool, len(cfg.EnabledModels))
	for _, name := range cfg.EnabledModels {
		seen[name] = true

		model, ok := m.byName[name]
		if !ok {
			slog.Warn("new model in configuration requires restart", "model", name)
			continue
		}
		mc := cfg.Models[name]
		if model.Weight() == mc.Weight {
			continue
		}
		old := model.Weight()
		if err := model.SetWeight(mc.Weight); err != nil {
			slog.Error("weight update rejected", "model", name, "error", err)
			continue
		}
		slog.Info("model weight updated", "model", name, "old", old, "new", mc.Weight)
	}

	for name := range m.byName {
		if !seen[name] {
			slog.Warn("model removal requires restart", "model", name)
		}
	}
}
