// Package config watches the config file and notifies subscribers on change.
package config

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/kart-io/logger"
	"github.com/spf13/viper"
)

// ChangeHandler is invoked with the re-read viper instance after the config
// file changes.
type ChangeHandler func(v *viper.Viper) error

// Watcher fans config file changes out to subscribed handlers.
type Watcher struct {
	viper    *viper.Viper
	handlers map[string]ChangeHandler
	mu       sync.RWMutex
	watching bool
}

// NewWatcher creates a watcher over a viper instance that already has a
// config file loaded.
func NewWatcher(v *viper.Viper) *Watcher {
	return &Watcher{
		viper:    v,
		handlers: make(map[string]ChangeHandler),
	}
}

// Subscribe registers or replaces the handler with the given id.
func (w *Watcher) Subscribe(id string, handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[id] = handler
	logger.Debugw("config watcher: handler subscribed", "handler", id)
}

// Unsubscribe removes a handler; unknown ids are ignored.
func (w *Watcher) Unsubscribe(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.handlers, id)
}

// Start begins watching the config file. Calling it twice has no effect.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return
	}
	w.watching = true
	w.mu.Unlock()

	w.viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Infow("config file changed", "file", e.Name, "op", e.Op.String())
		w.notify()
	})
	w.viper.WatchConfig()
	logger.Infow("config watcher started", "file", w.viper.ConfigFileUsed())
}

// Stop marks the watcher as stopped; later change events are dropped.
// viper offers no way to remove the underlying fsnotify watch.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watching = false
}

// IsWatching reports whether Start has been called without a later Stop.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// HandlerCount returns the number of registered handlers.
func (w *Watcher) HandlerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.handlers)
}

// notify calls every handler in id order. A failing handler is logged and
// does not stop the others. It returns the number of failed handlers.
func (w *Watcher) notify() int {
	w.mu.RLock()
	if !w.watching {
		w.mu.RUnlock()
		return 0
	}
	ids := make([]string, 0, len(w.handlers))
	for id := range w.handlers {
		ids = append(ids, id)
	}
	handlers := make(map[string]ChangeHandler, len(w.handlers))
	for id, h := range w.handlers {
		handlers[id] = h
	}
	w.mu.RUnlock()
	sort.Strings(ids)

	failed := 0
	for _, id := range ids {
		if err := handlers[id](w.viper); err != nil {
			failed++
			logger.Errorw("config watcher: handler failed", "handler", id, "error", err.Error())
		}
	}
	return failed
}

// ReloadableSubscriber adapts a Reloadable to a ChangeHandler that decodes
// one config section into target before handing it over.
type ReloadableSubscriber struct {
	component Reloadable
	configKey string
	target    any
}

// NewReloadableSubscriber creates a subscriber for configKey (e.g. "log");
// target must be a pointer.
func NewReloadableSubscriber(component Reloadable, configKey string, target any) *ReloadableSubscriber {
	return &ReloadableSubscriber{
		component: component,
		configKey: configKey,
		target:    target,
	}
}

// Handler returns the ChangeHandler to register with a Watcher.
func (rs *ReloadableSubscriber) Handler() ChangeHandler {
	return func(v *viper.Viper) error {
		if err := v.UnmarshalKey(rs.configKey, rs.target); err != nil {
			return fmt.Errorf("failed to unmarshal config key '%s': %w", rs.configKey, err)
		}
		if err := rs.component.OnConfigChange(rs.target); err != nil {
			return fmt.Errorf("component rejected config change: %w", err)
		}
		return nil
	}
}
