package logger

import (
	"fmt"
	"sync"

	"github.com/kart-io/logger"

	configpkg "github.com/Shreeshail-sp/docsearch/pkg/infra/config"
	logopts "github.com/Shreeshail-sp/docsearch/pkg/options/logger"
)

// ReloadableLogger re-initializes the global logger when the log section
// of the config file changes.
type ReloadableLogger struct {
	opts *logopts.Options
	mu   sync.Mutex
}

// NewReloadableLogger creates a new reloadable logger manager.
func NewReloadableLogger(opts *logopts.Options) *ReloadableLogger {
	return &ReloadableLogger{opts: opts}
}

// OnConfigChange implements config.Reloadable.
// Level, format and output paths are applied; the previous values are
// restored when the new logger cannot be built.
func (rl *ReloadableLogger) OnConfigChange(newConfig any) error {
	newOpts, ok := newConfig.(*logopts.Options)
	if !ok {
		return fmt.Errorf("invalid config type: expected *logger.Options, got %T", newConfig)
	}
	if errs := newOpts.Validate(); len(errs) > 0 {
		return fmt.Errorf("invalid logger configuration: %v", errs)
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	oldLevel, oldFormat, oldPaths := rl.opts.Level, rl.opts.Format, rl.opts.OutputPaths
	rl.opts.Level = newOpts.Level
	rl.opts.Format = newOpts.Format
	if len(newOpts.OutputPaths) > 0 {
		rl.opts.OutputPaths = newOpts.OutputPaths
	}

	if err := rl.opts.Init(); err != nil {
		rl.opts.Level, rl.opts.Format, rl.opts.OutputPaths = oldLevel, oldFormat, oldPaths
		return fmt.Errorf("failed to apply logger config: %w", err)
	}

	logger.Infow("logger configuration reloaded", "level", rl.opts.Level, "format", rl.opts.Format)
	return nil
}

// Level returns the active log level.
func (rl *ReloadableLogger) Level() string {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.opts.Level
}

// RegisterWithWatcher subscribes the logger to the watcher under handlerID,
// reading the configKey section on every change.
func (rl *ReloadableLogger) RegisterWithWatcher(watcher *configpkg.Watcher, handlerID, configKey string) {
	target := logopts.NewOptions()
	subscriber := configpkg.NewReloadableSubscriber(rl, configKey, target)
	watcher.Subscribe(handlerID, subscriber.Handler())
}
