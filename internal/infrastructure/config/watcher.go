package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Watcher hot-reloads the widget and assistant sections when the config
// file changes, so the greeting or the upstream URL can be adjusted
// without restarting the gateway. Safe for concurrent reads.
//
// Usage:
//
//	w, _ := NewWatcher("config.yaml", cfg, logger)
//	greeting := w.Widget().Greeting // always the latest
type Watcher struct {
	mu        sync.RWMutex
	widget    WidgetConfig
	assistant AssistantConfig
	v         *viper.Viper
	logger    *zap.Logger
}

// NewWatcher creates a watcher seeded from the loaded config. If the file
// does not exist the seeded values stay in effect and no watch is set up.
func NewWatcher(path string, cfg *Config, logger *zap.Logger) (*Watcher, error) {
	w := &Watcher{
		widget:    cfg.Widget,
		assistant: cfg.Assistant,
		v:         viper.New(),
		logger:    logger.With(zap.String("component", "config-watcher")),
	}

	w.v.SetConfigFile(path)
	if err := w.v.ReadInConfig(); err != nil {
		w.logger.Warn("Config file not watchable, using startup values",
			zap.String("path", path),
			zap.Error(err),
		)
		return w, nil
	}

	w.apply()
	w.v.OnConfigChange(func(e fsnotify.Event) {
		w.logger.Info("Config file changed", zap.String("event", e.Name))
		w.apply()
	})
	w.v.WatchConfig()

	return w, nil
}

// Widget returns the current widget section (thread-safe).
func (w *Watcher) Widget() WidgetConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.widget
}

// Assistant returns the current assistant section (thread-safe).
func (w *Watcher) Assistant() AssistantConfig {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.assistant
}

func (w *Watcher) apply() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if s := w.v.GetString("widget.greeting"); s != "" {
		w.widget.Greeting = s
	}
	if s := w.v.GetString("widget.lead_prompt"); s != "" {
		w.widget.LeadPrompt = s
	}
	if s := w.v.GetString("assistant.base_url"); s != "" {
		w.assistant.BaseURL = s
	}
	if d := w.v.GetDuration("assistant.timeout"); d > 0 {
		w.assistant.Timeout = d
	}
}
