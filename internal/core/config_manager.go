// ConfigManager centralizes configuration loading, startup validation, and
// file-watch hot-reloading for long-running commands such as
// `shiftboard watch`.
package core

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ConfigManager loads a Config from disk, validates it, and can watch its
// source files (and the holiday-rules file it names) for changes.
type ConfigManager struct {
	config     Config
	configPath []string
	logger     *Logger

	watcher     *fsnotify.Watcher
	stopChan    chan struct{}
	reloadMutex sync.RWMutex
	isReloading bool
}

// ConfigReloadEvent reports the outcome of a hot-reload attempt.
type ConfigReloadEvent struct {
	Timestamp time.Time
	Success   bool
	Error     error
	Config    *Config
	Reason    string
}

// NewConfigManager creates an empty ConfigManager.
func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		config:   Config{},
		logger:   NewDefaultLogger(),
		stopChan: make(chan struct{}),
	}
}

// Load reads configuration from paths (YAML, in order) and environment
// variables, validates it, and stores the result.
func (cm *ConfigManager) Load(paths []string) (*Config, error) {
	cm.configPath = paths

	cfg, err := NewConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	if err := cm.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cm.reloadMutex.Lock()
	cm.config = cfg
	cm.reloadMutex.Unlock()
	return &cfg, nil
}

// Validate runs structural validation over a loaded configuration,
// returning the first hard error. Warnings are logged, not returned.
func (cm *ConfigManager) Validate(cfg *Config) error {
	result := ValidateConfig(cfg)
	if result.HasWarnings() {
		for _, w := range result.Warnings {
			cm.logger.Warn("%s", w.Error())
		}
	}
	if result.HasErrors() {
		var msgs []string
		for _, e := range result.Errors {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// GetCurrentConfig returns a copy of the most recently loaded configuration.
func (cm *ConfigManager) GetCurrentConfig() Config {
	cm.reloadMutex.RLock()
	defer cm.reloadMutex.RUnlock()
	return cm.config
}

// StartHotReload watches the config files and the holiday-rules file for
// writes, reloading and invoking callback on every change.
func (cm *ConfigManager) StartHotReload(callback func(*ConfigReloadEvent)) error {
	if cm.watcher != nil {
		return fmt.Errorf("hot-reload already started")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	cm.watcher = watcher

	for _, path := range cm.configPath {
		if err := watcher.Add(path); err != nil {
			cm.logger.Debug("not watching missing config file: %s", path)
		}
	}

	cm.reloadMutex.RLock()
	holidayFile := cm.config.HolidayRulesFile
	cm.reloadMutex.RUnlock()
	if holidayFile != "" {
		if err := watcher.Add(holidayFile); err != nil {
			cm.logger.Debug("not watching missing holiday rules file: %s", holidayFile)
		}
	}

	go cm.watchFiles(callback)
	cm.logger.Info("hot-reload enabled for configuration and holiday rules")
	return nil
}

// StopHotReload stops the file watcher started by StartHotReload.
func (cm *ConfigManager) StopHotReload() {
	if cm.watcher == nil {
		return
	}
	cm.stopChan <- struct{}{}
	cm.watcher.Close()
	cm.watcher = nil
	cm.logger.Info("hot-reload stopped")
}

func (cm *ConfigManager) watchFiles(callback func(*ConfigReloadEvent)) {
	for {
		select {
		case event, ok := <-cm.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) {
				cm.logger.Info("configuration input changed: %s", event.Name)
				go cm.handleReload(callback, "file_changed")
			}
		case err, ok := <-cm.watcher.Errors:
			if !ok {
				return
			}
			cm.logger.Error("file watcher error: %v", err)
		case <-cm.stopChan:
			return
		}
	}
}

func (cm *ConfigManager) handleReload(callback func(*ConfigReloadEvent), reason string) {
	cm.reloadMutex.Lock()
	if cm.isReloading {
		cm.reloadMutex.Unlock()
		return
	}
	cm.isReloading = true
	cm.reloadMutex.Unlock()

	defer func() {
		cm.reloadMutex.Lock()
		cm.isReloading = false
		cm.reloadMutex.Unlock()
	}()

	event := &ConfigReloadEvent{Timestamp: time.Now(), Reason: reason}

	newConfig, err := cm.Load(cm.configPath)
	if err != nil {
		event.Success = false
		event.Error = err
		cm.logger.Error("configuration reload failed: %v", err)
	} else {
		event.Success = true
		event.Config = newConfig
		cm.logger.Info("configuration reloaded successfully")
	}

	if callback != nil {
		callback(event)
	}
}

