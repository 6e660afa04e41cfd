// Package core contains the task state-management engine for taskpad: the
// task store, the editing session, filtering, detail selection, and the
// board that ties them together, plus configuration loading.
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/valter-silva-au/taskpad/pkg/models"
)

// ConfigFileName is the base name of the configuration file, without extension.
const ConfigFileName = ".taskpad"

// ConfigurationManager loads and validates taskpad configuration.
type ConfigurationManager interface {
	LoadConfig() (*models.Config, error)
	ValidateConfig(cfg *models.Config) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading .taskpad.yaml and TASKPAD_* environment variables.
type viperConfigManager struct {
	basePath string
}

// NewConfigurationManager creates a ConfigurationManager that reads
// .taskpad.yaml from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *models.Config {
	return &models.Config{
		Storage: models.StorageConfig{
			Key:       "tasks",
			Format:    "json",
			QueueSize: 64,
		},
		Logging: models.LoggingConfig{
			Level:  "info",
			Format: "json",
			File:   "taskpad.log",
		},
		UI:     models.UIConfig{DefaultFilter: models.FilterAll},
		Events: models.EventsConfig{Enabled: true},
	}
}

// LoadConfig reads .taskpad.yaml from the base path. A missing file yields
// defaults; environment variables such as TASKPAD_STORAGE_FORMAT override
// both.
func (cm *viperConfigManager) LoadConfig() (*models.Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)
	v.SetEnvPrefix("TASKPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("storage.key", def.Storage.Key)
	v.SetDefault("storage.format", def.Storage.Format)
	v.SetDefault("storage.queue_size", def.Storage.QueueSize)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("editing.apply_all_fields", def.Editing.ApplyAllFields)
	v.SetDefault("ui.default_filter", string(def.UI.DefaultFilter))
	v.SetDefault("events.enabled", def.Events.Enabled)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading %s.yaml: %w", ConfigFileName, err)
		}
	}

	cfg := &models.Config{
		Storage: models.StorageConfig{
			Key:       v.GetString("storage.key"),
			Format:    strings.ToLower(v.GetString("storage.format")),
			QueueSize: v.GetInt("storage.queue_size"),
		},
		Logging: models.LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: strings.ToLower(v.GetString("logging.format")),
			File:   v.GetString("logging.file"),
		},
		Editing: models.EditingConfig{
			ApplyAllFields: v.GetBool("editing.apply_all_fields"),
		},
		UI: models.UIConfig{
			DefaultFilter: models.FilterMode(v.GetString("ui.default_filter")),
		},
		Events: models.EventsConfig{
			Enabled: v.GetBool("events.enabled"),
		},
	}

	if err := cm.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateConfig checks that every enumerated setting holds a known value.
func (cm *viperConfigManager) ValidateConfig(cfg *models.Config) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}
	if strings.TrimSpace(cfg.Storage.Key) == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if !models.ValidStorageKey(cfg.Storage.Key) {
		return fmt.Errorf("storage.key %q: must start with a letter or digit and contain only letters, digits, '_', '.' or '-'", cfg.Storage.Key)
	}
	switch cfg.Storage.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("storage.format %q: must be json or yaml", cfg.Storage.Format)
	}
	if cfg.Storage.QueueSize <= 0 {
		return fmt.Errorf("storage.queue_size must be positive, got %d", cfg.Storage.QueueSize)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format %q: must be json or text", cfg.Logging.Format)
	}
	if _, err := models.ParseFilterMode(string(cfg.UI.DefaultFilter)); err != nil {
		return fmt.Errorf("ui.default_filter: %w", err)
	}
	return nil
}
