package models

import "regexp"

var storageKeyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidStorageKey reports whether key can name a stored value: a letter or
// digit followed by letters, digits, '_', '.' or '-'.
func ValidStorageKey(key string) bool {
	return storageKeyPattern.MatchString(key)
}

// StorageConfig controls where and how the task collection is persisted.
type StorageConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Format    string `yaml:"format" mapstructure:"format"`
	QueueSize int    `yaml:"queue_size" mapstructure:"queue_size"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	File   string `yaml:"file" mapstructure:"file"`
}

// EditingConfig controls how an edit submit is applied.
type EditingConfig struct {
	// ApplyAllFields amends description, date and time on edit submit
	// in addition to the title.
	ApplyAllFields bool `yaml:"apply_all_fields" mapstructure:"apply_all_fields"`
}

// UIConfig holds presentation defaults.
type UIConfig struct {
	DefaultFilter FilterMode `yaml:"default_filter" mapstructure:"default_filter"`
}

// EventsConfig toggles the JSONL event log.
type EventsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Config holds every setting read from .taskpad.yaml via Viper.
type Config struct {
	Storage StorageConfig `yaml:"storage" mapstructure:"storage"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Editing EditingConfig `yaml:"editing" mapstructure:"editing"`
	UI      UIConfig      `yaml:"ui" mapstructure:"ui"`
	Events  EventsConfig  `yaml:"events" mapstructure:"events"`
}
