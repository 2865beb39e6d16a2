package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HeaderConfig bounds header extraction
type HeaderConfig struct {
	// MaxObjects is how many leading objects are scanned for keys
	MaxObjects int `yaml:"max_objects"`

	// MaxKeys caps the number of distinct columns
	MaxKeys int `yaml:"max_keys"`

	// MaxKeyLength is the longest key (in characters) accepted as a column
	MaxKeyLength int `yaml:"max_key_length"`
}

// HistoryConfig represents conversion history configuration
type HistoryConfig struct {
	// Enabled records every conversion in the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the SQLite history database
	DBPath string `yaml:"db_path"`
}

// RenderConfig controls HTML document rendering
type RenderConfig struct {
	// Stylesheet is an optional CSS href linked from rendered documents
	Stylesheet string `yaml:"stylesheet"`
}

// Config represents jsontable configuration options
type Config struct {
	// DefaultCeiling is the implicit row cap when no limit is given (0 caps everything)
	DefaultCeiling int `yaml:"default_ceiling"`

	// Encoding is the text encoding of JSON files
	Encoding string `yaml:"encoding"`

	// BaseDir is the directory file sources must resolve inside
	BaseDir string `yaml:"base_dir"`

	// MaxFileBytes caps the size of a single JSON source
	MaxFileBytes int64 `yaml:"max_file_bytes"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// Headers bounds header extraction
	Headers HeaderConfig `yaml:"headers"`

	// History contains conversion history configuration
	History HistoryConfig `yaml:"history"`

	// Render contains document rendering configuration
	Render RenderConfig `yaml:"render"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		DefaultCeiling: 10000,
		Encoding:       "utf-8",
		BaseDir:        ".",
		MaxFileBytes:   64 << 20, // 64 MiB
		LogLevel:       "info",
		LogDir:         filepath.Join(DirName, "logs"),
		Headers: HeaderConfig{
			MaxObjects:   10000,
			MaxKeys:      1000,
			MaxKeyLength: 255,
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(DirName, "history.db"),
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding onto the defaults keeps every key the file leaves out,
	// including nested sections that are only partially specified.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .jsontable/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DirName, "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(ceiling *int, encoding *string, baseDir *string, logLevel *string, historyEnabled *bool) {
	if ceiling != nil {
		c.DefaultCeiling = *ceiling
	}
	if encoding != nil {
		c.Encoding = *encoding
	}
	if baseDir != nil {
		c.BaseDir = *baseDir
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if historyEnabled != nil {
		c.History.Enabled = *historyEnabled
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.DefaultCeiling < 0 {
		return fmt.Errorf("default_ceiling must be >= 0, got %d", c.DefaultCeiling)
	}

	if c.MaxFileBytes <= 0 {
		return fmt.Errorf("max_file_bytes must be > 0, got %d", c.MaxFileBytes)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Headers.MaxObjects <= 0 {
		return fmt.Errorf("headers.max_objects must be > 0, got %d", c.Headers.MaxObjects)
	}
	if c.Headers.MaxKeys <= 0 {
		return fmt.Errorf("headers.max_keys must be > 0, got %d", c.Headers.MaxKeys)
	}
	if c.Headers.MaxKeyLength <= 0 {
		return fmt.Errorf("headers.max_key_length must be > 0, got %d", c.Headers.MaxKeyLength)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}
