package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultCeiling != 10000 {
		t.Errorf("DefaultCeiling = %d, want 10000", cfg.DefaultCeiling)
	}
	if cfg.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, "utf-8")
	}
	if cfg.BaseDir != "." {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, ".")
	}
	if cfg.MaxFileBytes != 64<<20 {
		t.Errorf("MaxFileBytes = %d, want %d", cfg.MaxFileBytes, 64<<20)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogDir != filepath.Join(".jsontable", "logs") {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, ".jsontable/logs")
	}
	if cfg.Headers.MaxObjects != 10000 || cfg.Headers.MaxKeys != 1000 || cfg.Headers.MaxKeyLength != 255 {
		t.Errorf("Headers = %+v, want {10000 1000 255}", cfg.Headers)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled = false, want true")
	}
	if cfg.History.DBPath != filepath.Join(".jsontable", "history.db") {
		t.Errorf("History.DBPath = %q", cfg.History.DBPath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `default_ceiling: 500
encoding: latin-1
base_dir: data
log_level: debug
headers:
  max_keys: 50
history:
  enabled: false
render:
  stylesheet: /static/tables.css
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DefaultCeiling != 500 {
		t.Errorf("DefaultCeiling = %d, want 500", cfg.DefaultCeiling)
	}
	if cfg.Encoding != "latin-1" {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, "latin-1")
	}
	if cfg.BaseDir != "data" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "data")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Headers.MaxKeys != 50 {
		t.Errorf("Headers.MaxKeys = %d, want 50", cfg.Headers.MaxKeys)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
	if cfg.Render.Stylesheet != "/static/tables.css" {
		t.Errorf("Render.Stylesheet = %q", cfg.Render.Stylesheet)
	}
}

// TestLoadConfigPartialSectionsKeepDefaults tests that omitted nested keys keep defaults
func TestLoadConfigPartialSectionsKeepDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("headers:\n  max_objects: 20\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Headers.MaxObjects != 20 {
		t.Errorf("Headers.MaxObjects = %d, want 20", cfg.Headers.MaxObjects)
	}
	if cfg.Headers.MaxKeys != 1000 {
		t.Errorf("Headers.MaxKeys = %d, want 1000 (default)", cfg.Headers.MaxKeys)
	}
	if cfg.Headers.MaxKeyLength != 255 {
		t.Errorf("Headers.MaxKeyLength = %d, want 255 (default)", cfg.Headers.MaxKeyLength)
	}
	if cfg.DefaultCeiling != 10000 {
		t.Errorf("DefaultCeiling = %d, want 10000 (default)", cfg.DefaultCeiling)
	}
	if !cfg.History.Enabled {
		t.Error("History.Enabled should keep default true")
	}
}

// TestLoadConfigExplicitZeroCeiling tests that an explicit 0 overrides the default
func TestLoadConfigExplicitZeroCeiling(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("default_ceiling: 0\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DefaultCeiling != 0 {
		t.Errorf("DefaultCeiling = %d, want 0", cfg.DefaultCeiling)
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}

	if cfg.DefaultCeiling != 10000 {
		t.Errorf("DefaultCeiling = %d, want 10000 (default)", cfg.DefaultCeiling)
	}
}

// TestLoadConfigMalformed tests that malformed YAML is reported
func TestLoadConfigMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("default_ceiling: [unclosed\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Fatal("LoadConfig() expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse config file") {
		t.Errorf("error = %v, want parse failure", err)
	}
}

// TestLoadConfigFromDir tests loading from .jsontable/config.yaml
func TestLoadConfigFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, ".jsontable")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("log_level: warn\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFromDir(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}

	cfg, err = LoadConfigFromDir(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfigFromDir() on empty dir error = %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default %q", cfg.LogLevel, "info")
	}
}

// TestMergeWithFlags tests that non-nil flags override config values
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()

	ceiling := 25
	encoding := "shift_jis"
	logLevel := "error"
	history := false

	cfg.MergeWithFlags(&ceiling, &encoding, nil, &logLevel, &history)

	if cfg.DefaultCeiling != 25 {
		t.Errorf("DefaultCeiling = %d, want 25", cfg.DefaultCeiling)
	}
	if cfg.Encoding != "shift_jis" {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, "shift_jis")
	}
	if cfg.BaseDir != "." {
		t.Errorf("BaseDir = %q, nil flag must not override", cfg.BaseDir)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "error")
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want false")
	}
}

// TestValidate tests configuration validation
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"zero ceiling allowed", func(c *Config) { c.DefaultCeiling = 0 }, ""},
		{"negative ceiling", func(c *Config) { c.DefaultCeiling = -1 }, "default_ceiling"},
		{"zero max bytes", func(c *Config) { c.MaxFileBytes = 0 }, "max_file_bytes"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"zero max objects", func(c *Config) { c.Headers.MaxObjects = 0 }, "headers.max_objects"},
		{"zero max keys", func(c *Config) { c.Headers.MaxKeys = 0 }, "headers.max_keys"},
		{"zero key length", func(c *Config) { c.Headers.MaxKeyLength = 0 }, "headers.max_key_length"},
		{"empty db path", func(c *Config) { c.History.DBPath = "" }, "history.db_path"},
		{"empty db path disabled", func(c *Config) {
			c.History.Enabled = false
			c.History.DBPath = ""
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

// TestGetHome tests env var precedence over the working directory
func TestGetHome(t *testing.T) {
	custom := t.TempDir()
	t.Setenv(HomeEnv, custom)

	home, err := GetHome()
	if err != nil {
		t.Fatalf("GetHome() error = %v", err)
	}
	if home != custom {
		t.Errorf("GetHome() = %q, want %q", home, custom)
	}

	t.Setenv(HomeEnv, "")
	home, err = GetHome()
	if err != nil {
		t.Fatalf("GetHome() error = %v", err)
	}
	cwd, _ := os.Getwd()
	if home != cwd {
		t.Errorf("GetHome() = %q, want working directory %q", home, cwd)
	}
}

// TestResolvePaths tests that relative paths are anchored and absolute ones kept
func TestResolvePaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseDir = "/srv/data"
	cfg.ResolvePaths("/project")

	if cfg.LogDir != filepath.Join("/project", ".jsontable", "logs") {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.History.DBPath != filepath.Join("/project", ".jsontable", "history.db") {
		t.Errorf("History.DBPath = %q", cfg.History.DBPath)
	}
	if cfg.BaseDir != "/srv/data" {
		t.Errorf("BaseDir = %q, absolute path must be kept", cfg.BaseDir)
	}

	mem := DefaultConfig()
	mem.History.DBPath = ":memory:"
	mem.ResolvePaths("/project")
	if mem.History.DBPath != ":memory:" {
		t.Errorf("History.DBPath = %q, want :memory:", mem.History.DBPath)
	}
}
