package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for sese-regions
type Config struct {
	// OutputDir is where examples writes its files
	OutputDir string `yaml:"output_dir" env:"SESE_OUTPUT_DIR"`

	// Format is the default analyze output format: "json" or "text"
	Format string `yaml:"format" env:"SESE_FORMAT"`

	// DOT emitter defaults
	IncludeBack    bool `yaml:"include_back" env:"SESE_INCLUDE_BACK"`
	IncludeSuper   bool `yaml:"include_super" env:"SESE_INCLUDE_SUPER"`
	ShowEdgeLabels bool `yaml:"show_edge_labels" env:"SESE_SHOW_EDGE_LABELS"`

	// Result cache
	CacheEnabled    bool   `yaml:"cache_enabled" env:"SESE_CACHE_ENABLED"`
	CachePath       string `yaml:"cache_path" env:"SESE_CACHE_PATH"`
	CacheMaxEntries int    `yaml:"cache_max_entries" env:"SESE_CACHE_MAX_ENTRIES"`

	// Logging
	LogLevel string `yaml:"log_level" env:"SESE_LOG_LEVEL"`
	LogJSON  bool   `yaml:"log_json" env:"SESE_LOG_JSON"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       "images",
		Format:          "text",
		IncludeBack:     false,
		IncludeSuper:    true,
		ShowEdgeLabels:  true,
		CacheEnabled:    false,
		CachePath:       defaultCachePath(),
		CacheMaxEntries: 128,
		LogLevel:        "info",
		LogJSON:         false,
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sese-regions/cache.msgpack"
	}
	return filepath.Join(home, ".sese-regions", "cache.msgpack")
}

// globalConfigFilePath returns the global config file path (~/.sese-regions/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sese-regions/config.yaml"
	}
	return filepath.Join(home, ".sese-regions", "config.yaml")
}

// projectConfigFilePath returns the project-level config file path (./.sese-regions/config.yaml)
func projectConfigFilePath() string {
	return ".sese-regions/config.yaml"
}

// DefaultConfigPath returns the global config file path, where init
// saves the config.
func DefaultConfigPath() string {
	return globalConfigFilePath()
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.sese-regions/config.yaml)
// 3. Global config (~/.sese-regions/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	globalConfigPath := globalConfigFilePath()
	if data, err := os.ReadFile(globalConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", globalConfigPath, err)
		}
	}

	projectConfigPath := projectConfigFilePath()
	if data, err := os.ReadFile(projectConfigPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", projectConfigPath, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SESE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("SESE_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("SESE_INCLUDE_BACK"); v != "" {
		cfg.IncludeBack = parseBool(v)
	}
	if v := os.Getenv("SESE_INCLUDE_SUPER"); v != "" {
		cfg.IncludeSuper = parseBool(v)
	}
	if v := os.Getenv("SESE_SHOW_EDGE_LABELS"); v != "" {
		cfg.ShowEdgeLabels = parseBool(v)
	}
	if v := os.Getenv("SESE_CACHE_ENABLED"); v != "" {
		cfg.CacheEnabled = parseBool(v)
	}
	if v := os.Getenv("SESE_CACHE_PATH"); v != "" {
		cfg.CachePath = v
	}
	if v := os.Getenv("SESE_CACHE_MAX_ENTRIES"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			cfg.CacheMaxEntries = i
		}
	}
	if v := os.Getenv("SESE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("SESE_LOG_JSON"); v != "" {
		cfg.LogJSON = parseBool(v)
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	switch c.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid format: %s (must be 'json' or 'text')", c.Format)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}
	if c.CacheMaxEntries < 0 {
		return fmt.Errorf("cache_max_entries must be non-negative")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	return nil
}

func parseBool(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}
