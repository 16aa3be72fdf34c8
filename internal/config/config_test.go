package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.IncludeSuper)
	assert.False(t, cfg.IncludeBack)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
output_dir: out
format: json
include_back: true
log_level: debug
cache_enabled: true
cache_max_entries: 7
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.IncludeBack)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 7, cfg.CacheMaxEntries)
	// Untouched fields keep their defaults.
	assert.True(t, cfg.IncludeSuper)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: csv\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SESE_FORMAT", "json")
	t.Setenv("SESE_LOG_LEVEL", "warn")
	t.Setenv("SESE_CACHE_MAX_ENTRIES", "3")
	t.Setenv("SESE_INCLUDE_SUPER", "false")

	cfg := DefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3, cfg.CacheMaxEntries)
	assert.False(t, cfg.IncludeSuper)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad format", func(c *Config) { c.Format = "xml" }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, false},
		{"negative cache", func(c *Config) { c.CacheMaxEntries = -1 }, false},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Format = "json"
	cfg.OutputDir = "renders"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "json", loaded.Format)
	assert.Equal(t, "renders", loaded.OutputDir)
}
