package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lderr "github.com/linkden/linkden/internal/errors"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 100, cfg.Search.MaxLimit)
	assert.Equal(t, 5, cfg.Search.SparsityThreshold)
	assert.Equal(t, 200, cfg.Search.SnippetLength)
	assert.Equal(t, 2, cfg.Search.MaxEditDistance)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Paths.DataDir)
	assert.Equal(t, filepath.Join(dir, "linkden.db"), cfg.DatabasePath())
	assert.Equal(t, 5, cfg.Search.SparsityThreshold)
}

func TestLoad_ReadsYAML(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: 9000
search:
  sparsity_threshold: 3
  snippet_length: 120
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(yaml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Search.SparsityThreshold)
	assert.Equal(t, 120, cfg.Search.SnippetLength)
	// Untouched values keep defaults
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
}

func TestLoad_MalformedYAMLIsConfigError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("search: ["), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Equal(t, lderr.ErrCodeConfigInvalid, lderr.GetCode(err))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "search:\n  sparsity_threshold: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(yaml), 0o644))

	t.Setenv("LINKDEN_SPARSITY_THRESHOLD", "7")
	t.Setenv("LINKDEN_LOG_LEVEL", "debug")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Search.SparsityThreshold)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port too small", func(c *Config) { c.Server.Port = 0 }},
		{"default limit above max", func(c *Config) { c.Search.DefaultLimit = 200 }},
		{"negative sparsity threshold", func(c *Config) { c.Search.SparsityThreshold = -1 }},
		{"snippet too short", func(c *Config) { c.Search.SnippetLength = 5 }},
		{"edit distance out of range", func(c *Config) { c.Search.MaxEditDistance = 9 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Paths.DataDir = dir
	cfg.Search.SnippetLength = 150
	require.NoError(t, cfg.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 150, loaded.Search.SnippetLength)
}
