package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(`
duration: 2s
entities: 500
workers: 4
churn_rate: 0.25
seed: 9
profile: cpu
`))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Duration)
	assert.Equal(t, 500, cfg.Entities)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 0.25, cfg.ChurnRate)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, "cpu", cfg.Profile)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLEmptyKeepsDefaults(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadYAMLUnknownField(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("entites: 10\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no duration or frames", func(c *Config) { c.Duration = 0; c.Frames = 0 }},
		{"zero entities", func(c *Config) { c.Entities = 0 }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"negative churn", func(c *Config) { c.ChurnRate = -0.1 }},
		{"churn above one", func(c *Config) { c.ChurnRate = 1.5 }},
		{"unknown profile", func(c *Config) { c.Profile = "block" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	frameOnly := DefaultConfig()
	frameOnly.Duration = 0
	frameOnly.Frames = 10
	assert.NoError(t, frameOnly.Validate())
}

func TestParseConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workload.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities: 200\nworkers: 3\nseed: 5\n"), 0o644))

	cfg, err := parseConfig([]string{"-config", path, "-workers", "2", "-frames", "7"})
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Entities)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 7, cfg.Frames)
	assert.Equal(t, int64(5), cfg.Seed)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseConfigMissingFile(t *testing.T) {
	_, err := parseConfig([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseConfigInvalid(t *testing.T) {
	_, err := parseConfig([]string{"-workers", "0"})
	assert.ErrorContains(t, err, "workers must be positive")
}
