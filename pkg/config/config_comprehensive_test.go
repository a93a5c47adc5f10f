package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name:    "zero app id",
			modify:  func(c *Config) { c.Steam.AppID = 0 },
			wantErr: "app id must be positive",
		},
		{
			name:    "empty language",
			modify:  func(c *Config) { c.Steam.Language = "" },
			wantErr: "language is required",
		},
		{
			name:    "empty output directory",
			modify:  func(c *Config) { c.Collector.OutputDir = "" },
			wantErr: "output directory is required",
		},
		{
			name:    "negative delay",
			modify:  func(c *Config) { c.Collector.Delay = -time.Second },
			wantErr: "delay cannot be negative",
		},
		{
			name:   "zero delay is allowed",
			modify: func(c *Config) { c.Collector.Delay = 0 },
		},
		{
			name:    "unknown retry policy",
			modify:  func(c *Config) { c.Retry.Policy = "giveup" },
			wantErr: "invalid retry policy",
		},
		{
			name: "backoff with bad multiplier",
			modify: func(c *Config) {
				c.Retry.Policy = "backoff"
				c.Retry.Multiplier = 0.5
			},
			wantErr: "backoff multiplier must be at least 1",
		},
		{
			name:    "unknown export format",
			modify:  func(c *Config) { c.Export.Format = "parquet" },
			wantErr: "invalid export format",
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"app-id":          730,
		"language":        "spanish",
		"output":          "/tmp/out",
		"delay":           500 * time.Millisecond,
		"pace-cache-hits": false,
		"retry-policy":    "backoff",
		"max-attempts":    4,
		"format":          "sqlite",
		"export-path":     "rows.db",
		"log-level":       "debug",
	})

	assert.Equal(t, 730, cfg.Steam.AppID)
	assert.Equal(t, "spanish", cfg.Steam.Language)
	assert.Equal(t, "/tmp/out", cfg.Collector.OutputDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Collector.Delay)
	assert.False(t, cfg.Collector.PaceCacheHits)
	assert.Equal(t, "backoff", cfg.Retry.Policy)
	assert.Equal(t, 4, cfg.Retry.MaxAttempts)
	assert.Equal(t, "sqlite", cfg.Export.Format)
	assert.Equal(t, "rows.db", cfg.Export.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestMergeCommandLineFlagsIgnoresWrongTypes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"app-id": "730",
		"delay":  "1s",
	})

	assert.Equal(t, 1091500, cfg.Steam.AppID)
	assert.Equal(t, time.Second, cfg.Collector.Delay)
}

func TestLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("steam:\n  app_id: 100\n  language: polish\n"), 0644))

	t.Setenv("STEAMREVIEWS_APP_ID", "200")

	t.Run("env overrides file", func(t *testing.T) {
		cfg, err := Load(configPath, nil)
		require.NoError(t, err)
		assert.Equal(t, 200, cfg.Steam.AppID)
		assert.Equal(t, "polish", cfg.Steam.Language)
	})

	t.Run("flags override env", func(t *testing.T) {
		cfg, err := Load(configPath, map[string]interface{}{"app-id": 300})
		require.NoError(t, err)
		assert.Equal(t, 300, cfg.Steam.AppID)
	})

	t.Run("validation failure", func(t *testing.T) {
		_, err := Load(configPath, map[string]interface{}{"format": "xml"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration validation failed")
	})

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(tempDir, "nope.yaml"), nil)
		require.Error(t, err)
	})
}

func TestDurationParsing(t *testing.T) {
	yamlContent := `
collector:
  delay: 1500ms
http:
  timeout: 45s
retry:
  base_delay: 500ms
  max_delay: 1m30s
`
	var cfg Config
	require.NoError(t, yaml.Unmarshal([]byte(yamlContent), &cfg))

	assert.Equal(t, 1500*time.Millisecond, cfg.Collector.Delay)
	assert.Equal(t, 45*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, 90*time.Second, cfg.Retry.MaxDelay)
}

func BenchmarkValidate(b *testing.B) {
	cfg := DefaultConfig()
	for i := 0; i < b.N; i++ {
		_ = cfg.Validate()
	}
}
