package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "pagepath", cfg.Logger.ServiceName)

	assert.Equal(t, "selector", cfg.Engine.Kind)
	assert.Equal(t, "heuristic", cfg.Engine.Algorithm)
	assert.Equal(t, "double", cfg.Engine.QuoteStyle)
	assert.True(t, cfg.Engine.Optimized)
	assert.Equal(t, 30, cfg.Engine.MaxTextLength)
	assert.Equal(t, 10, cfg.Engine.MaxBoundaryCrossings)

	assert.Equal(t, 9, cfg.Detector.SimilarityThreshold)
	assert.Equal(t, 500.0, cfg.Detector.MinContainerSize)

	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.True(t, cfg.Fetch.Headless)
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := `
logger:
  level: debug
  format: json
engine:
  kind: xpath
  max_text_length: 48
detector:
  similarity_threshold: 5
  denied_tokens: [carousel]
`
	require.NoError(t, os.WriteFile(file, []byte(content), 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "xpath", cfg.Engine.Kind)
	assert.Equal(t, 48, cfg.Engine.MaxTextLength)
	assert.Equal(t, 5, cfg.Detector.SimilarityThreshold)
	assert.Equal(t, []string{"carousel"}, cfg.Detector.DeniedTokens)

	// Untouched keys keep their defaults.
	assert.Equal(t, "heuristic", cfg.Engine.Algorithm)
	assert.Equal(t, 500.0, cfg.Detector.MinContainerSize)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "selector", cfg.Engine.Kind)
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Chdir(t.TempDir())
	t.Setenv("PAGEPATH_ENGINE_KIND", "xpath")
	t.Setenv("PAGEPATH_LOGGER_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "xpath", cfg.Engine.Kind)
	assert.Equal(t, "warn", cfg.Logger.Level)
}

func TestLoadMalformedFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("logger: [not a map"), 0o600))

	_, err := Load(file)
	assert.Error(t, err)
}
