package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	t.Setenv("LIGHT_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "opaque", cfg.Lighting.CasterPolicy)
	assert.Equal(t, 1, cfg.Lighting.TransparentPenalty)
	assert.Equal(t, 1<<16, cfg.Lighting.SoftNodeLimit)
	assert.False(t, cfg.Lighting.SunlightVerticalDecay)
}

func TestLoadFromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "light.yaml")
	data := []byte(`
lighting:
  caster_policy: solid
  sunlight_vertical_decay: true
  transparent_penalty: 0
  max_nodes: 4096
palette:
  path: assets/palette.yaml
storage:
  in_memory: true
metrics:
  port: 9100
`)
	require.NoError(t, os.WriteFile(path, data, 0644))
	t.Setenv("LIGHT_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "solid", cfg.Lighting.CasterPolicy)
	assert.True(t, cfg.Lighting.SunlightVerticalDecay)
	assert.Equal(t, 0, cfg.Lighting.TransparentPenalty, "явный ноль не заменяется значением по умолчанию")
	assert.Equal(t, 4096, cfg.Lighting.MaxNodes)
	assert.Equal(t, 1<<16, cfg.Lighting.SoftNodeLimit, "незаданное поле сохраняет значение по умолчанию")
	assert.True(t, cfg.Storage.InMemory)
	assert.Equal(t, 9100, cfg.Metrics.GetMetricsPort())
	assert.Equal(t, "assets/palette.yaml", cfg.Palette.GetPalettePath())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseRejectsOutOfRange(t *testing.T) {
	_, err := Parse([]byte("lighting:\n  transparent_penalty: 16\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("lighting:\n  max_nodes: -1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("metrics:\n  port: 70000\n"))
	assert.Error(t, err)
}

func TestGettersFallBackToEnv(t *testing.T) {
	t.Setenv("LIGHT_METRICS_PORT", "9200")
	t.Setenv("LIGHT_DATA_PATH", "/tmp/chunks")
	t.Setenv("LIGHT_PALETTE", "")

	var m MetricsConfig
	assert.Equal(t, 9200, m.GetMetricsPort())

	var s StorageConfig
	assert.Equal(t, "/tmp/chunks", s.GetDataPath())

	var p PaletteConfig
	assert.Equal(t, "", p.GetPalettePath())

	t.Setenv("LIGHT_METRICS_PORT", "not-a-port")
	assert.Equal(t, 2112, m.GetMetricsPort())
}

func TestShippedConfigIsValid(t *testing.T) {
	cfg, err := Load("../../config.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default().Lighting, cfg.Lighting)
	assert.Equal(t, "assets/palette.yaml", cfg.Palette.Path)
	assert.Equal(t, 2112, cfg.Metrics.GetMetricsPort())
}
