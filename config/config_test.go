package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, cfg.Renderer.VSync)
	assert.Equal(t, uint32(4096), cfg.Renderer.MaxTextureSize)
	assert.Equal(t, 0.25, cfg.Engine.MaxDeltaTime)
	assert.Equal(t, 1.0, cfg.Engine.WorldTimeScale)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
window:
  width: 1920
  height: 1080
renderer:
  vsync: false
  skin_workers: 3
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 1920, cfg.Window.Width)
	assert.Equal(t, 1080, cfg.Window.Height)
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, 3, cfg.Renderer.SkinWorkers)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched sections keep their defaults
	assert.Equal(t, "Yakuza Tower", cfg.Window.Title)
	assert.Equal(t, 0.25, cfg.Engine.MaxDeltaTime)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [oops"), 0644))

	_, err := Load(path, nil)
	assert.Error(t, err)
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  width: 800\n"), 0644))

	cfg, err := Load(path, []string{"-width", "1024", "-debug", "-no-vsync", "-time-scale", "0.5"})
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Engine.Profiling)
	assert.False(t, cfg.Renderer.VSync)
	assert.Equal(t, 0.5, cfg.Engine.WorldTimeScale)
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "custom.yaml", ConfigPath([]string{"-debug", "-config", "custom.yaml"}, "config.yaml"))
	assert.Equal(t, "config.yaml", ConfigPath(nil, "config.yaml"))
	assert.Equal(t, "config.yaml", ConfigPath([]string{"-unknown"}, "config.yaml"))
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Engine.MaxDeltaTime = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "max_delta_time")
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Window.Title = "saved"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "saved", loaded.Window.Title)
}
