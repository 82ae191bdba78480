package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestHelpersBeforeInit(t *testing.T) {
	Set(nil)
	assert.NotPanics(t, func() {
		Debug("debug")
		Info("info", zap.Int("n", 1))
		Warn("warn")
		Error("error")
		Sync()
	})
}

func TestInitWithFileConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.log")
	require.NoError(t, InitWithFileConfig("warn", DefaultFileConfig(path), false))
	t.Cleanup(func() { Set(nil) })

	Info("dropped below level")
	Warn("kept", zap.String("subsystem", "renderer"))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped below level")
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.Contains(t, string(data), `"subsystem":"renderer"`)
}

func TestNamed(t *testing.T) {
	Set(zap.NewExample())
	t.Cleanup(func() { Set(nil) })
	assert.Equal(t, "renderer", Named("renderer").Name())
}
