package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazyjson/internal/jsontree"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, GetDefaults(), cfg)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
ui:
  theme: catppuccin-mocha
  mouse_enabled: false
viewer:
  lazy_threshold: 50
  frame_interval_ms: 40
log:
  enabled: true
  level: debug
watch:
  enabled: true
history:
  enabled: true
  limit: 20
export:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "catppuccin-mocha", cfg.UI.Theme)
	assert.False(t, cfg.UI.MouseEnabled)
	assert.True(t, cfg.UI.ShowPath, "unset keys keep their default")
	assert.Equal(t, 50, cfg.Viewer.LazyThreshold)
	assert.Equal(t, 20, cfg.Viewer.RowHeight)
	assert.Equal(t, 40*time.Millisecond, cfg.Viewer.FrameInterval())
	assert.True(t, cfg.Watch.Enabled)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, 20, cfg.History.Limit)
	assert.Equal(t, "~/.lazyjson/history.db", cfg.History.Path)
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, ".", cfg.Export.Directory())

	opts := cfg.Log.LoggerOptions()
	assert.True(t, opts.Enabled)
	assert.Equal(t, slog.LevelDebug, opts.Level)
}

func TestLoadInvalidFile(t *testing.T) {
	path := writeConfig(t, "ui: [unclosed\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestViewerOptions(t *testing.T) {
	def := GetDefaults()
	assert.Equal(t, jsontree.DefaultOptions(), def.Viewer.Options())

	v := ViewerConfig{LazyThreshold: 10}
	opts := v.Options()
	assert.Equal(t, 10, opts.LazyThreshold)
	assert.Equal(t, 16*time.Millisecond, v.FrameInterval())
}

func TestLoggerOptionsFallbacks(t *testing.T) {
	opts := LogConfig{Level: "loud"}.LoggerOptions()
	assert.Equal(t, slog.LevelInfo, opts.Level)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	opts = LogConfig{Dir: "~/logs"}.LoggerOptions()
	assert.Equal(t, filepath.Join(home, "logs"), opts.LogDir)
}

func TestPathExpansion(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".lazyjson", "history.db"), GetDefaults().History.DBPath())
	assert.Equal(t, "/tmp/h.db", HistoryConfig{Path: "/tmp/h.db"}.DBPath())
	assert.Equal(t, ".", ExportConfig{}.Directory())
	assert.Equal(t, filepath.Join(home, "out"), ExportConfig{Dir: "~/out"}.Directory())
}
