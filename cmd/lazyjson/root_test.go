package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
)

func pipeWith(t *testing.T, content string) *os.File {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	t.Cleanup(func() { r.Close() })
	return r
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"a":1}`), 0o644))

	tests := []struct {
		name       string
		args       []string
		format     string
		stdin      string
		wantPath   string
		wantRaw    string
		wantFormat jsondoc.Format
		wantErr    bool
	}{
		{name: "file argument", args: []string{file}, wantPath: file},
		{name: "file with format", args: []string{file}, format: "yml", wantPath: file, wantFormat: jsondoc.FormatYAML},
		{name: "dash reads stdin", args: []string{"-"}, stdin: `[1]`, wantRaw: `[1]`},
		{name: "no args reads stdin", stdin: "a: 1", wantRaw: "a: 1"},
		{name: "missing file", args: []string{filepath.Join(dir, "nope.json")}, wantErr: true},
		{name: "directory", args: []string{dir}, wantErr: true},
		{name: "unknown format", args: []string{file}, format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatName = tt.format
			t.Cleanup(func() { formatName = "" })

			src, err := resolveSource(tt.args, pipeWith(t, tt.stdin))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, src.Path)
			assert.Equal(t, tt.wantRaw, string(src.Raw))
			assert.Equal(t, tt.wantFormat, src.Format)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	cfg := config.GetDefaults()
	require.NoError(t, rootCmd.Flags().Set("theme", "catppuccin-mocha"))
	require.NoError(t, rootCmd.Flags().Set("no-mouse", "true"))
	require.NoError(t, rootCmd.Flags().Set("log-level", "debug"))

	applyFlags(rootCmd, cfg)

	assert.Equal(t, "catppuccin-mocha", cfg.UI.Theme)
	assert.False(t, cfg.UI.MouseEnabled)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Watch.Enabled, "unset flags keep config values")
}
