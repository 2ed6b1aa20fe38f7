package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/rebeliceyang/lazyjson/internal/jsontree"
	"github.com/rebeliceyang/lazyjson/internal/logger"
)

// Config holds all application configuration
type Config struct {
	UI      UIConfig      `mapstructure:"ui"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Log     LogConfig     `mapstructure:"log"`
	Watch   WatchConfig   `mapstructure:"watch"`
	History HistoryConfig `mapstructure:"history"`
	Export  ExportConfig  `mapstructure:"export"`
}

type UIConfig struct {
	Theme         string `mapstructure:"theme"`
	MouseEnabled  bool   `mapstructure:"mouse_enabled"`
	ShowPath      bool   `mapstructure:"show_path"`
	PreviewHeight int    `mapstructure:"preview_height"`
}

type ViewerConfig struct {
	RowHeight       int `mapstructure:"row_height"`
	LazyThreshold   int `mapstructure:"lazy_threshold"`
	Overscan        int `mapstructure:"overscan"`
	FrameIntervalMs int `mapstructure:"frame_interval_ms"`
	ScrollStep      int `mapstructure:"scroll_step"`
}

type LogConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
	Level   string `mapstructure:"level"`
}

type WatchConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
	Limit   int    `mapstructure:"limit"`
}

type ExportConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"` // csv or json
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	opts := jsontree.DefaultOptions()
	return &Config{
		UI: UIConfig{
			Theme:         "default",
			MouseEnabled:  true,
			ShowPath:      true,
			PreviewHeight: 12,
		},
		Viewer: ViewerConfig{
			RowHeight:       opts.RowHeight,
			LazyThreshold:   opts.LazyThreshold,
			Overscan:        opts.Overscan,
			FrameIntervalMs: 16,
			ScrollStep:      3,
		},
		Log: LogConfig{
			Enabled: false,
			Dir:     "",
			Level:   "info",
		},
		Watch: WatchConfig{
			Enabled: false,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    "~/.lazyjson/history.db",
			Limit:   100,
		},
		Export: ExportConfig{
			Dir:    ".",
			Format: "csv",
		},
	}
}

// Load loads configuration from file. An empty path searches the default
// locations; a missing file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// 1. User config directory
		if configDir, err := GetConfigPath(); err == nil {
			v.AddConfigPath(configDir)
		}
		// 2. Current directory
		v.AddConfigPath(".")
		// 3. Default config directory
		v.AddConfigPath("./config")
	}

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	} else {
		logger.Debug("config loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := GetDefaults()
	v.SetDefault("ui.theme", def.UI.Theme)
	v.SetDefault("ui.mouse_enabled", def.UI.MouseEnabled)
	v.SetDefault("ui.show_path", def.UI.ShowPath)
	v.SetDefault("ui.preview_height", def.UI.PreviewHeight)
	v.SetDefault("viewer.row_height", def.Viewer.RowHeight)
	v.SetDefault("viewer.lazy_threshold", def.Viewer.LazyThreshold)
	v.SetDefault("viewer.overscan", def.Viewer.Overscan)
	v.SetDefault("viewer.frame_interval_ms", def.Viewer.FrameIntervalMs)
	v.SetDefault("viewer.scroll_step", def.Viewer.ScrollStep)
	v.SetDefault("log.enabled", def.Log.Enabled)
	v.SetDefault("log.dir", def.Log.Dir)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("watch.enabled", def.Watch.Enabled)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("history.path", def.History.Path)
	v.SetDefault("history.limit", def.History.Limit)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("export.format", def.Export.Format)
}

// Options converts the viewer section to tree options. Non-positive values
// fall back to the defaults.
func (c ViewerConfig) Options() jsontree.Options {
	return jsontree.Options{
		RowHeight:     c.RowHeight,
		LazyThreshold: c.LazyThreshold,
		Overscan:      c.Overscan,
	}
}

// FrameInterval is the delay between a scroll and the window pass it triggers
func (c ViewerConfig) FrameInterval() time.Duration {
	if c.FrameIntervalMs <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.FrameIntervalMs) * time.Millisecond
}

// LoggerOptions converts the log section. An unknown level falls back to info.
func (c LogConfig) LoggerOptions() logger.Options {
	level, err := logger.ParseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logger.Options{
		Enabled: c.Enabled,
		LogDir:  expandHome(c.Dir),
		Level:   level,
	}
}

// DBPath returns the history database path with ~ expanded
func (c HistoryConfig) DBPath() string {
	return expandHome(c.Path)
}

// Directory returns the export directory with ~ expanded
func (c ExportConfig) Directory() string {
	if c.Dir == "" {
		return "."
	}
	return expandHome(c.Dir)
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazyjson"), nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
