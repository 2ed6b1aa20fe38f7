package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rebeliceyang/lazyjson/internal/app"
	"github.com/rebeliceyang/lazyjson/internal/config"
	"github.com/rebeliceyang/lazyjson/internal/history"
	"github.com/rebeliceyang/lazyjson/internal/jsondoc"
	"github.com/rebeliceyang/lazyjson/internal/logger"
	"github.com/rebeliceyang/lazyjson/internal/models"
	"github.com/rebeliceyang/lazyjson/internal/ui/theme"
	"github.com/rebeliceyang/lazyjson/internal/watch"
)

var (
	// Global flags
	configPath string
	themeName  string
	formatName string
	logLevel   string
	noMouse    bool
	watchFile  bool
	logEnabled bool
)

var errNoInput = errors.New("no input: pass a file or pipe a document on stdin")

var rootCmd = &cobra.Command{
	Use:   "lazyjson [file]",
	Short: "Browse large JSON and YAML documents in the terminal",
	Long: `lazyjson is a terminal viewer for JSON and YAML documents. Containers
are expanded on demand and only visible rows are rendered, so documents with
millions of values stay responsive. Search by value, exact value or path.

Reads from stdin when no file is given or the file is "-".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runViewer,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default searches the user config dir)")
	rootCmd.Flags().StringVarP(&themeName, "theme", "t", "", fmt.Sprintf("Color theme %v", theme.Names()))
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "", "Input format: json or yaml (default detect)")
	rootCmd.Flags().BoolVar(&noMouse, "no-mouse", false, "Disable mouse support")
	rootCmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "Reload the file when it changes")
	rootCmd.Flags().BoolVar(&logEnabled, "log", false, "Write a log file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runViewer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config: %v (using defaults)\n", err)
		cfg = config.GetDefaults()
	}
	applyFlags(cmd, cfg)

	src, err := resolveSource(args, os.Stdin)
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Log.LoggerOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}
	defer logger.Close()
	logger.Info("starting", "version", version, "source", src.Name())

	a := app.New(cfg, src)
	if cfg.Watch.Enabled && src.Reloadable() {
		w, err := watch.New(src.Path, watch.DefaultDebounce)
		if err != nil {
			logger.Warn("file watching disabled", "path", src.Path, "error", err)
		} else {
			defer w.Close()
			a.SetWatcher(w)
		}
	}

	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.DBPath())
		if err != nil {
			logger.Warn("search history disabled", "path", cfg.History.DBPath(), "error", err)
		} else {
			defer store.Close()
			a.SetHistory(store)
		}
	}

	zone.NewGlobal()

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if src.Path == "" {
		// stdin holds the document, read keys from the terminal
		opts = append(opts, tea.WithInputTTY())
	}

	p := tea.NewProgram(a, opts...)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// applyFlags overrides config values with explicitly set flags
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("theme") {
		cfg.UI.Theme = themeName
	}
	if flags.Changed("no-mouse") {
		cfg.UI.MouseEnabled = !noMouse
	}
	if flags.Changed("watch") {
		cfg.Watch.Enabled = watchFile
	}
	if flags.Changed("log") {
		cfg.Log.Enabled = logEnabled
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
}

// resolveSource picks the document source from the arguments
func resolveSource(args []string, stdin *os.File) (models.Source, error) {
	var src models.Source
	if formatName != "" {
		format, ok := jsondoc.ParseFormat(formatName)
		if !ok {
			return src, fmt.Errorf("unknown format %q", formatName)
		}
		src.Format = format
	}

	if len(args) == 1 && args[0] != "-" {
		info, err := os.Stat(args[0])
		if err != nil {
			return src, err
		}
		if info.IsDir() {
			return src, fmt.Errorf("%s is a directory", args[0])
		}
		src.Path = args[0]
		return src, nil
	}

	if term.IsTerminal(int(stdin.Fd())) {
		return src, errNoInput
	}
	raw, err := io.ReadAll(stdin)
	if err != nil {
		return src, fmt.Errorf("failed to read stdin: %w", err)
	}
	src.Raw = raw
	return src, nil
}
