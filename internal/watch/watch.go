// Package watch reports changes to the file being viewed.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/rebeliceyang/lazyjson/internal/logger"
)

// DefaultDebounce collapses the burst of events an editor emits on save
const DefaultDebounce = 100 * time.Millisecond

// FileChangedMsg is posted when the watched file was written or replaced
type FileChangedMsg struct {
	Path string
}

// Watcher watches the directory of one file. The directory is watched rather
// than the file so that editors replacing the file by rename are still seen.
type Watcher struct {
	path     string
	fw       *fsnotify.Watcher
	changes  chan FileChangedMsg
	cancel   context.CancelFunc
	debounce time.Duration
}

// New starts watching path
func New(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fw.Add(dir); err != nil {
		if closeErr := fw.Close(); closeErr != nil {
			logger.Warn("failed to close watcher after add error", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		fw:       fw,
		changes:  make(chan FileChangedMsg, 1),
		cancel:   cancel,
		debounce: debounce,
	}
	go w.run(ctx)

	logger.Debug("watching file", "path", abs)
	return w, nil
}

// Path returns the absolute path being watched
func (w *Watcher) Path() string {
	return w.path
}

// Changes delivers one message per settled burst of changes. It is closed
// when the watcher stops.
func (w *Watcher) Changes() <-chan FileChangedMsg {
	return w.changes
}

// Wait returns a command that blocks until the next change
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.changes
		if !ok {
			return nil
		}
		return msg
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	w.cancel()
	return w.fw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.changes)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case w.changes <- FileChangedMsg{Path: w.path}:
			default:
				// a change is already pending
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
