package server

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long config writes must settle before a reload.
const debounce = 100 * time.Millisecond

// Watcher reloads display settings when the config file changes
type Watcher struct {
	watcher    *fsnotify.Watcher
	server     *Server
	configPath string
	stdout     io.Writer
	stderr     io.Writer

	mu      sync.Mutex
	timer   *time.Timer
	reloads uint64
}

// NewWatcher creates a watcher for the config file at configPath
func NewWatcher(s *Server, configPath string, stdout, stderr io.Writer) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:    fsWatcher,
		server:     s,
		configPath: configPath,
		stdout:     stdout,
		stderr:     stderr,
	}, nil
}

// Start begins watching for file changes. The directory is watched rather
// than the file so editors that replace the file on save are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	configDir := filepath.Dir(w.configPath)
	if err := w.watcher.Add(configDir); err != nil {
		return fmt.Errorf("watching config dir %s: %w", configDir, err)
	}
	w.logInfo("watching config: %s", w.configPath)

	go w.eventLoop(ctx)
	return nil
}

// eventLoop processes file system events
func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !w.isConfig(event.Name) {
				continue
			}
			w.schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logError("watcher error: %v", err)
		}
	}
}

// schedule (re)starts the debounce timer so a burst of writes reloads once.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(debounce, w.handleConfigChange)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *Watcher) isConfig(path string) bool {
	return filepath.Base(path) == filepath.Base(w.configPath)
}

// handleConfigChange reloads the display settings, keeping the current ones
// if the new file does not load.
func (w *Watcher) handleConfigChange() {
	w.logInfo("config changed: %s", w.configPath)
	if err := w.server.reloadDisplay(); err != nil {
		w.logError("reload failed, keeping previous settings: %v", err)
		return
	}
	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
}

// Reloads returns how many successful reloads have happened
func (w *Watcher) Reloads() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close stops the watcher
func (w *Watcher) Close() error {
	w.stopTimer()
	return w.watcher.Close()
}

func (w *Watcher) logInfo(format string, args ...any) {
	fmt.Fprintf(w.stdout, "[WATCH] "+format+"\n", args...)
}

func (w *Watcher) logError(format string, args ...any) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+format+"\n", args...)
}
