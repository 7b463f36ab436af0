package server

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sambeau/measure/config"
	"github.com/sambeau/measure/pkg/measure/converter"
)

// syncBuffer is a bytes.Buffer safe for the watcher's timer goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeConfig(t *testing.T, path string, precision int, symbols bool) {
	t.Helper()
	content := fmt.Sprintf("display:\n  precision: %d\n  symbols: %t\n", precision, symbols)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newWatchedServer(t *testing.T) (*Server, *converter.Converter, string, *syncBuffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "measure.yaml")
	writeConfig(t, path, 6, true)

	cfg, resolved, err := config.LoadWithPath(path, func(string) string { return "" })
	if err != nil {
		t.Fatal(err)
	}
	cfg.Logging.Quiet = true

	var out syncBuffer
	conv := converter.New(nil, converter.DefaultSettings())
	s, err := New(cfg, resolved, conv, &out, &out)
	if err != nil {
		t.Fatal(err)
	}
	s.getenv = func(string) string { return "" }
	return s, conv, resolved, &out
}

func TestWatcherReloadsDisplaySettings(t *testing.T) {
	s, conv, path, out := newWatchedServer(t)

	w, err := NewWatcher(s, path, out, out)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	writeConfig(t, path, 2, false)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got := conv.Settings(); got.Precision == 2 && !got.Symbols {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if got := conv.Settings(); got.Precision != 2 || got.Symbols {
		t.Fatalf("settings not reloaded: %+v\nlog:\n%s", got, out.String())
	}
	if w.Reloads() == 0 {
		t.Error("expected at least one reload")
	}
	if !strings.Contains(out.String(), "[WATCH] watching config") {
		t.Errorf("expected watch log, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "[CONFIG] display reloaded: precision=2 symbols=false") {
		t.Errorf("expected reload log, got:\n%s", out.String())
	}
}

func TestWatcherKeepsSettingsOnBadConfig(t *testing.T) {
	s, conv, path, out := newWatchedServer(t)

	w, err := NewWatcher(s, path, out, out)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("display:\n  precision: 99\n"), 0644); err != nil {
		t.Fatal(err)
	}
	w.handleConfigChange()

	if got := conv.Settings(); got.Precision != 6 || !got.Symbols {
		t.Errorf("settings changed on bad config: %+v", got)
	}
	if w.Reloads() != 0 {
		t.Errorf("expected no successful reloads, got %d", w.Reloads())
	}
	if !strings.Contains(out.String(), "[WATCH ERROR] reload failed") {
		t.Errorf("expected reload error log, got:\n%s", out.String())
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	w := &Watcher{configPath: "/etc/measure/measure.yaml"}
	if !w.isConfig("/etc/measure/measure.yaml") {
		t.Error("config file not recognised")
	}
	if w.isConfig("/etc/measure/other.yaml") {
		t.Error("unrelated file treated as config")
	}
}
