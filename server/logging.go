package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// requestLogger is middleware that logs HTTP requests
type requestLogger struct {
	handler http.Handler
	output  io.Writer
	format  string // "json" or "text"
}

// RequestLogEntry represents a single request log entry
type RequestLogEntry struct {
	Timestamp  string `json:"timestamp"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Query      string `json:"query,omitempty"`
	Status     int    `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// responseCapture wraps http.ResponseWriter to capture status code
type responseCapture struct {
	http.ResponseWriter
	status int
}

func (rc *responseCapture) WriteHeader(code int) {
	if rc.status == 0 {
		rc.status = code
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if rc.status == 0 {
		rc.status = http.StatusOK
	}
	return rc.ResponseWriter.Write(b)
}

func newRequestLogger(handler http.Handler, output io.Writer, format string) *requestLogger {
	if format == "" {
		format = "text"
	}
	return &requestLogger{handler: handler, output: output, format: format}
}

func (rl *requestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rc := &responseCapture{ResponseWriter: w}

	rl.handler.ServeHTTP(rc, r)

	if rc.status == 0 {
		rc.status = http.StatusOK
	}
	entry := RequestLogEntry{
		Timestamp:  start.Format(time.RFC3339),
		Method:     r.Method,
		Path:       r.URL.Path,
		Query:      r.URL.RawQuery,
		Status:     rc.status,
		DurationMs: time.Since(start).Milliseconds(),
		ClientIP:   rateLimitKey(r)[len("ip:"):],
	}

	if rl.format == "json" {
		data, err := json.Marshal(entry)
		if err != nil {
			return
		}
		fmt.Fprintf(rl.output, "%s\n", data)
		return
	}
	fmt.Fprintf(rl.output, "%s %s %s %d %dms\n",
		entry.Timestamp, entry.Method, entry.Path, entry.Status, entry.DurationMs)
}

// OpenLogOutput resolves logging.output: "stderr" (or empty), "stdout", or a
// file path opened for appending. The returned close func is never nil.
func OpenLogOutput(output string, stdout, stderr io.Writer) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch output {
	case "", "stderr":
		return stderr, noop, nil
	case "stdout":
		return stdout, noop, nil
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return nil, noop, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, noop, fmt.Errorf("opening log file: %w", err)
	}
	return f, f.Close, nil
}
