package server

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sambeau/measure/config"
)

func textHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(body))
	})
}

func TestCompressionHandler_Disabled(t *testing.T) {
	body := strings.Repeat("<p>10 kilometer = 6.213712 mile</p>\n", 100)
	tests := []struct {
		name string
		cfg  config.CompressionConfig
	}{
		{"disabled", config.CompressionConfig{Enabled: false, Level: "default", MinSize: 10}},
		{"level none", config.CompressionConfig{Enabled: true, Level: "none", MinSize: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := newCompressionHandler(textHandler(body), tt.cfg)

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			if rec.Header().Get("Content-Encoding") == "gzip" {
				t.Error("Expected response not to be gzipped")
			}
			if rec.Body.String() != body {
				t.Error("Expected uncompressed body")
			}
		})
	}
}

func TestCompressionHandler_GzipResponse(t *testing.T) {
	for _, level := range []string{"fastest", "default", "best"} {
		t.Run(level, func(t *testing.T) {
			largeContent := strings.Repeat("<p>1 mile = 1.609344 kilometer</p>\n", 100)
			cfg := config.CompressionConfig{Enabled: true, Level: level, MinSize: 1024}
			wrapped := newCompressionHandler(textHandler(largeContent), cfg)

			req := httptest.NewRequest("GET", "/", nil)
			req.Header.Set("Accept-Encoding", "gzip")
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)

			if rec.Header().Get("Content-Encoding") != "gzip" {
				t.Fatal("Expected Content-Encoding: gzip header")
			}

			reader, err := gzip.NewReader(rec.Body)
			if err != nil {
				t.Fatalf("Failed to create gzip reader: %v", err)
			}
			defer reader.Close()

			decompressed, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("Failed to decompress response: %v", err)
			}
			if string(decompressed) != largeContent {
				t.Error("Decompressed content does not match original")
			}
		})
	}
}

func TestCompressionHandler_SmallResponse(t *testing.T) {
	cfg := config.CompressionConfig{Enabled: true, Level: "default", MinSize: 1024}
	wrapped := newCompressionHandler(textHandler("Hello"), cfg)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") == "gzip" {
		t.Error("Expected small response not to be gzipped")
	}
	if rec.Body.String() != "Hello" {
		t.Errorf("Expected uncompressed body, got: %s", rec.Body.String())
	}
}

func TestCompressionHandler_NoAcceptEncoding(t *testing.T) {
	largeContent := strings.Repeat("<p>Hello, World!</p>\n", 100)
	cfg := config.CompressionConfig{Enabled: true, Level: "default", MinSize: 1024}
	wrapped := newCompressionHandler(textHandler(largeContent), cfg)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") == "gzip" {
		t.Error("Expected response not to be gzipped when client doesn't accept gzip")
	}
	if rec.Body.String() != largeContent {
		t.Errorf("Expected uncompressed body")
	}
}
