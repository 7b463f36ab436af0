package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sambeau/measure/config"
	"github.com/sambeau/measure/pkg/measure/converter"
	"github.com/sambeau/measure/pkg/measure/errors"
)

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Logging.Quiet = true
	cfg.RateLimit.Requests = 0
	return cfg
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	s, err := New(cfg, "", converter.New(nil, converter.DefaultSettings()), io.Discard, io.Discard)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
	var resp apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	return resp
}

func serve(s *Server, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleAsk(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name   string
		query  string
		ok     bool
		code   string
		symbol string
	}{
		{"success", "Convert 10 km to miles", true, "", converter.SymbolSuccess},
		{"mismatch", "Convert 5 km to kilogram", false, errors.CodeCategoryMismatch, converter.SymbolWarning},
		{"invalid format", "Convert abc to xyz", false, errors.CodeInvalidFormat, converter.SymbolInvalid},
		{"invalid unit", "Convert 3 zz to meter", false, errors.CodeInvalidUnit, converter.SymbolWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, "GET", "/api/ask?q="+url.QueryEscape(tt.query), nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.OK != tt.ok || resp.Code != tt.code || resp.Symbol != tt.symbol {
				t.Errorf("unexpected response %+v", resp)
			}
			if tt.ok && resp.Conversion == nil {
				t.Error("expected conversion details on success")
			}
		})
	}
}

func TestHandleAskSuccessBody(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := serve(s, "POST", "/api/ask", url.Values{"q": {"convert 10 km to miles"}})

	resp := decodeResponse(t, rec)
	if resp.Message != "10 kilometer = 6.213712 mile" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	c := resp.Conversion
	if c == nil || c.From != "kilometer" || c.To != "mile" || c.Formatted != "6.213712" {
		t.Errorf("unexpected conversion %+v", c)
	}
}

func TestHandleAskMissingQuery(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := serve(s, "GET", "/api/ask?q=++", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Code != "HTTP-400" || !strings.Contains(resp.Message, "q") {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestHandleConvert(t *testing.T) {
	s := newTestServer(t, testConfig())

	tests := []struct {
		name    string
		params  url.Values
		status  int
		code    string
		message string
	}{
		{
			name:    "zero quantity",
			params:  url.Values{"quantity": {"0"}, "category": {"Length"}, "from": {"meter"}, "to": {"foot"}},
			status:  http.StatusOK,
			message: "0 meter = 0.000000 foot",
		},
		{
			name:    "multi-word units",
			params:  url.Values{"quantity": {"2"}, "category": {"volume"}, "from": {"fl oz"}, "to": {"millilitre"}},
			status:  http.StatusOK,
			message: "2 fl oz = 59.147059 millilitre",
		},
		{
			name:   "unknown category",
			params: url.Values{"quantity": {"1"}, "category": {"Distance"}, "from": {"meter"}, "to": {"foot"}},
			status: http.StatusOK,
			code:   errors.CodeUnknownCategory,
		},
		{
			name:   "negative quantity",
			params: url.Values{"quantity": {"-1"}, "category": {"Length"}, "from": {"meter"}, "to": {"foot"}},
			status: http.StatusOK,
			code:   errors.CodeInvalidQuantity,
		},
		{
			name:   "non-numeric quantity",
			params: url.Values{"quantity": {"ten"}, "category": {"Length"}, "from": {"meter"}, "to": {"foot"}},
			status: http.StatusBadRequest,
			code:   "HTTP-400",
		},
		{
			name:   "missing unit",
			params: url.Values{"quantity": {"1"}, "category": {"Length"}, "from": {"meter"}},
			status: http.StatusBadRequest,
			code:   "HTTP-400",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, "GET", "/api/convert?"+tt.params.Encode(), nil)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, rec.Code, rec.Body.String())
			}
			resp := decodeResponse(t, rec)
			if resp.Code != tt.code {
				t.Errorf("expected code %q, got %q", tt.code, resp.Code)
			}
			if tt.message != "" && resp.Message != tt.message {
				t.Errorf("expected message %q, got %q", tt.message, resp.Message)
			}
		})
	}
}

func TestHandleCategories(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := serve(s, "GET", "/api/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cats []categoryInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(cats))
	}
	if cats[0].Name != "Length" || cats[0].Units[0] != "nanometer" {
		t.Errorf("unexpected first category %+v", cats[0])
	}
	if cats[2].Name != "Temperature" || strings.Join(cats[2].Units, ",") != "celsius,fahrenheit,kelvin" {
		t.Errorf("unexpected temperature category %+v", cats[2])
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, testConfig())
	tests := []struct {
		method, path, allow string
	}{
		{"DELETE", "/api/ask", "GET, POST"},
		{"PUT", "/api/convert", "GET, POST"},
		{"POST", "/api/categories", "GET, HEAD"},
		{"POST", "/", "GET, HEAD"},
	}
	for _, tt := range tests {
		rec := serve(s, tt.method, tt.path, nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: expected 405, got %d", tt.method, tt.path, rec.Code)
		}
		if got := rec.Header().Get("Allow"); got != tt.allow {
			t.Errorf("%s %s: expected Allow %q, got %q", tt.method, tt.path, tt.allow, got)
		}
	}
}

func TestHelpPage(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := serve(s, "GET", "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"<h1", "measure", "<table>", "<td>Temperature</td>", "<code>fl oz</code>", "/api/ask"} {
		if !strings.Contains(body, want) {
			t.Errorf("help page missing %q", want)
		}
	}

	if rec := serve(s, "GET", "/nope", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestDisplaySettingsApplied(t *testing.T) {
	cfg := testConfig()
	cfg.Display.Precision = 2
	cfg.Display.Symbols = false
	s := newTestServer(t, cfg)

	resp := decodeResponse(t, serve(s, "GET", "/api/ask?q="+url.QueryEscape("convert 10 km to miles"), nil))
	if resp.Message != "10 kilometer = 6.21 mile" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Symbol != "" {
		t.Errorf("expected no symbol, got %q", resp.Symbol)
	}
}

func TestRequestLoggingRespectsQuiet(t *testing.T) {
	var out strings.Builder
	cfg := testConfig()
	cfg.Logging.Quiet = false
	s, err := New(cfg, "", converter.New(nil, converter.DefaultSettings()), &out, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/categories", nil))
	if !strings.Contains(out.String(), "/api/categories") {
		t.Errorf("expected request log, got %q", out.String())
	}

	out.Reset()
	cfg.Logging.Level = "error"
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/categories", nil))
	if out.Len() != 0 {
		t.Errorf("expected no request log at level error, got %q", out.String())
	}
}

func TestRunShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	cfg := testConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = port
	s := newTestServer(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	addr := "http://127.0.0.1:" + strconv.Itoa(port)
	var resp *http.Response
	for range 50 {
		resp, err = http.Get(addr + "/api/categories")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		cancel()
		t.Fatalf("server never answered: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
