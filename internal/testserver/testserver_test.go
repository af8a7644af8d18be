package testserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/xhrkit/component"
	"github.com/kbukum/xhrkit/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(logger.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouter_XSSI(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/xssi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(b), XSSIPrefix) {
		t.Errorf("expected XSSI prefix, got %q", b)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "json") {
		t.Errorf("expected json content type, got %q", resp.Header.Get("Content-Type"))
	}
}

func TestRouter_Date(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/date?offset=-1h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	d, err := http.ParseTime(resp.Header.Get("Date"))
	if err != nil {
		t.Fatalf("unparseable Date header: %v", err)
	}
	if time.Since(d) < 59*time.Minute {
		t.Errorf("expected Date an hour ago, got %v", d)
	}
}

func TestRouter_CORS(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/echo", nil)
	req.Header.Set("Origin", "null")
	req.Header.Set("Access-Control-Request-Headers", "x-custom")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "null" {
		t.Errorf("expected echoed origin, got %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
	if resp.Header.Get("Access-Control-Allow-Headers") != "x-custom" {
		t.Errorf("expected allowed header, got %q", resp.Header.Get("Access-Control-Allow-Headers"))
	}
}

func TestRouter_Echo(t *testing.T) {
	srv := newTestServer(t)
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/echo?a=1", strings.NewReader("payload"))
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Tag", "a, b")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	var got struct {
		Method  string            `json:"method"`
		Query   string            `json:"query"`
		Body    string            `json:"body"`
		Headers map[string]string `json:"headers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Method != "PUT" || got.Query != "a=1" || got.Body != "payload" || got.Headers["X-Tag"] != "a, b" {
		t.Errorf("unexpected echo: %+v", got)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Error("expected request id header")
	}
}

func TestRouter_Truncated(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/truncated")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if _, err := io.ReadAll(resp.Body); err == nil {
		t.Error("expected body read error")
	}
}

func TestRouter_Status(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/status/404")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Addr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&Config{Addr: "nonsense"}).Validate(); err == nil {
		t.Error("expected invalid addr error")
	}
}

func TestServerLifecycle(t *testing.T) {
	s := NewServer(Config{Addr: "127.0.0.1:0"}, logger.Nop())
	if h := s.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if h := s.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}

	resp, err := http.Get("http://" + s.Addr() + "/text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(b) != "hello" {
		t.Errorf("expected hello, got %q", b)
	}

	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("stop failed: %v", err)
	}
}
