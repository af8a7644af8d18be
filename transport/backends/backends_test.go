package backends

import (
	"strings"
	"testing"
	"time"

	"github.com/kbukum/xhrkit/transport"
	"github.com/kbukum/xhrkit/transport/browser"
	"github.com/kbukum/xhrkit/transport/nethttp"
)

func TestRegisterDefaults(t *testing.T) {
	RegisterDefaults()
	RegisterDefaults()

	names := strings.Join(transport.Backends(), ",")
	for _, want := range []string{browser.Name, nethttp.Name} {
		if !strings.Contains(names, want) {
			t.Errorf("backend %q not registered in %q", want, names)
		}
	}
}

func TestNewNetHTTP(t *testing.T) {
	RegisterDefaults()
	tr, err := transport.New("NetHTTP", map[string]any{
		"origin":         "http://localhost:8080",
		"timeout":        "2s",
		"max_body_bytes": "1024",
		"cookies":        true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	nt, ok := tr.(*nethttp.Transport)
	if !ok {
		t.Fatalf("got %T", tr)
	}
	cfg := nt.Config()
	if cfg.Timeout != 2*time.Second || cfg.MaxBodyBytes != 1024 || !cfg.Cookies {
		t.Errorf("Config = %+v", cfg)
	}
	if nt.Jar() == nil {
		t.Error("cookies enabled but no jar")
	}
}

func TestNewBrowser(t *testing.T) {
	RegisterDefaults()
	tr, err := transport.New("browser", map[string]any{
		"origin":     "http://localhost:8080",
		"headless":   false,
		"no_sandbox": true,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	bt, ok := tr.(*browser.Transport)
	if !ok {
		t.Fatalf("got %T", tr)
	}
	if cfg := bt.Config(); cfg.IsHeadless() || !cfg.NoSandbox {
		t.Errorf("Config = %+v", cfg)
	}
}

func TestNewErrors(t *testing.T) {
	RegisterDefaults()
	tests := []struct {
		name    string
		backend string
		cfg     map[string]any
		want    string
	}{
		{"unknown backend", "carrier-pigeon", nil, "available"},
		{"unknown key", "nethttp", map[string]any{"bogus": 1}, "bogus"},
		{"bad duration", "nethttp", map[string]any{"timeout": "soon"}, "nethttp config"},
		{"invalid origin", "nethttp", map[string]any{"origin": "ftp://x"}, "origin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transport.New(tt.backend, tt.cfg)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	var c nethttp.Config
	if err := Decode(nil, &c); err != nil {
		t.Errorf("Decode(nil) = %v", err)
	}
}
