package nethttp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/transport"
)

// Name is the registry name of this backend.
const Name = "nethttp"

// Transport creates net/http backed handles. It is safe for concurrent use.
type Transport struct {
	cfg    Config
	origin *url.URL
	client *http.Client
	jar    *cookiejar.Jar
	log    *logger.Logger
}

// Option customizes a Transport.
type Option func(*Transport)

// WithHTTPClient replaces the underlying client. Its Jar is ignored; the
// transport manages cookies itself.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithLogger sets the transport logger.
func WithLogger(l *logger.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// New creates a Transport from cfg.
func New(cfg Config, opts ...Option) (*Transport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Transport{
		cfg: cfg,
		log: logger.Get(logger.ComponentNetHTTP),
	}
	if cfg.Origin != "" {
		origin, err := url.Parse(cfg.Origin)
		if err != nil {
			return nil, fmt.Errorf("nethttp: invalid origin: %w", err)
		}
		t.origin = origin
	}
	if cfg.Cookies {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("nethttp: creating cookie jar: %w", err)
		}
		t.jar = jar
	}

	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		t.client = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
	}
	return t, nil
}

// Name returns the backend name.
func (t *Transport) Name() string { return Name }

// IsAvailable always reports true; net/http needs no external process.
func (t *Transport) IsAvailable(context.Context) bool { return true }

// NewHandle returns a fresh handle.
func (t *Transport) NewHandle() transport.Handle {
	return &handle{Base: transport.NewBase(), t: t}
}

// Close releases idle connections.
func (t *Transport) Close(context.Context) error {
	t.client.CloseIdleConnections()
	return nil
}

// Config returns the effective configuration.
func (t *Transport) Config() Config { return t.cfg }

// Jar returns the cookie jar, or nil when cookies are disabled.
func (t *Transport) Jar() http.CookieJar {
	if t.jar == nil {
		return nil
	}
	return t.jar
}

// resolve turns rawURL into an absolute URL against the origin.
func (t *Transport) resolve(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() {
		return u, nil
	}
	if t.origin == nil {
		return nil, fmt.Errorf("relative URL %q with no origin configured", rawURL)
	}
	return t.origin.ResolveReference(u), nil
}

// sameOrigin reports whether u shares scheme, host and port with the origin.
func (t *Transport) sameOrigin(u *url.URL) bool {
	if t.origin == nil {
		return false
	}
	return strings.EqualFold(u.Scheme, t.origin.Scheme) &&
		strings.EqualFold(hostPort(u), hostPort(t.origin))
}

func hostPort(u *url.URL) string {
	if u.Port() != "" {
		return u.Host
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return u.Hostname() + ":443"
	default:
		return u.Hostname() + ":80"
	}
}

// clientFor returns the client for one exchange. The jar is attached only
// when credentials may be sent.
func (t *Transport) clientFor(target *url.URL, withCredentials bool) *http.Client {
	c := *t.client
	c.Jar = nil
	if t.jar != nil && (withCredentials || t.sameOrigin(target)) {
		c.Jar = t.jar
	}
	maxRedirects := t.cfg.MaxRedirects
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}
	return &c
}
