package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/kbukum/xhrkit/component"
	"github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/transport"
)

// Name is the registry name of this backend.
const Name = "browser"

// Transport runs exchanges inside a Chrome instance it owns.
type Transport struct {
	cfg Config
	log *logger.Logger

	mu            sync.RWMutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

var (
	_ transport.Transport   = (*Transport)(nil)
	_ component.Component   = (*Transport)(nil)
	_ component.Describable = (*Transport)(nil)
)

// Option customizes a Transport.
type Option func(*Transport)

// WithLogger sets the transport logger.
func WithLogger(l *logger.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// New creates a Transport from cfg. The browser is not launched until Start.
func New(cfg Config, opts ...Option) (*Transport, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Transport{cfg: cfg, log: logger.Get(logger.ComponentBrowser)}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Transport) Name() string { return Name }

// Config returns the effective configuration.
func (t *Transport) Config() Config { return t.cfg }

// allocatorOptions builds the Chrome command line.
func (t *Transport) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", t.cfg.IsHeadless()))
	if t.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(t.cfg.ExecPath))
	}
	if t.cfg.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	for name, value := range t.cfg.Flags {
		opts = append(opts, chromedp.Flag(name, value))
	}
	return opts
}

// Start launches the browser. Calling Start on a running transport is a no-op.
func (t *Transport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.browserCtx != nil {
		return nil
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), t.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			t.log.Debug("chromedp: " + fmt.Sprintf(format, args...))
		}))

	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()
	select {
	case err := <-started:
		if err != nil {
			browserCancel()
			allocCancel()
			return fmt.Errorf("browser: launching chrome: %w", err)
		}
	case <-ctx.Done():
		browserCancel()
		allocCancel()
		return ctx.Err()
	}

	t.allocCancel = allocCancel
	t.browserCtx = browserCtx
	t.browserCancel = browserCancel
	t.log.Info("browser started", logger.Fields("headless", t.cfg.IsHeadless(), "origin", t.cfg.Origin))
	return nil
}

// Stop closes the browser. In-flight exchanges settle as errors.
func (t *Transport) Stop(context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.browserCtx == nil {
		return nil
	}
	t.browserCancel()
	t.allocCancel()
	t.browserCtx, t.browserCancel, t.allocCancel = nil, nil, nil
	t.log.Info("browser stopped")
	return nil
}

// Close is Stop, for callers that only know provider.Closeable.
func (t *Transport) Close(ctx context.Context) error { return t.Stop(ctx) }

func (t *Transport) Health(context.Context) component.Health {
	h := component.Health{Name: Name, Status: component.StatusHealthy}
	if !t.running() {
		h.Status = component.StatusUnhealthy
		h.Message = "browser not started"
	}
	return h
}

func (t *Transport) Describe() component.Description {
	return component.Description{
		Name:    "Transport",
		Type:    "transport",
		Details: fmt.Sprintf("backend=%s origin=%s headless=%t", Name, t.cfg.Origin, t.cfg.IsHeadless()),
	}
}

// IsAvailable reports whether the browser is running.
func (t *Transport) IsAvailable(context.Context) bool { return t.running() }

func (t *Transport) running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.browserCtx != nil
}

// NewHandle returns a fresh handle.
func (t *Transport) NewHandle() transport.Handle {
	return &handle{Base: transport.NewBase(), t: t}
}

// newTab opens a tab in the running browser.
func (t *Transport) newTab() (context.Context, context.CancelFunc, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.browserCtx == nil {
		return nil, nil, errors.InvalidState("send", "browser not started")
	}
	ctx, cancel := chromedp.NewContext(t.browserCtx)
	return ctx, cancel, nil
}
