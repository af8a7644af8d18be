package xhr

import (
	"context"
	"fmt"

	"github.com/kbukum/xhrkit/component"
	"github.com/kbukum/xhrkit/provider"
	"github.com/kbukum/xhrkit/transport"
)

// Config configures the adapter component.
type Config struct {
	// Name is the provider and component name. Defaults to "xhr".
	Name string `yaml:"name" mapstructure:"name"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("xhr: name is required")
	}
	return nil
}

// Component manages an Adapter and the lifecycle of its transport. A
// transport that is itself a component, such as the browser backend, is
// started and stopped with it.
type Component struct {
	cfg     Config
	adapter *Adapter
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the adapter component over t.
func NewComponent(cfg Config, t transport.Transport, opts ...Option) *Component {
	cfg.ApplyDefaults()
	opts = append([]Option{WithName(cfg.Name)}, opts...)
	return &Component{cfg: cfg, adapter: New(t, opts...)}
}

// Adapter returns the managed adapter.
func (c *Component) Adapter() *Adapter { return c.adapter }

func (c *Component) Name() string { return c.cfg.Name }

func (c *Component) Start(ctx context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if c.adapter.transport == nil {
		return fmt.Errorf("xhr: no transport configured")
	}
	if lc, ok := c.adapter.transport.(component.Component); ok {
		if err := lc.Start(ctx); err != nil {
			return fmt.Errorf("xhr: starting transport %s: %w", c.adapter.transport.Name(), err)
		}
	}
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if c.adapter.transport == nil {
		return nil
	}
	if lc, ok := c.adapter.transport.(component.Component); ok {
		return lc.Stop(ctx)
	}
	return provider.Close(ctx, c.adapter.transport)
}

func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.cfg.Name, Status: component.StatusHealthy}
	if !c.adapter.IsAvailable(ctx) {
		h.Status = component.StatusUnhealthy
		h.Message = "transport unavailable"
	}
	return h
}

func (c *Component) Describe() component.Description {
	backend := c.adapter.backendName()
	if backend == "" {
		backend = "none"
	}
	return component.Description{
		Name:    "XHR Adapter",
		Type:    "adapter",
		Details: fmt.Sprintf("name=%s backend=%s", c.cfg.Name, backend),
	}
}
