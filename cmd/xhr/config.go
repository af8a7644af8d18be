package main

import (
	"fmt"
	"strings"

	"github.com/kbukum/xhrkit/config"
	"github.com/kbukum/xhrkit/internal/testserver"
	"github.com/kbukum/xhrkit/observability"
	"github.com/kbukum/xhrkit/transport"
	"github.com/kbukum/xhrkit/transport/backends"
	"github.com/kbukum/xhrkit/xhr"
)

const serviceName = "xhr"

// Config is the xhr binary configuration, loaded from config.yml, .env
// and XHR_ prefixed environment variables.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	XHR           xhr.Config           `yaml:"xhr" mapstructure:"xhr"`
	Transport     TransportConfig      `yaml:"transport" mapstructure:"transport"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Server        testserver.Config    `yaml:"server" mapstructure:"server"`
}

// TransportConfig selects a backend and holds the per-backend settings,
// decoded by the backend factory.
type TransportConfig struct {
	Backend string         `yaml:"backend" mapstructure:"backend"`
	NetHTTP map[string]any `yaml:"nethttp" mapstructure:"nethttp"`
	Browser map[string]any `yaml:"browser" mapstructure:"browser"`
}

// Settings returns the config map of the selected backend.
func (c *TransportConfig) Settings() map[string]any {
	switch c.Backend {
	case "browser":
		return c.Browser
	default:
		return c.NetHTTP
	}
}

func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.XHR.ApplyDefaults()
	c.Observability.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Transport.Backend = strings.ToLower(strings.TrimSpace(c.Transport.Backend))
	if c.Transport.Backend == "" {
		c.Transport.Backend = "nethttp"
	}
}

func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.XHR.Validate(); err != nil {
		return fmt.Errorf("config.xhr: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	backends.RegisterDefaults()
	if transport.Has(c.Transport.Backend) {
		return nil
	}
	return fmt.Errorf("config.transport.backend must be one of %v (got: %s)", transport.Backends(), c.Transport.Backend)
}

// loadConfig reads the configuration, optionally from an explicit file.
func loadConfig(path string) (*Config, error) {
	var opts []config.LoaderOption
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
