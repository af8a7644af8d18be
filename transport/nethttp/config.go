package nethttp

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kbukum/xhrkit/version"
)

const defaultMaxBodyBytes = 32 << 20

// Config configures the net/http backend.
type Config struct {
	// Origin is the document URL relative request URLs resolve against.
	Origin string `yaml:"origin" mapstructure:"origin"`
	// UserAgent is sent unless the request sets its own. Defaults to xhrkit/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Timeout caps every exchange. Zero leaves the request timeout alone.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// MaxBodyBytes bounds the response body. Defaults to 32 MiB.
	MaxBodyBytes int64 `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	// Cookies enables the cookie jar.
	Cookies bool `yaml:"cookies" mapstructure:"cookies"`
	// MaxRedirects limits followed redirects. Defaults to 10.
	MaxRedirects int `yaml:"max_redirects" mapstructure:"max_redirects"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = defaultMaxBodyBytes
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 10
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("nethttp: timeout must not be negative")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("nethttp: max_body_bytes must be positive")
	}
	if c.Origin != "" {
		u, err := url.Parse(c.Origin)
		if err != nil {
			return fmt.Errorf("nethttp: invalid origin: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("nethttp: origin must be an http or https URL, got %q", c.Origin)
		}
		if u.Host == "" {
			return fmt.Errorf("nethttp: origin %q has no host", c.Origin)
		}
	}
	return nil
}
