package browser

import (
	"fmt"
	"net/url"
)

const defaultOrigin = "about:blank"

// Config configures the browser backend.
type Config struct {
	// Origin is the page each tab opens before running the request.
	Origin string `yaml:"origin" mapstructure:"origin"`
	// Headless runs Chrome without a window. Defaults to true.
	Headless *bool `yaml:"headless" mapstructure:"headless"`
	// ExecPath is the Chrome binary. Empty searches the usual locations.
	ExecPath string `yaml:"exec_path" mapstructure:"exec_path"`
	// NoSandbox disables the Chrome sandbox, needed in most containers.
	NoSandbox bool `yaml:"no_sandbox" mapstructure:"no_sandbox"`
	// Flags are extra command line switches.
	Flags map[string]any `yaml:"flags" mapstructure:"flags"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Origin == "" {
		c.Origin = defaultOrigin
	}
	if c.Headless == nil {
		on := true
		c.Headless = &on
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Origin == defaultOrigin {
		return nil
	}
	u, err := url.Parse(c.Origin)
	if err != nil {
		return fmt.Errorf("browser: invalid origin: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "file", "data":
		return nil
	default:
		return fmt.Errorf("browser: unsupported origin scheme %q", u.Scheme)
	}
}

// IsHeadless reports the effective headless setting.
func (c *Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}
