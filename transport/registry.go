package transport

import (
	"fmt"
	"strings"

	"github.com/kbukum/xhrkit/provider"
)

// Factory builds a Transport from a backend-specific config map.
type Factory = provider.Factory[Transport]

var registry = provider.NewRegistry[Transport]()

// Register adds a named backend factory. Names are case-insensitive; a
// second registration under the same name replaces the first.
func Register(name string, factory Factory) {
	registry.RegisterFactory(name, factory)
}

// New builds the named backend.
func New(name string, cfg map[string]any) (Transport, error) {
	backend := strings.ToLower(strings.TrimSpace(name))
	t, err := registry.Create(backend, cfg)
	if err != nil {
		return nil, fmt.Errorf("transport backend %q: %w", backend, err)
	}
	if t == nil {
		return nil, fmt.Errorf("transport backend %q returned nil", backend)
	}
	return t, nil
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	return registry.List()
}

// Has reports whether a backend is registered under name.
func Has(name string) bool {
	return registry.Has(name)
}
