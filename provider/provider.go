package provider

import "context"

// Provider is anything the registries and middlewares can address by name.
type Provider interface {
	Name() string
	// IsAvailable reports whether the provider can take calls right now.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from a decoded config section.
type Factory[T Provider] func(cfg map[string]any) (T, error)
