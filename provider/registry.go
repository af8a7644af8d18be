package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/xhrkit/errors"
)

// Registry maps backend names to the factories that build them. Names are
// matched case-insensitively and surrounding space is ignored.
type Registry[T Provider] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry creates an empty Registry.
func NewRegistry[T Provider]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterFactory stores factory under name, replacing any earlier one.
// Empty names and nil factories are ignored.
func (r *Registry[T]) RegisterFactory(name string, factory Factory[T]) {
	name = normalize(name)
	if name == "" || factory == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Has reports whether a factory is registered under name.
func (r *Registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[normalize(name)]
	return ok
}

// Create builds a provider with the named factory. An unknown name yields
// an UNSUPPORTED AppError listing the registered names.
func (r *Registry[T]) Create(name string, cfg map[string]any) (T, error) {
	r.mu.RLock()
	factory, ok := r.factories[normalize(name)]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, errors.New(errors.ErrCodeUnsupported,
			fmt.Sprintf("no factory registered for %q (available: %v)", normalize(name), r.List()))
	}
	return factory(cfg)
}

// List returns the registered names in sorted order.
func (r *Registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
