package logger

import (
	"sync"
)

// Component logger names used across xhrkit.
const (
	ComponentAdapter = "xhr"
	ComponentNetHTTP = "transport.nethttp"
	ComponentBrowser = "transport.browser"
	ComponentCLI     = "cli"
)

// registry is the global named-logger registry.
var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults seeds the registry with component loggers derived from
// the global logger. With no names it registers the xhrkit components.
// Call this after Init().
func RegisterDefaults(names ...string) {
	if len(names) == 0 {
		names = []string{ComponentAdapter, ComponentNetHTTP, ComponentBrowser, ComponentCLI}
	}
	for _, name := range names {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
