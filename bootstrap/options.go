package bootstrap

import (
	"time"

	"github.com/kbukum/xhrkit/logger"
)

// Option configures the App during creation.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	signals         bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{signals: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger. If not set, the logger is initialized
// from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) { o.gracefulTimeout = &d }
}

// WithoutSignals stops the App from listening for SIGINT/SIGTERM. Run then
// blocks on context cancellation only.
func WithoutSignals() Option {
	return func(o *appOptions) { o.signals = false }
}
