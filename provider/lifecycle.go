package provider

import "context"

// Closeable is optionally implemented by providers that hold resources
// requiring explicit cleanup (e.g., a browser process).
type Closeable interface {
	Close(ctx context.Context) error
}

// Close closes p if it implements Closeable.
func Close(ctx context.Context, p Provider) error {
	if c, ok := p.(Closeable); ok {
		return c.Close(ctx)
	}
	return nil
}
