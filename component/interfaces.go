package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's status as reported to ReadyCheck.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a lifecycle-managed part of the process, such as the
// adapter, a transport backend that owns a browser, or the fixture server.
// Name must be unique within a Registry.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	// Stop releases everything Start acquired. It is called at most once
	// per successful Start.
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description holds summary information logged at startup.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string
	// Type categorizes the component: "adapter", "transport", "server".
	Type string
	// Details is a one-line key=value summary, e.g. "backend=nethttp".
	Details string
}

// Describable is optionally implemented by Components to report what
// they are and how they are configured.
type Describable interface {
	Describe() Description
}
