package transport

import (
	"context"
	"time"

	"github.com/kbukum/xhrkit/data"
)

// Event is the terminal outcome of one exchange.
type Event int

const (
	// EventLoad means a response was received in full.
	EventLoad Event = iota
	// EventError means the exchange failed at the network level.
	EventError
	// EventAbort means the exchange was cancelled.
	EventAbort
	// EventTimeout means the exchange exceeded its timeout.
	EventTimeout
)

func (e Event) String() string {
	switch e {
	case EventLoad:
		return "load"
	case EventError:
		return "error"
	case EventAbort:
		return "abort"
	case EventTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Transport creates handles. Implementations are safe for concurrent use.
type Transport interface {
	// Name returns the backend name.
	Name() string
	// IsAvailable reports whether the backend can currently run exchanges.
	IsAvailable(ctx context.Context) bool
	// NewHandle returns a fresh, unopened handle.
	NewHandle() Handle
}

// Handle is a single-use request object modelled on XMLHttpRequest.
type Handle interface {
	// Open sets the method and URL. It must be called before Send.
	Open(method, url string)
	// SetTimeout bounds the exchange. Zero disables the timeout.
	SetTimeout(d time.Duration)
	// SetWithCredentials controls whether cookies go on cross-origin requests.
	SetWithCredentials(on bool)
	// SetResponseType selects the representation returned by Response.
	SetResponseType(rt data.ResponseType)
	// SetRequestHeader adds a request header. Repeated names combine with ", ".
	SetRequestHeader(name, value string)
	// Send starts the exchange. Cancelling ctx aborts it.
	Send(ctx context.Context, body Payload) <-chan Event
	// Abort cancels an in-flight exchange.
	Abort()

	Status() int
	StatusText() string
	Response() any
	// AllResponseHeaders returns the raw "name: value\r\n" header block.
	AllResponseHeaders() string
	// Err returns the cause of a non-load event, or nil.
	Err() error
}
