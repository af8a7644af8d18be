package transport

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/xhrkit/data"
	"github.com/kbukum/xhrkit/errors"
)

// Request is the exchange description a Base has collected before Send.
type Request struct {
	Method          string
	URL             string
	Timeout         time.Duration
	WithCredentials bool
	ResponseType    data.ResponseType
	Headers         *Headers
}

// Result is what a backend reports when the exchange ends.
type Result struct {
	Status      int
	StatusText  string
	Response    any
	HeaderBlock string
	Err         error
}

// Base implements the state handling shared by every backend handle:
// request configuration, the single-use check, cancellation and one-shot
// event delivery. Backends embed it and call Begin and Settle.
type Base struct {
	mu      sync.Mutex
	req     Request
	opened  bool
	sent    bool
	settled bool
	cancel  context.CancelCauseFunc
	events  chan Event
	result  Result
}

// NewBase returns a Base ready for Open.
func NewBase() *Base {
	return &Base{req: Request{Headers: NewHeaders()}}
}

func (b *Base) Open(method, url string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.req.Method = method
	b.req.URL = url
	b.opened = true
}

func (b *Base) SetTimeout(d time.Duration) {
	b.mu.Lock()
	b.req.Timeout = d
	b.mu.Unlock()
}

// Timeout returns the configured timeout.
func (b *Base) Timeout() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.req.Timeout
}

func (b *Base) SetWithCredentials(on bool) {
	b.mu.Lock()
	b.req.WithCredentials = on
	b.mu.Unlock()
}

func (b *Base) SetResponseType(rt data.ResponseType) {
	b.mu.Lock()
	b.req.ResponseType = rt
	b.mu.Unlock()
}

func (b *Base) SetRequestHeader(name, value string) {
	b.mu.Lock()
	b.req.Headers.Add(name, value)
	b.mu.Unlock()
}

// Begin marks the handle as sent and derives the exchange context. The
// context is cancelled with an ABORTED cause by Abort or when parent is
// done, and with a TIMEOUT cause once the configured timeout elapses.
// The returned channel is the one Send must hand back. When ok is false
// the handle was misused and an error event has already been delivered.
func (b *Base) Begin(parent context.Context) (ctx context.Context, req Request, events <-chan Event, ok bool) {
	b.mu.Lock()
	if b.sent {
		b.mu.Unlock()
		// the first exchange keeps its own channel and result
		ch := make(chan Event, 1)
		ch <- EventError
		close(ch)
		return nil, Request{}, ch, false
	}
	b.sent = true
	b.events = make(chan Event, 1)
	events = b.events
	if !b.opened {
		b.mu.Unlock()
		b.Settle(EventError, Result{Err: errors.InvalidState("send", "unopened")})
		return nil, Request{}, events, false
	}
	req = b.req

	ctx, cancel := context.WithCancelCause(parent)
	b.cancel = cancel
	if req.Timeout > 0 {
		var stop context.CancelFunc
		ctx, stop = context.WithTimeoutCause(ctx, req.Timeout, errors.Timeout(req.URL, req.Timeout.Milliseconds()))
		b.cancel = func(cause error) {
			cancel(cause)
			stop()
		}
	}
	b.mu.Unlock()
	return ctx, req, events, true
}

// Abort cancels the exchange. It is a no-op before Send or after settlement.
func (b *Base) Abort() {
	b.mu.Lock()
	cancel := b.cancel
	url := b.req.URL
	b.mu.Unlock()
	if cancel != nil {
		cancel(errors.Aborted(url, nil))
	}
}

// Interrupted maps a done exchange context to its event and cause.
// The cause is nil while ctx is still live.
func (b *Base) Interrupted(ctx context.Context) (Event, error) {
	if ctx.Err() == nil {
		return EventLoad, nil
	}
	cause := context.Cause(ctx)
	b.mu.Lock()
	url := b.req.URL
	b.mu.Unlock()
	if errors.IsTimeout(cause) {
		return EventTimeout, cause
	}
	if errors.IsAborted(cause) {
		return EventAbort, cause
	}
	// parent context cancelled or its own deadline passed
	return EventAbort, errors.Aborted(url, cause)
}

// Settle records the result and delivers ev. Only the first call has effect.
func (b *Base) Settle(ev Event, r Result) {
	b.mu.Lock()
	if b.settled {
		b.mu.Unlock()
		return
	}
	b.settled = true
	b.result = r
	cancel := b.cancel
	events := b.events
	b.mu.Unlock()

	if cancel != nil {
		cancel(nil)
	}
	events <- ev
	close(events)
}

func (b *Base) Status() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result.Status
}

func (b *Base) StatusText() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result.StatusText
}

func (b *Base) Response() any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result.Response
}

func (b *Base) AllResponseHeaders() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result.HeaderBlock
}

func (b *Base) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.result.Err
}
