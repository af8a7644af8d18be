package xhr

import (
	"context"
	"sync"
	"time"

	"github.com/kbukum/xhrkit/transport"
)

// fakeHandle settles with a scripted event and result as soon as it is sent.
type fakeHandle struct {
	*transport.Base
	ev     transport.Event
	result transport.Result

	req  transport.Request
	body transport.Payload
}

func (h *fakeHandle) Send(ctx context.Context, body transport.Payload) <-chan transport.Event {
	_, req, events, ok := h.Begin(ctx)
	if !ok {
		return events
	}
	h.req = req
	h.body = body
	go h.Settle(h.ev, h.result)
	return events
}

// fakeTransport hands out fakeHandles and remembers them.
type fakeTransport struct {
	ev          transport.Event
	result      transport.Result
	unavailable bool
	closed      bool

	mu      sync.Mutex
	handles []*fakeHandle
}

func (t *fakeTransport) Name() string { return "fake" }

func (t *fakeTransport) IsAvailable(context.Context) bool { return !t.unavailable }

func (t *fakeTransport) NewHandle() transport.Handle {
	h := &fakeHandle{Base: transport.NewBase(), ev: t.ev, result: t.result}
	t.mu.Lock()
	t.handles = append(t.handles, h)
	t.mu.Unlock()
	return h
}

func (t *fakeTransport) Close(context.Context) error {
	t.closed = true
	return nil
}

func (t *fakeTransport) last() *fakeHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.handles) == 0 {
		return nil
	}
	return t.handles[len(t.handles)-1]
}

func loadOf(status int, statusText, headers string, response any) *fakeTransport {
	return &fakeTransport{
		ev: transport.EventLoad,
		result: transport.Result{
			Status:      status,
			StatusText:  statusText,
			HeaderBlock: headers,
			Response:    response,
		},
	}
}

// fixedClock always returns the same instant.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
