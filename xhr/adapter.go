package xhr

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/xhrkit/data"
	"github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
	"github.com/kbukum/xhrkit/provider"
	"github.com/kbukum/xhrkit/transport"
)

const defaultName = "xhr"

// Status texts of absorbed failures.
const (
	StatusTextTimeout = "Timeout"
	StatusTextAborted = "Aborted"
)

// Adapter executes requests over a transport. It holds no per-request
// state and is safe for concurrent use.
type Adapter struct {
	transport transport.Transport
	name      string
	log       *logger.Logger
	metrics   *observability.Metrics
	now       func() time.Time
}

var (
	_ provider.RequestResponse[*data.Request, data.Response] = (*Adapter)(nil)
	_ provider.Closeable                                     = (*Adapter)(nil)
)

// Option customizes an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(l *logger.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMetrics records request start/end metrics for every execution.
func WithMetrics(m *observability.Metrics) Option {
	return func(a *Adapter) { a.metrics = m }
}

// WithClock replaces time.Now, used for the send time and durations.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

// WithName sets the provider name. Defaults to "xhr".
func WithName(name string) Option {
	return func(a *Adapter) {
		if name != "" {
			a.name = name
		}
	}
}

// New creates an Adapter over t.
func New(t transport.Transport, opts ...Option) *Adapter {
	a := &Adapter{
		transport: t,
		name:      defaultName,
		log:       logger.Get(logger.ComponentAdapter),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Name() string { return a.name }

// IsAvailable reports whether the underlying transport can run exchanges.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	return a.transport != nil && a.transport.IsAvailable(ctx)
}

// Transport returns the underlying transport.
func (a *Adapter) Transport() transport.Transport { return a.transport }

// Close closes the transport if it holds resources.
func (a *Adapter) Close(ctx context.Context) error {
	if a.transport == nil {
		return nil
	}
	return provider.Close(ctx, a.transport)
}

// Execute runs req and returns its Response. The error is always nil;
// failures are reported through the Response.
func (a *Adapter) Execute(ctx context.Context, req *data.Request) (data.Response, error) {
	return a.execute(ctx, req), nil
}

// ExecuteAsync runs req in the background. The channel receives exactly
// one Response and is then closed.
func (a *Adapter) ExecuteAsync(ctx context.Context, req *data.Request) <-chan data.Response {
	out := make(chan data.Response, 1)
	go func() {
		defer close(out)
		out <- a.execute(ctx, req)
	}()
	return out
}

func (a *Adapter) execute(ctx context.Context, req *data.Request) data.Response {
	if ctx == nil {
		ctx = context.Background()
	}
	sent := a.now()

	requestID := logger.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = logger.ContextWithRequestID(ctx, requestID)
	}
	var method, url string
	if req != nil {
		method, url = req.Method, req.URL
	}

	ctx, x := observability.BeginExchange(ctx, observability.SpanXHRExecute, a.name, method, requestID, a.metrics, sent,
		attribute.String(observability.AttrHTTPMethod, method),
		attribute.String(observability.AttrHTTPURL, url),
		attribute.String(observability.AttrBackend, a.backendName()),
	)

	ev, h, cause := a.exchange(ctx, req)
	resp := a.settle(ctx, ev, h, sent)

	x.Span().SetAttributes(
		attribute.Int(observability.AttrHTTPStatus, resp.Status),
		attribute.String(observability.AttrOutcome, ev.String()),
	)
	elapsed := x.Finish(ctx, Outcome(resp, nil), cause, a.now())
	a.metrics.RecordStatus(ctx, a.name, resp.Status)

	fields := logger.MergeWithDuration(logger.RequestFields(requestID, method, url), elapsed)
	fields[logger.FieldStatus] = resp.Status
	fields[logger.FieldOutcome] = ev.String()
	if resp.Meta.Error {
		a.log.Warn("request failed", logger.MergeWithError(fields, cause))
	} else {
		a.log.Debug("request settled", fields)
	}
	return resp
}

// exchange configures a handle from req, sends it and waits for the
// terminal event. h is nil when no handle could be created.
func (a *Adapter) exchange(ctx context.Context, req *data.Request) (ev transport.Event, h transport.Handle, cause error) {
	if req == nil {
		return transport.EventError, nil, errors.MissingField("request")
	}
	if a.transport == nil {
		return transport.EventError, nil, errors.InvalidState("execute", "no transport")
	}

	h = a.transport.NewHandle()
	h.Open(req.Method, req.URL)
	h.SetTimeout(req.Timeout)
	h.SetWithCredentials(req.WithCredentials)
	h.SetResponseType(effectiveResponseType(req.ResponseType))
	for _, kv := range requestHeaders(req.Headers) {
		h.SetRequestHeader(kv[0], kv[1])
	}

	payload, err := Classify(req.Body)
	if err != nil {
		return transport.EventError, h, err
	}

	ev, ok := <-h.Send(ctx, payload)
	if !ok {
		return transport.EventError, h, errors.InvalidState("send", "no event delivered")
	}
	return ev, h, h.Err()
}

// effectiveResponseType asks the transport for text when JSON is wanted;
// parsing happens here, keyed off the response content-type.
func effectiveResponseType(rt data.ResponseType) data.ResponseType {
	if rt == data.ResponseTypeJSON {
		return data.ResponseTypeText
	}
	return rt
}

// settle builds the Response for the terminal event ev.
func (a *Adapter) settle(ctx context.Context, ev transport.Event, h transport.Handle, sent time.Time) data.Response {
	resp := data.NewResponse()
	parseHeaders := func() {
		if h != nil {
			resp.Meta.Headers = ParseHeaders(h.AllResponseHeaders())
		}
	}

	switch ev {
	case transport.EventLoad:
		resp.Status = h.Status()
		resp.StatusText = h.StatusText()
		parseHeaders()
		resp.Data = h.Response()
		a.parseJSON(ctx, &resp)
		resp.Meta.Cached = IsCached(resp.Meta.Headers, sent)
	case transport.EventTimeout:
		resp.Meta.Timeout = true
		fallthrough
	case transport.EventAbort:
		parseHeaders()
		resp.Status = 0
		resp.Meta.Error = true
		resp.StatusText = StatusTextAborted
		if resp.Meta.Timeout {
			resp.StatusText = StatusTextTimeout
		}
	default:
		resp.Meta.Error = true
		if h != nil {
			// the last seen status is kept, unlike abort and timeout
			resp.Status = h.Status()
			resp.StatusText = h.StatusText()
		} else {
			resp.StatusText = ""
		}
		parseHeaders()
	}
	return resp
}

// parseJSON replaces text data with its parsed value when the response
// declares a JSON content-type. Unparseable text is kept as is.
func (a *Adapter) parseJSON(ctx context.Context, resp *data.Response) {
	text, ok := resp.Data.(string)
	contentType := resp.Header("content-type")
	if !ok || !isJSONContentType(contentType) {
		return
	}
	v, err := ParseJSON(text)
	if err != nil {
		a.log.WithContext(ctx).Debug("keeping unparseable JSON body as text",
			logger.MergeWithError(nil, errors.MalformedJSON(contentType, err)))
		return
	}
	resp.Data = v
}

func (a *Adapter) backendName() string {
	if a.transport == nil {
		return ""
	}
	return a.transport.Name()
}
