package data

import "strings"

// Severity grades a Message.
type Severity string

const (
	SeverityNone  Severity = "NONE"
	SeverityError Severity = "ERROR"
	SeverityFatal Severity = "FATAL"
)

// Message is a diagnostic attached to a response by upper layers.
type Message struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Data     []any    `json:"data,omitempty"`
}

// MetaData carries everything about a response except its payload.
type MetaData struct {
	// Headers are response headers keyed by lower-cased name.
	Headers map[string]string `json:"headers"`
	// Messages is always non-nil.
	Messages []Message `json:"messages"`
	// Error is set on network failure, abort and timeout.
	Error bool `json:"error"`
	// Cached is set when the Date header predates the send time.
	Cached bool `json:"cached"`
	// Timeout is set when the request exceeded its timeout.
	Timeout bool `json:"timeout"`
}

// Response is the normalized result of one exchange.
type Response struct {
	Status     int      `json:"status"`
	StatusText string   `json:"statusText"`
	Data       any      `json:"data"`
	Meta       MetaData `json:"meta"`
}

// NewResponse returns a response in its initial state.
func NewResponse() Response {
	return Response{
		StatusText: "OK",
		Meta: MetaData{
			Headers:  map[string]string{},
			Messages: []Message{},
		},
	}
}

// Header returns the value of the named response header, ignoring case.
func (r Response) Header(name string) string {
	return r.Meta.Headers[strings.ToLower(strings.TrimSpace(name))]
}

// OK reports whether the exchange completed with a 2xx status.
func (r Response) OK() bool {
	return !r.Meta.Error && r.Status >= 200 && r.Status < 300
}
