package data

import (
	"encoding/json"
	"time"

	"github.com/kbukum/xhrkit/validation"
)

// ResponseType selects how the transport represents the response body.
type ResponseType string

const (
	ResponseTypeDefault     ResponseType = ""
	ResponseTypeText        ResponseType = "text"
	ResponseTypeJSON        ResponseType = "json"
	ResponseTypeArrayBuffer ResponseType = "arraybuffer"
	ResponseTypeBlob        ResponseType = "blob"
	ResponseTypeDocument    ResponseType = "document"
)

// HeaderValue is the ordered list of values for one request header.
type HeaderValue []string

// UnmarshalJSON accepts either a single string or an array. Array members
// that are not strings are dropped.
func (h *HeaderValue) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*h = HeaderValue{single}
		return nil
	}
	var many []any
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	out := make(HeaderValue, 0, len(many))
	for _, v := range many {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	*h = out
	return nil
}

// HeadersMap maps request header names to their values.
type HeadersMap map[string]HeaderValue

// Set replaces the values of name.
func (h HeadersMap) Set(name string, values ...string) {
	h[name] = HeaderValue(values)
}

// Request describes one exchange. The adapter only reads it.
type Request struct {
	// Method is the HTTP verb.
	Method string `json:"method" validate:"required,http_token"`
	// URL is absolute, or relative to the transport's document origin.
	URL string `json:"url" validate:"required"`
	// Headers are request headers; multiple values are joined with ", ".
	Headers HeadersMap `json:"headers,omitempty"`
	// Body accepts []byte, io.Reader, Blob, url.Values, FormData, strings,
	// numbers and booleans as-is. Anything else is sent as JSON text.
	Body any `json:"body,omitempty"`
	// ResponseType is the requested body representation.
	ResponseType ResponseType `json:"responseType,omitempty" validate:"omitempty,oneof=text json arraybuffer blob document"`
	// Timeout bounds the whole exchange. Zero means no timeout.
	Timeout time.Duration `json:"-"`
	// WithCredentials sends cookies on cross-origin requests.
	WithCredentials bool `json:"withCredentials,omitempty"`
}

type requestJSON struct {
	Method          string       `json:"method"`
	URL             string       `json:"url"`
	Headers         HeadersMap   `json:"headers,omitempty"`
	Body            any          `json:"body,omitempty"`
	ResponseType    ResponseType `json:"responseType,omitempty"`
	Timeout         int64        `json:"timeout,omitempty"`
	WithCredentials bool         `json:"withCredentials,omitempty"`
}

// MarshalJSON writes Timeout as integer milliseconds.
func (r Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(requestJSON{
		Method:          r.Method,
		URL:             r.URL,
		Headers:         r.Headers,
		Body:            r.Body,
		ResponseType:    r.ResponseType,
		Timeout:         r.Timeout.Milliseconds(),
		WithCredentials: r.WithCredentials,
	})
}

// UnmarshalJSON reads Timeout as integer milliseconds.
func (r *Request) UnmarshalJSON(b []byte) error {
	var raw requestJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*r = Request{
		Method:          raw.Method,
		URL:             raw.URL,
		Headers:         raw.Headers,
		Body:            raw.Body,
		ResponseType:    raw.ResponseType,
		Timeout:         time.Duration(raw.Timeout) * time.Millisecond,
		WithCredentials: raw.WithCredentials,
	}
	return nil
}

// Validate checks the request shape. The adapter does not call it; an
// invalid request simply settles as an error response there.
func (r *Request) Validate() error {
	return validation.Validate(r)
}
