package transport

import (
	"bytes"
	"io"
	"net/url"
	"strings"

	"github.com/kbukum/xhrkit/data"
)

// PayloadKind tags the variant held by a Payload.
type PayloadKind int

const (
	PayloadNone PayloadKind = iota
	PayloadText
	PayloadBinary
	PayloadStream
	PayloadURLEncoded
	PayloadMultipart
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadNone:
		return "none"
	case PayloadText:
		return "text"
	case PayloadBinary:
		return "binary"
	case PayloadStream:
		return "stream"
	case PayloadURLEncoded:
		return "urlencoded"
	case PayloadMultipart:
		return "multipart"
	default:
		return "unknown"
	}
}

// Default content types applied when the caller sets no Content-Type.
const (
	ContentTypeText       = "text/plain;charset=UTF-8"
	ContentTypeURLEncoded = "application/x-www-form-urlencoded;charset=UTF-8"
)

// Payload is a request body in one of the forms a transport can send.
// Build it with the constructors; the zero value is PayloadNone.
type Payload struct {
	kind        PayloadKind
	text        string
	bytes       []byte
	reader      io.Reader
	form        *data.FormData
	contentType string
}

// NoBody is the empty payload.
func NoBody() Payload { return Payload{} }

// TextPayload sends s as UTF-8 text.
func TextPayload(s string) Payload {
	return Payload{kind: PayloadText, text: s, contentType: ContentTypeText}
}

// BinaryPayload sends b unchanged. contentType may be empty.
func BinaryPayload(b []byte, contentType string) Payload {
	return Payload{kind: PayloadBinary, bytes: b, contentType: contentType}
}

// StreamPayload sends everything read from r.
func StreamPayload(r io.Reader) Payload {
	return Payload{kind: PayloadStream, reader: r}
}

// URLEncodedPayload sends v as a form-urlencoded body.
func URLEncodedPayload(v url.Values) Payload {
	return Payload{kind: PayloadURLEncoded, text: v.Encode(), contentType: ContentTypeURLEncoded}
}

// MultipartPayload sends f as multipart/form-data.
func MultipartPayload(f *data.FormData) Payload {
	return Payload{kind: PayloadMultipart, form: f}
}

// Kind returns the variant tag.
func (p Payload) Kind() PayloadKind { return p.kind }

// Encode returns the body reader and its default content type. The
// reader is nil for PayloadNone. Multipart bodies are fully encoded here
// so the boundary is known.
func (p Payload) Encode() (io.Reader, string, error) {
	switch p.kind {
	case PayloadText, PayloadURLEncoded:
		return strings.NewReader(p.text), p.contentType, nil
	case PayloadBinary:
		return bytes.NewReader(p.bytes), p.contentType, nil
	case PayloadStream:
		return p.reader, "", nil
	case PayloadMultipart:
		b, contentType, err := p.form.Encode()
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(b), contentType, nil
	default:
		return nil, "", nil
	}
}

// Bytes returns the whole body and its default content type, draining
// stream payloads.
func (p Payload) Bytes() ([]byte, string, error) {
	r, contentType, err := p.Encode()
	if err != nil || r == nil {
		return nil, contentType, err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, "", err
	}
	return b, contentType, nil
}
