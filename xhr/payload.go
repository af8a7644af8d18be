package xhr

import (
	"encoding/json"
	"io"
	"math"
	"net/url"
	"reflect"
	"strconv"

	"github.com/kbukum/xhrkit/data"
	"github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/transport"
)

// Classify picks the payload variant for a request body.
//
// Bytes, blobs, readers, url.Values and form data go out unchanged.
// Strings, numbers and booleans are sent as their text form. Any other
// value is sent as its JSON encoding; an unencodable value is an
// INVALID_INPUT error.
func Classify(body any) (transport.Payload, error) {
	switch v := body.(type) {
	case nil:
		return transport.NoBody(), nil
	case []byte:
		return transport.BinaryPayload(v, ""), nil
	case data.Blob:
		return transport.BinaryPayload(v.Data, v.Type), nil
	case *data.Blob:
		if v == nil {
			return transport.NoBody(), nil
		}
		return transport.BinaryPayload(v.Data, v.Type), nil
	case url.Values:
		return transport.URLEncodedPayload(v), nil
	case data.FormData:
		return transport.MultipartPayload(&v), nil
	case *data.FormData:
		if v == nil {
			return transport.NoBody(), nil
		}
		return transport.MultipartPayload(v), nil
	case io.Reader:
		return transport.StreamPayload(v), nil
	}

	rv := reflect.ValueOf(body)
	switch rv.Kind() {
	case reflect.String:
		return transport.TextPayload(rv.String()), nil
	case reflect.Bool:
		return transport.TextPayload(strconv.FormatBool(rv.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return transport.TextPayload(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return transport.TextPayload(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return transport.TextPayload(formatNumber(rv.Float())), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return transport.NoBody(), nil
		}
	}

	b, err := json.Marshal(body)
	if err != nil {
		return transport.Payload{}, errors.InvalidInput("body", "cannot encode as JSON").WithCause(err)
	}
	return transport.TextPayload(string(b)), nil
}

// formatNumber renders f the way a browser stringifies a number.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	// encoding/json already follows the ECMAScript number format
	b, _ := json.Marshal(f)
	return string(b)
}
