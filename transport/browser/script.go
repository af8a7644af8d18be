package browser

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kbukum/xhrkit/transport"
)

// registryVar is the page global holding in-flight XHRs by id.
const registryVar = "__xhrkit"

// exchangeSpec is the request as handed to the page script.
type exchangeSpec struct {
	ID              string      `json:"id"`
	Method          string      `json:"method"`
	URL             string      `json:"url"`
	Headers         [][2]string `json:"headers"`
	HasBody         bool        `json:"hasBody"`
	Body            string      `json:"body"`
	ContentType     string      `json:"contentType"`
	WithCredentials bool        `json:"withCredentials"`
}

// scriptResult is what the page script resolves with.
type scriptResult struct {
	Event      string `json:"event"`
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
	Headers    string `json:"headers"`
	Body       string `json:"body"`
	Message    string `json:"message"`
}

const exchangeScript = `(() => new Promise((resolve) => {
  const spec = %s;
  const reg = (window.%s = window.%s || {});
  const xhr = new XMLHttpRequest();
  reg[spec.id] = xhr;
  const encode = (buf) => {
    const bytes = new Uint8Array(buf || new ArrayBuffer(0));
    let s = "";
    for (let i = 0; i < bytes.length; i += 0x8000) {
      s += String.fromCharCode.apply(null, bytes.subarray(i, i + 0x8000));
    }
    return btoa(s);
  };
  const settle = (event, message) => {
    delete reg[spec.id];
    resolve({
      event: event,
      status: xhr.status,
      statusText: xhr.statusText,
      headers: xhr.getAllResponseHeaders(),
      body: event === "load" ? encode(xhr.response) : "",
      message: message || "",
    });
  };
  try {
    xhr.open(spec.method, spec.url, true);
    xhr.withCredentials = spec.withCredentials;
    xhr.responseType = "arraybuffer";
    let hasContentType = false;
    for (const [name, value] of spec.headers) {
      if (name.toLowerCase() === "content-type") hasContentType = true;
      xhr.setRequestHeader(name, value);
    }
    xhr.onload = () => settle("load");
    xhr.onerror = () => settle("error");
    xhr.onabort = () => settle("abort");
    xhr.ontimeout = () => settle("timeout");
    let body = null;
    if (spec.hasBody) {
      const raw = atob(spec.body);
      body = new Uint8Array(raw.length);
      for (let i = 0; i < raw.length; i++) body[i] = raw.charCodeAt(i);
      if (spec.contentType && !hasContentType) xhr.setRequestHeader("Content-Type", spec.contentType);
    }
    xhr.send(body);
  } catch (e) {
    settle("error", String(e));
  }
}))()`

// buildScript renders the page script for one exchange.
func buildScript(id string, req transport.Request, body []byte, hasBody bool, contentType string) (string, error) {
	spec := exchangeSpec{
		ID:              id,
		Method:          req.Method,
		URL:             req.URL,
		Headers:         [][2]string{},
		HasBody:         hasBody,
		ContentType:     contentType,
		WithCredentials: req.WithCredentials,
	}
	if hasBody {
		spec.Body = base64.StdEncoding.EncodeToString(body)
	}
	req.Headers.Each(func(name, value string) {
		spec.Headers = append(spec.Headers, [2]string{name, value})
	})

	encoded, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(exchangeScript, encoded, registryVar, registryVar), nil
}

// abortScript aborts the registered XHR with id, if it is still running.
func abortScript(id string) string {
	quoted, _ := json.Marshal(id)
	return fmt.Sprintf(`(() => { const x = (window.%s || {})[%s]; if (x) x.abort(); return !!x; })()`,
		registryVar, quoted)
}

// event maps the script's event name.
func (r scriptResult) event() transport.Event {
	switch r.Event {
	case "load":
		return transport.EventLoad
	case "abort":
		return transport.EventAbort
	case "timeout":
		return transport.EventTimeout
	default:
		return transport.EventError
	}
}

// bodyBytes decodes the base64 response body.
func (r scriptResult) bodyBytes() ([]byte, error) {
	if r.Body == "" {
		return []byte{}, nil
	}
	return base64.StdEncoding.DecodeString(r.Body)
}

// headerValue returns the named header from a raw header block.
func headerValue(block, name string) string {
	for _, line := range strings.Split(block, "\r\n") {
		key, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), name) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
