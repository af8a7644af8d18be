package xhr

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/xhrkit/data"
	"github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/transport"
)

func newTestAdapter(t transport.Transport, opts ...Option) *Adapter {
	return New(t, append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

func getReq(url string) *data.Request {
	return &data.Request{Method: "GET", URL: url, Headers: data.HeadersMap{}}
}

func TestExecute_Load(t *testing.T) {
	ft := loadOf(200, "OK", "Content-Type: text/plain\r\nX-Id:  42 \r\n", "hello")
	resp, err := newTestAdapter(ft).Execute(context.Background(), getReq("/text"))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if resp.Status != 200 || resp.StatusText != "OK" {
		t.Errorf("status = %d %q", resp.Status, resp.StatusText)
	}
	if resp.Data != "hello" {
		t.Errorf("Data = %#v", resp.Data)
	}
	if resp.Meta.Error || resp.Meta.Timeout || resp.Meta.Cached {
		t.Errorf("Meta = %+v", resp.Meta)
	}
	if resp.Header("x-id") != "42" || resp.Header("Content-Type") != "text/plain" {
		t.Errorf("Headers = %v", resp.Meta.Headers)
	}
	if resp.Meta.Messages == nil || len(resp.Meta.Messages) != 0 {
		t.Errorf("Messages = %#v", resp.Meta.Messages)
	}
}

func TestExecute_JSONAutoParse(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        any
		want        any
	}{
		{"plain", "application/json", `{"a":1}`, map[string]any{"a": float64(1)}},
		{"xssi prefix", "application/json", ")]}',\n{\"a\":1}", map[string]any{"a": float64(1)}},
		{"xssi without comma", "application/json", ")]}'\n[1,2]", []any{float64(1), float64(2)}},
		{"vendor type", "application/vnd.api+json; charset=utf-8", `true`, true},
		{"malformed", "application/json", "{not valid", "{not valid"},
		{"not json", "text/plain", `{"a":1}`, `{"a":1}`},
		{"binary stays", "application/json", []byte(`{"a":1}`), []byte(`{"a":1}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := loadOf(200, "OK", "content-type: "+tt.contentType+"\r\n", tt.body)
			resp, _ := newTestAdapter(ft).Execute(context.Background(), getReq("/json"))
			if !reflect.DeepEqual(resp.Data, tt.want) {
				t.Errorf("Data = %#v, want %#v", resp.Data, tt.want)
			}
			if resp.Meta.Error {
				t.Error("parse outcome must not mark an error")
			}
		})
	}
}

func TestExecute_MalformedJSONLoggedAtDebug(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	ft := loadOf(200, "OK", "content-type: application/json\r\n", "{oops")
	New(ft, WithLogger(log)).Execute(context.Background(), getReq("/json"))

	out := buf.String()
	if !strings.Contains(out, "MALFORMED_JSON_BODY") || !strings.Contains(out, `"level":"debug"`) {
		t.Errorf("log = %s", out)
	}
	if strings.Contains(out, `"level":"warn"`) {
		t.Errorf("malformed JSON must not warn: %s", out)
	}
}

func TestExecute_ResponseTypeJSONRequestsText(t *testing.T) {
	ft := loadOf(200, "OK", "", "")
	req := getReq("/json")
	req.ResponseType = data.ResponseTypeJSON
	newTestAdapter(ft).Execute(context.Background(), req)
	if got := ft.last().req.ResponseType; got != data.ResponseTypeText {
		t.Errorf("handle response type = %q, want text", got)
	}

	req.ResponseType = data.ResponseTypeArrayBuffer
	newTestAdapter(ft).Execute(context.Background(), req)
	if got := ft.last().req.ResponseType; got != data.ResponseTypeArrayBuffer {
		t.Errorf("handle response type = %q, want arraybuffer", got)
	}
}

func TestExecute_Configuration(t *testing.T) {
	ft := loadOf(204, "No Content", "", nil)
	req := &data.Request{
		Method:          "PUT",
		URL:             "/things/1",
		Timeout:         1500 * time.Millisecond,
		WithCredentials: true,
		Headers: data.HeadersMap{
			"X-B":     {"a", "b", ""},
			"X-A":     {"1"},
			"X-Empty": {"", ""},
			"X-None":  {},
		},
	}
	newTestAdapter(ft).Execute(context.Background(), req)

	sent := ft.last().req
	if sent.Method != "PUT" || sent.URL != "/things/1" {
		t.Errorf("opened %s %s", sent.Method, sent.URL)
	}
	if sent.Timeout != 1500*time.Millisecond || !sent.WithCredentials {
		t.Errorf("timeout=%v credentials=%v", sent.Timeout, sent.WithCredentials)
	}
	if got := sent.Headers.Get("X-B"); got != "a, b" {
		t.Errorf("X-B = %q", got)
	}
	if sent.Headers.Has("X-Empty") || sent.Headers.Has("X-None") {
		t.Errorf("empty headers sent: %v", sent.Headers.Map())
	}
	var names []string
	sent.Headers.Each(func(name, _ string) { names = append(names, name) })
	if strings.Join(names, ",") != "X-A,X-B" {
		t.Errorf("header order = %v", names)
	}
}

func TestExecute_BodyIsClassified(t *testing.T) {
	ft := loadOf(200, "OK", "", "")
	req := getReq("/echo")
	req.Method = "POST"
	req.Body = map[string]any{"a": 1}
	newTestAdapter(ft).Execute(context.Background(), req)

	body := ft.last().body
	if body.Kind() != transport.PayloadText {
		t.Fatalf("kind = %v", body.Kind())
	}
	r, _, _ := body.Encode()
	b, _ := io.ReadAll(r)
	if string(b) != `{"a":1}` {
		t.Errorf("body = %s", b)
	}

	req.Body = nil
	newTestAdapter(ft).Execute(context.Background(), req)
	if kind := ft.last().body.Kind(); kind != transport.PayloadNone {
		t.Errorf("nil body kind = %v", kind)
	}
}

func TestExecute_Timeout(t *testing.T) {
	ft := &fakeTransport{ev: transport.EventTimeout, result: transport.Result{
		Status: 200, StatusText: "OK", Err: errors.Timeout("/slow", 10),
	}}
	resp, err := newTestAdapter(ft).Execute(context.Background(), getReq("/slow"))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if resp.Status != 0 || resp.StatusText != "Timeout" || !resp.Meta.Error || !resp.Meta.Timeout {
		t.Errorf("resp = %+v", resp)
	}
	if Outcome(resp, nil) != OutcomeTimeout {
		t.Errorf("Outcome = %q", Outcome(resp, nil))
	}
}

func TestExecute_Abort(t *testing.T) {
	ft := &fakeTransport{ev: transport.EventAbort, result: transport.Result{
		Status: 200, HeaderBlock: "x-partial: yes\r\n", Err: errors.Aborted("/slow", nil),
	}}
	resp, _ := newTestAdapter(ft).Execute(context.Background(), getReq("/slow"))
	if resp.Status != 0 || resp.StatusText != "Aborted" || !resp.Meta.Error || resp.Meta.Timeout {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Header("x-partial") != "yes" {
		t.Errorf("headers not parsed on abort: %v", resp.Meta.Headers)
	}
	if resp.Data != nil {
		t.Errorf("Data = %#v", resp.Data)
	}
	if Outcome(resp, nil) != OutcomeAborted {
		t.Errorf("Outcome = %q", Outcome(resp, nil))
	}
}

func TestExecute_ErrorKeepsLastStatus(t *testing.T) {
	ft := &fakeTransport{ev: transport.EventError, result: transport.Result{
		Status: 502, StatusText: "Bad Gateway", HeaderBlock: "server: edge\r\n",
		Err: errors.Network("/x", io.ErrUnexpectedEOF),
	}}
	resp, _ := newTestAdapter(ft).Execute(context.Background(), getReq("/x"))
	if resp.Status != 502 || resp.StatusText != "Bad Gateway" {
		t.Errorf("status = %d %q", resp.Status, resp.StatusText)
	}
	if !resp.Meta.Error || resp.Meta.Timeout {
		t.Errorf("Meta = %+v", resp.Meta)
	}
	if resp.Header("server") != "edge" {
		t.Errorf("Headers = %v", resp.Meta.Headers)
	}
	if Outcome(resp, nil) != OutcomeError {
		t.Errorf("Outcome = %q", Outcome(resp, nil))
	}
}

func TestExecute_NilRequest(t *testing.T) {
	ft := loadOf(200, "OK", "", "")
	resp, err := newTestAdapter(ft).Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !resp.Meta.Error || resp.Status != 0 {
		t.Errorf("resp = %+v", resp)
	}
	if ft.last() != nil {
		t.Error("no handle should be created for a nil request")
	}
}

func TestExecute_NilTransport(t *testing.T) {
	a := newTestAdapter(nil)
	resp, err := a.Execute(context.Background(), getReq("/x"))
	if err != nil || !resp.Meta.Error {
		t.Errorf("resp = %+v, err = %v", resp, err)
	}
	if a.IsAvailable(context.Background()) {
		t.Error("adapter without transport reported available")
	}
	if err := a.Close(context.Background()); err != nil {
		t.Errorf("Close = %v", err)
	}
}

func TestExecute_UnencodableBody(t *testing.T) {
	ft := loadOf(200, "OK", "", "")
	req := getReq("/x")
	req.Method = "POST"
	req.Body = map[string]any{"ch": make(chan int)}

	resp, err := newTestAdapter(ft).Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !resp.Meta.Error || resp.Status != 0 {
		t.Errorf("resp = %+v", resp)
	}
	if h := ft.last(); h == nil || h.req.Method != "" {
		t.Error("handle must not be sent when the body cannot be encoded")
	}
}

func TestExecute_Cached(t *testing.T) {
	sent := time.Date(2024, 5, 1, 12, 0, 0, 500e6, time.UTC)
	tests := []struct {
		name string
		date string
		want bool
	}{
		{"seconds earlier", sent.Add(-2 * time.Second).Format(http1123), true},
		{"same second", sent.Format(http1123), false},
		{"later", sent.Add(time.Minute).Format(http1123), false},
		{"unparseable", "yesterday", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := loadOf(200, "OK", "date: "+tt.date+"\r\n", "")
			resp, _ := newTestAdapter(ft, WithClock(fixedClock(sent))).Execute(context.Background(), getReq("/"))
			if resp.Meta.Cached != tt.want {
				t.Errorf("Cached = %v, want %v", resp.Meta.Cached, tt.want)
			}
		})
	}

	ft := loadOf(200, "OK", "", "")
	resp, _ := newTestAdapter(ft, WithClock(fixedClock(sent))).Execute(context.Background(), getReq("/"))
	if resp.Meta.Cached {
		t.Error("missing date must not be cached")
	}
}

const http1123 = "Mon, 02 Jan 2006 15:04:05 GMT"

func TestExecuteAsync(t *testing.T) {
	ft := loadOf(200, "OK", "", "async")
	ch := newTestAdapter(ft).ExecuteAsync(context.Background(), getReq("/"))

	select {
	case resp, ok := <-ch:
		if !ok || resp.Data != "async" {
			t.Fatalf("resp = %+v, ok = %v", resp, ok)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no response")
	}
	if _, more := <-ch; more {
		t.Error("channel should be closed after one response")
	}
}

func TestExecute_Concurrent(t *testing.T) {
	ft := loadOf(200, "OK", "", "x")
	a := newTestAdapter(ft)
	chans := make([]<-chan data.Response, 50)
	for i := range chans {
		chans[i] = a.ExecuteAsync(context.Background(), getReq("/"))
	}
	for _, ch := range chans {
		if resp := <-ch; resp.Status != 200 {
			t.Errorf("status = %d", resp.Status)
		}
	}
}

func TestExecute_ResponseIsIndependent(t *testing.T) {
	ft := loadOf(200, "OK", "x-a: 1\r\n", "")
	a := newTestAdapter(ft)
	first, _ := a.Execute(context.Background(), getReq("/"))
	first.Meta.Headers["x-a"] = "changed"
	second, _ := a.Execute(context.Background(), getReq("/"))
	if second.Header("x-a") != "1" {
		t.Error("responses share header maps")
	}
}

func TestAdapterProvider(t *testing.T) {
	ft := loadOf(200, "OK", "", "")
	a := newTestAdapter(ft, WithName("api"))
	if a.Name() != "api" {
		t.Errorf("Name = %q", a.Name())
	}
	if !a.IsAvailable(context.Background()) {
		t.Error("expected available")
	}
	ft.unavailable = true
	if a.IsAvailable(context.Background()) {
		t.Error("expected unavailable")
	}
	if err := a.Close(context.Background()); err != nil || !ft.closed {
		t.Errorf("Close = %v, closed = %v", err, ft.closed)
	}
}

func TestExecute_WarnsOnFailure(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
	ft := &fakeTransport{ev: transport.EventError, result: transport.Result{Err: errors.Network("/x", io.EOF)}}
	New(ft, WithLogger(log)).Execute(logger.ContextWithRequestID(context.Background(), "req-1"), getReq("/x"))

	out := buf.String()
	for _, want := range []string{`"level":"warn"`, `"request_id":"req-1"`, `"outcome":"error"`, "NETWORK_ERROR"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}

func TestOutcome(t *testing.T) {
	ok := data.NewResponse()
	ok.Status = 200
	if Outcome(ok, nil) != OutcomeOK {
		t.Errorf("ok = %q", Outcome(ok, nil))
	}
	if Outcome(ok, io.EOF) != OutcomeError {
		t.Error("err must classify as error")
	}
	notFound := ok
	notFound.Status = 404
	if Outcome(notFound, nil) != OutcomeOK {
		t.Error("HTTP error statuses are loads, not failures")
	}
}
