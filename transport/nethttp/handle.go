package nethttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
	"github.com/kbukum/xhrkit/transport"
)

type handle struct {
	*transport.Base
	t *Transport
}

func (h *handle) Send(ctx context.Context, body transport.Payload) <-chan transport.Event {
	if limit := h.t.cfg.Timeout; limit > 0 && (h.Timeout() == 0 || h.Timeout() > limit) {
		h.SetTimeout(limit)
	}
	ctx, req, events, ok := h.Begin(ctx)
	if !ok {
		return events
	}
	go h.run(ctx, req, body)
	return events
}

func (h *handle) run(ctx context.Context, req transport.Request, body transport.Payload) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTransportSend)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrBackend, Name)
	observability.SetSpanAttribute(ctx, observability.AttrHTTPMethod, req.Method)

	log := h.t.log.WithContext(ctx)
	fail := func(ev transport.Event, r transport.Result) {
		observability.SetSpanError(ctx, r.Err)
		log.Debug("exchange failed", logger.MergeWithError(logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, req.URL,
			logger.FieldOutcome, ev.String(),
		), r.Err))
		h.Settle(ev, r)
	}

	target, err := h.t.resolve(req.URL)
	if err != nil {
		fail(transport.EventError, transport.Result{Err: errors.Network(req.URL, err)})
		return
	}
	observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, target.String())

	reader, contentType, err := body.Encode()
	if err != nil {
		fail(transport.EventError, transport.Result{Err: errors.InvalidInput("body", err.Error()).WithCause(err)})
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, strings.ToUpper(req.Method), target.String(), reader)
	if err != nil {
		fail(transport.EventError, transport.Result{Err: errors.Network(req.URL, err)})
		return
	}
	req.Headers.Each(func(name, value string) {
		httpReq.Header.Set(name, value)
	})
	if contentType != "" && !req.Headers.Has("Content-Type") {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if h.t.cfg.UserAgent != "" && !req.Headers.Has("User-Agent") {
		httpReq.Header.Set("User-Agent", h.t.cfg.UserAgent)
	}

	resp, err := h.t.clientFor(target, req.WithCredentials).Do(httpReq)
	if err != nil {
		if ev, cause := h.Interrupted(ctx); cause != nil {
			fail(ev, transport.Result{Err: cause})
			return
		}
		fail(transport.EventError, transport.Result{Err: errors.Network(req.URL, err)})
		return
	}
	defer resp.Body.Close()

	result := transport.Result{
		Status:      resp.StatusCode,
		StatusText:  statusText(resp),
		HeaderBlock: transport.HeaderBlock(resp.Header),
	}
	observability.SetSpanAttribute(ctx, observability.AttrHTTPStatus, resp.StatusCode)

	raw, err := readBody(resp.Body, h.t.cfg.MaxBodyBytes)
	if err != nil {
		// headers already arrived, so the last seen status is kept
		if ev, cause := h.Interrupted(ctx); cause != nil {
			result.Err = cause
			fail(ev, result)
			return
		}
		result.Err = errors.Network(req.URL, err)
		fail(transport.EventError, result)
		return
	}

	result.Response = transport.DecodeResponse(req.ResponseType, raw, resp.Header.Get("Content-Type"))
	log.Debug("exchange complete", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, target.String(),
		logger.FieldStatus, resp.StatusCode,
	))
	h.Settle(transport.EventLoad, result)
}

// statusText returns the reason phrase the server sent.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func readBody(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return b, nil
}
