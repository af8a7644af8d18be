package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"

	"github.com/kbukum/xhrkit/errors"
	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
	"github.com/kbukum/xhrkit/transport"
)

// abortGrace bounds how long an in-page abort may take before the tab is closed.
const abortGrace = 2 * time.Second

type handle struct {
	*transport.Base
	t *Transport
}

type evalOutcome struct {
	res scriptResult
	err error
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func (h *handle) Send(ctx context.Context, body transport.Payload) <-chan transport.Event {
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
	observability.SetSpanAttribute(ctx, observability.AttrHTTPURL, req.URL)

	log := h.t.log.WithContext(ctx)
	settle := func(ev transport.Event, r transport.Result) {
		if r.Err != nil {
			observability.SetSpanError(ctx, r.Err)
			log.Debug("exchange failed", logger.MergeWithError(logger.Fields(
				logger.FieldMethod, req.Method,
				logger.FieldURL, req.URL,
				logger.FieldOutcome, ev.String(),
			), r.Err))
		}
		h.Settle(ev, r)
	}

	raw, contentType, err := body.Bytes()
	if err != nil {
		settle(transport.EventError, transport.Result{Err: errors.InvalidInput("body", err.Error()).WithCause(err)})
		return
	}

	id := uuid.NewString()
	script, err := buildScript(id, req, raw, body.Kind() != transport.PayloadNone, contentType)
	if err != nil {
		settle(transport.EventError, transport.Result{Err: errors.Internal(err)})
		return
	}

	tabCtx, closeTab, err := h.t.newTab()
	if err != nil {
		settle(transport.EventError, transport.Result{Err: err})
		return
	}
	defer closeTab()

	done := make(chan evalOutcome, 1)
	go func() {
		var out evalOutcome
		out.err = chromedp.Run(tabCtx,
			chromedp.Navigate(h.t.cfg.Origin),
			chromedp.Evaluate(script, &out.res, awaitPromise),
		)
		done <- out
	}()

	var out evalOutcome
	select {
	case out = <-done:
	case <-ctx.Done():
		h.abortInPage(tabCtx, id)
		select {
		case out = <-done:
		case <-time.After(abortGrace):
			closeTab()
			out = <-done
		}
	}

	if ev, cause := h.Interrupted(ctx); cause != nil {
		settle(ev, transport.Result{Err: cause})
		return
	}
	if out.err != nil {
		settle(transport.EventError, transport.Result{Err: errors.Network(req.URL, out.err)})
		return
	}
	h.settleResult(req, out.res, settle)
}

func (h *handle) abortInPage(tabCtx context.Context, id string) {
	ctx, cancel := context.WithTimeout(tabCtx, abortGrace)
	defer cancel()
	var found bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(abortScript(id), &found)); err != nil {
		h.t.log.Debug("in-page abort failed", logger.ErrorFields("abort", err))
	}
}

// settleResult maps a completed page script to the handle result.
func (h *handle) settleResult(req transport.Request, res scriptResult, settle func(transport.Event, transport.Result)) {
	result := transport.Result{
		Status:      res.Status,
		StatusText:  res.StatusText,
		HeaderBlock: res.Headers,
	}
	ev := res.event()
	switch ev {
	case transport.EventLoad:
		raw, err := res.bodyBytes()
		if err != nil {
			result.Err = errors.Network(req.URL, err)
			settle(transport.EventError, result)
			return
		}
		result.Response = transport.DecodeResponse(req.ResponseType, raw, headerValue(res.Headers, "Content-Type"))
	case transport.EventAbort:
		result.Err = errors.Aborted(req.URL, nil)
	case transport.EventTimeout:
		result.Err = errors.Timeout(req.URL, req.Timeout.Milliseconds())
	default:
		msg := res.Message
		if msg == "" {
			msg = "request failed in page"
		}
		result.Err = errors.Network(req.URL, errors.New(errors.ErrCodeNetwork, msg))
	}
	settle(ev, result)
}
