package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Exchange is the span and in-flight gauge of one adapter execution,
// from BeginExchange until Finish.
type Exchange struct {
	Service   string
	Method    string
	RequestID string
	Started   time.Time

	metrics *Metrics
	span    trace.Span
}

type exchangeKey struct{}

// BeginExchange opens a span named spanName for an exchange that started
// at started and counts it as active. metrics may be nil.
func BeginExchange(ctx context.Context, spanName, service, method, requestID string, metrics *Metrics, started time.Time, attrs ...attribute.KeyValue) (context.Context, *Exchange) {
	ctx, span := StartSpan(ctx, spanName, trace.WithTimestamp(started), trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrServiceName, service),
		attribute.String(AttrRequestID, requestID),
	)
	span.SetAttributes(attrs...)

	x := &Exchange{
		Service:   service,
		Method:    method,
		RequestID: requestID,
		Started:   started,
		metrics:   metrics,
		span:      span,
	}
	metrics.RecordRequestStart(ctx)
	return context.WithValue(ctx, exchangeKey{}, x), x
}

// ExchangeFromContext returns the exchange begun on ctx, or nil.
func ExchangeFromContext(ctx context.Context) *Exchange {
	x, _ := ctx.Value(exchangeKey{}).(*Exchange)
	return x
}

// Span returns the exchange span.
func (x *Exchange) Span() trace.Span { return x.span }

// Finish ends the span at ended with the outcome label and, when cause is
// set, an error status. It returns the exchange duration.
func (x *Exchange) Finish(ctx context.Context, outcome string, cause error, ended time.Time) time.Duration {
	elapsed := ended.Sub(x.Started)

	if cause != nil {
		x.span.RecordError(cause)
		x.span.SetStatus(codes.Error, cause.Error())
		x.span.SetAttributes(attribute.String(AttrErrorMessage, cause.Error()))
	}
	x.span.SetAttributes(
		attribute.String(AttrStatus, outcome),
		attribute.Int64(AttrDurationMs, elapsed.Milliseconds()),
	)
	x.span.End(trace.WithTimestamp(ended))

	x.metrics.RecordRequestEnd(ctx, x.Service, x.Method, outcome, elapsed)
	return elapsed
}
