package provider

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/xhrkit/observability"
)

// WithTracing wraps every Execute in a span named "{serviceName}.{provider}"
// carrying the provider name and the classified outcome.
func WithTracing[I, O any](serviceName string, classify ...Classifier[O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &tracingRR[I, O]{inner: inner, serviceName: serviceName, classify: classifierOf(classify)}
	}
}

type tracingRR[I, O any] struct {
	inner       RequestResponse[I, O]
	serviceName string
	classify    Classifier[O]
}

func (t *tracingRR[I, O]) Name() string                         { return t.inner.Name() }
func (t *tracingRR[I, O]) IsAvailable(ctx context.Context) bool { return t.inner.IsAvailable(ctx) }

func (t *tracingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	name := t.inner.Name()
	ctx, span := observability.StartSpan(ctx, t.serviceName+"."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(observability.AttrServiceName, t.serviceName),
			attribute.String(observability.AttrOperationName, name),
		))
	defer span.End()

	output, err := t.inner.Execute(ctx, input)
	span.SetAttributes(attribute.String(observability.AttrStatus, t.classify(output, err)))
	observability.SetSpanError(ctx, err)
	return output, err
}
