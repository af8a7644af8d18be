package provider

import (
	"context"
	"time"

	"github.com/kbukum/xhrkit/observability"
)

// WithMetrics returns a Middleware that records an operation count and
// duration per call, labelled with the classifier's outcome, plus an
// error count for failed calls.
func WithMetrics[I, O any](metrics *observability.Metrics, classify ...Classifier[O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &metricsRR[I, O]{inner: inner, metrics: metrics, classify: classifierOf(classify)}
	}
}

type metricsRR[I, O any] struct {
	inner    RequestResponse[I, O]
	metrics  *observability.Metrics
	classify Classifier[O]
}

func (m *metricsRR[I, O]) Name() string                         { return m.inner.Name() }
func (m *metricsRR[I, O]) IsAvailable(ctx context.Context) bool { return m.inner.IsAvailable(ctx) }

func (m *metricsRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := m.inner.Execute(ctx, input)
	duration := time.Since(start)

	status := m.classify(output, err)
	if status != "ok" {
		m.metrics.RecordError(ctx, status, m.inner.Name())
	}
	m.metrics.RecordOperation(ctx, m.inner.Name(), "execute", status, duration)

	return output, err
}
