package provider

import (
	"context"
	"time"

	"github.com/kbukum/xhrkit/logger"
)

// WithLogging returns a Middleware that logs each Execute call with the
// provider name, duration and outcome label. Failures log at warn.
func WithLogging[I, O any](log *logger.Logger, classify ...Classifier[O]) Middleware[I, O] {
	return func(inner RequestResponse[I, O]) RequestResponse[I, O] {
		return &loggingRR[I, O]{inner: inner, log: log, classify: classifierOf(classify)}
	}
}

type loggingRR[I, O any] struct {
	inner    RequestResponse[I, O]
	log      *logger.Logger
	classify Classifier[O]
}

func (l *loggingRR[I, O]) Name() string                         { return l.inner.Name() }
func (l *loggingRR[I, O]) IsAvailable(ctx context.Context) bool { return l.inner.IsAvailable(ctx) }

func (l *loggingRR[I, O]) Execute(ctx context.Context, input I) (O, error) {
	start := time.Now()
	output, err := l.inner.Execute(ctx, input)
	outcome := l.classify(output, err)

	fields := logger.MergeWithDuration(logger.Fields(
		"provider", l.inner.Name(),
		logger.FieldOutcome, outcome,
	), time.Since(start))

	switch {
	case err != nil:
		l.log.WithContext(ctx).Error("provider execute failed", logger.MergeWithError(fields, err))
	case outcome != "ok":
		l.log.WithContext(ctx).Warn("provider execute settled with failure", fields)
	default:
		l.log.WithContext(ctx).Debug("provider execute ok", fields)
	}

	return output, err
}
