// Package observability provides OpenTelemetry tracing and metrics for
// request execution.
//
// Init starts the exporters a Config enables and returns a Shutdown to
// flush them on exit:
//
//	metrics, shutdown, err := observability.Init(ctx, &cfg, "xhr", version, env)
//	defer shutdown(ctx)
//
// Each adapter execution is an Exchange, which owns one span and the
// in-flight gauge until Finish:
//
//	ctx, x := observability.BeginExchange(ctx, observability.SpanXHRExecute, "xhr", "GET", id, metrics, time.Now())
//	x.Finish(ctx, "load", nil, time.Now())
package observability
