package provider_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/xhrkit/logger"
	"github.com/kbukum/xhrkit/observability"
	"github.com/kbukum/xhrkit/provider"
)

// stubRR answers "echo:<in>", or fails with err when set.
type stubRR struct {
	name string
	err  error
}

func (p *stubRR) Name() string                       { return p.name }
func (p *stubRR) IsAvailable(_ context.Context) bool { return p.err == nil }

func (p *stubRR) Execute(_ context.Context, in string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "echo:" + in, nil
}

var _ provider.RequestResponse[string, string] = (*stubRR)(nil)

func testMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	m, err := observability.NewMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m
}

func TestMiddlewaresDelegate(t *testing.T) {
	middlewares := map[string]provider.Middleware[string, string]{
		"logging":     provider.WithLogging[string, string](logger.Nop()),
		"tracing":     provider.WithTracing[string, string]("svc"),
		"metrics":     provider.WithMetrics[string, string](testMetrics(t)),
		"nil metrics": provider.WithMetrics[string, string](nil),
		"chain": provider.Chain(
			provider.WithLogging[string, string](logger.Nop()),
			provider.WithMetrics[string, string](testMetrics(t)),
			provider.WithTracing[string, string]("svc"),
		),
	}
	boom := errors.New("intentional failure")

	for name, mw := range middlewares {
		t.Run(name, func(t *testing.T) {
			ok := mw(&stubRR{name: "inner"})
			if ok.Name() != "inner" {
				t.Errorf("Name() = %q, want inner", ok.Name())
			}
			if !ok.IsAvailable(context.Background()) {
				t.Error("IsAvailable() = false, want delegated true")
			}
			out, err := ok.Execute(context.Background(), "hello")
			if err != nil || out != "echo:hello" {
				t.Errorf("Execute() = %q, %v", out, err)
			}

			failing := mw(&stubRR{name: "inner", err: boom})
			if failing.IsAvailable(context.Background()) {
				t.Error("IsAvailable() = true, want delegated false")
			}
			if _, err := failing.Execute(context.Background(), "hello"); !errors.Is(err, boom) {
				t.Errorf("Execute() error = %v, want %v", err, boom)
			}
		})
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &orderTracker{inner: inner, tag: tag, order: &order}
		}
	}

	wrapped := provider.Chain(mw("A"), mw("B"), mw("C"))(&stubRR{name: "test"})
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := "A> B> C> <C <B <A"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

type orderTracker struct {
	inner provider.RequestResponse[string, string]
	tag   string
	order *[]string
}

func (o *orderTracker) Name() string                         { return o.inner.Name() }
func (o *orderTracker) IsAvailable(ctx context.Context) bool { return o.inner.IsAvailable(ctx) }
func (o *orderTracker) Execute(ctx context.Context, in string) (string, error) {
	*o.order = append(*o.order, o.tag+">")
	out, err := o.inner.Execute(ctx, in)
	*o.order = append(*o.order, "<"+o.tag)
	return out, err
}

func TestChain_EmptyAndNil(t *testing.T) {
	for _, chain := range []provider.Middleware[string, string]{
		provider.Chain[string, string](),
		provider.Chain[string, string](nil, provider.WithLogging[string, string](logger.Nop()), nil),
	} {
		out, err := chain(&stubRR{name: "p"}).Execute(context.Background(), "x")
		if err != nil || out != "echo:x" {
			t.Errorf("Execute() = %q, %v", out, err)
		}
	}
}

func TestDefaultClassifier(t *testing.T) {
	if got := provider.DefaultClassifier("x", nil); got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if got := provider.DefaultClassifier("", errors.New("boom")); got != "error" {
		t.Errorf("expected error, got %q", got)
	}
}

func TestWithLogging_Levels(t *testing.T) {
	classify := func(out string, err error) string {
		if out == "echo:bad" {
			return "failed"
		}
		return provider.DefaultClassifier(out, err)
	}
	tests := []struct {
		in, level, outcome string
		err                error
	}{
		{in: "good", level: "debug", outcome: "ok"},
		{in: "bad", level: "warn", outcome: "failed"},
		{in: "x", level: "error", outcome: "error", err: errors.New("boom")},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "test", &buf)
		wrapped := provider.WithLogging[string, string](log, classify)(&stubRR{name: "classified", err: tt.err})

		_, _ = wrapped.Execute(context.Background(), tt.in)
		out := buf.String()
		if !strings.Contains(out, `"level":"`+tt.level+`"`) || !strings.Contains(out, `"outcome":"`+tt.outcome+`"`) {
			t.Errorf("input %q: expected %s entry with outcome %s, got %s", tt.in, tt.level, tt.outcome, out)
		}
	}
}

func TestWithTracing_Span(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prev)
	})

	wrapped := provider.WithTracing[string, string]("svc")(&stubRR{name: "nethttp", err: errors.New("boom")})
	_, _ = wrapped.Execute(context.Background(), "x")

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name != "svc.nethttp" {
		t.Errorf("span name = %q", span.Name)
	}
	if span.Status.Code != codes.Error {
		t.Errorf("span status = %v, want error", span.Status.Code)
	}
	var status string
	for _, kv := range span.Attributes {
		if string(kv.Key) == observability.AttrStatus {
			status = kv.Value.AsString()
		}
	}
	if status != "error" {
		t.Errorf("status attribute = %q, want error", status)
	}
}

func TestClassifierSharedByMiddlewares(t *testing.T) {
	var seen []string
	classify := func(out string, err error) string {
		seen = append(seen, out)
		return "ok"
	}
	wrapped := provider.Chain(
		provider.WithMetrics[string, string](testMetrics(t), classify),
		provider.WithTracing[string, string]("svc", classify),
	)(&stubRR{name: "m"})

	if _, err := wrapped.Execute(context.Background(), "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[0] != "echo:a" || seen[1] != "echo:a" {
		t.Errorf("expected classifier called by both middlewares, got %v", seen)
	}
}

type closingRR struct {
	stubRR
	closed bool
}

func (c *closingRR) Close(context.Context) error {
	c.closed = true
	return nil
}

func TestClose(t *testing.T) {
	c := &closingRR{stubRR: stubRR{name: "c"}}
	if err := provider.Close(context.Background(), c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.closed {
		t.Error("expected Close to be called")
	}
	if err := provider.Close(context.Background(), &stubRR{name: "plain"}); err != nil {
		t.Errorf("expected nil for non-closeable provider, got %v", err)
	}
}
