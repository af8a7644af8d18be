package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/xhrkit/logger"
)

// MeterConfig configures the OTLP/HTTP meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP collector host:port.
	Endpoint string
	Insecure bool
	// Interval is the periodic export interval. Zero keeps the SDK default.
	Interval time.Duration
}

// DefaultMeterConfig targets a local collector.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a global meter provider exporting over OTLP/HTTP. The
// caller shuts it down on exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("Meter provider installed", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricExchangeTotal    = "xhr.exchange.total"
	MetricExchangeDuration = "xhr.exchange.duration"
	MetricExchangeActive   = "xhr.exchange.active"
	MetricResponseStatus   = "xhr.response.status"
	MetricCallTotal        = "xhr.call.total"
	MetricCallDuration     = "xhr.call.duration"
	MetricErrorTotal       = "xhr.error.total"
)

// Metrics holds the adapter's instruments. A nil *Metrics records nothing.
type Metrics struct {
	exchangeTotal    metric.Int64Counter
	exchangeDuration metric.Float64Histogram
	exchangeActive   metric.Int64UpDownCounter
	responseStatus   metric.Int64Counter
	callTotal        metric.Int64Counter
	callDuration     metric.Float64Histogram
	errorTotal       metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.exchangeTotal, MetricExchangeTotal, "Settled exchanges by outcome"},
		{&m.responseStatus, MetricResponseStatus, "Settled responses by HTTP status class"},
		{&m.callTotal, MetricCallTotal, "Provider calls by outcome"},
		{&m.errorTotal, MetricErrorTotal, "Failed calls by outcome and provider"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}

	histograms := []struct {
		dst  *metric.Float64Histogram
		name string
		desc string
	}{
		{&m.exchangeDuration, MetricExchangeDuration, "Send to settle time of an exchange"},
		{&m.callDuration, MetricCallDuration, "Duration of provider calls"},
	}
	for _, h := range histograms {
		if *h.dst, err = meter.Float64Histogram(h.name, metric.WithDescription(h.desc), metric.WithUnit("s")); err != nil {
			return nil, fmt.Errorf("creating %s histogram: %w", h.name, err)
		}
	}

	if m.exchangeActive, err = meter.Int64UpDownCounter(MetricExchangeActive,
		metric.WithDescription("Exchanges sent and not yet settled")); err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricExchangeActive, err)
	}
	return m, nil
}

// RecordRequestStart counts an exchange as in flight.
func (m *Metrics) RecordRequestStart(ctx context.Context) {
	if m == nil {
		return
	}
	m.exchangeActive.Add(ctx, 1)
}

// RecordRequestEnd marks an exchange settled with the given outcome.
func (m *Metrics) RecordRequestEnd(ctx context.Context, service, method, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.exchangeActive.Add(ctx, -1)
	m.exchangeTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	m.exchangeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("method", method),
	))
}

// RecordStatus counts a settled response by status class ("2xx", "4xx",
// and "0" for responses that never got a status line).
func (m *Metrics) RecordStatus(ctx context.Context, service string, status int) {
	if m == nil {
		return
	}
	m.responseStatus.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("class", StatusClass(status)),
	))
}

// StatusClass buckets an HTTP status code.
func StatusClass(status int) string {
	if status < 100 || status > 999 {
		return "0"
	}
	return fmt.Sprintf("%dxx", status/100)
}

// RecordOperation records one provider call.
func (m *Metrics) RecordOperation(ctx context.Context, service, operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.callTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
	m.callDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
	))
}

// RecordError counts a failed call.
func (m *Metrics) RecordError(ctx context.Context, outcome, provider string) {
	if m == nil {
		return
	}
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("provider", provider),
	))
}
