package observability

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config selects which telemetry pipelines to start.
type Config struct {
	// Tracing enables the OTLP trace exporter.
	Tracing bool `mapstructure:"tracing" yaml:"tracing"`
	// Metrics enables the OTLP metric exporter.
	Metrics bool `mapstructure:"metrics" yaml:"metrics"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// Insecure disables TLS to the collector.
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`
	// SampleRate is the trace sampling ratio (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`
	// Interval is the metric export interval.
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability: sample_rate must be between 0 and 1, got %v", c.SampleRate)
	}
	if (c.Tracing || c.Metrics) && c.Endpoint == "" {
		return fmt.Errorf("observability: endpoint is required when an exporter is enabled")
	}
	return nil
}

// Shutdown flushes and stops whatever Init started.
type Shutdown func(ctx context.Context) error

// Init starts the enabled pipelines for service. When metrics are enabled
// it also returns request instruments on the service meter; otherwise the
// returned *Metrics is nil.
func Init(ctx context.Context, cfg *Config, service, version, environment string) (*Metrics, Shutdown, error) {
	var shutdowns []Shutdown
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Tracing {
		tc := DefaultTracerConfig(service)
		tc.ServiceVersion, tc.Environment = version, environment
		tc.Endpoint, tc.Insecure, tc.SampleRate = cfg.Endpoint, cfg.Insecure, cfg.SampleRate
		tp, err := InitTracer(ctx, tc)
		if err != nil {
			return nil, shutdown, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	var metrics *Metrics
	if cfg.Metrics {
		mc := DefaultMeterConfig(service)
		mc.ServiceVersion, mc.Environment = version, environment
		mc.Endpoint, mc.Insecure, mc.Interval = cfg.Endpoint, cfg.Insecure, cfg.Interval
		mp, err := InitMeter(ctx, &mc)
		if err != nil {
			return nil, shutdown, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)

		metrics, err = NewMetrics(Meter(service))
		if err != nil {
			return nil, shutdown, err
		}
	}
	return metrics, shutdown, nil
}
