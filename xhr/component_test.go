package xhr

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/xhrkit/component"
	"github.com/kbukum/xhrkit/logger"
)

// lifecycleTransport is a fakeTransport that is also a component.
type lifecycleTransport struct {
	*fakeTransport
	started, stopped bool
}

func (l *lifecycleTransport) Start(context.Context) error {
	l.started = true
	return nil
}

func (l *lifecycleTransport) Stop(context.Context) error {
	l.stopped = true
	return nil
}

func (l *lifecycleTransport) Health(context.Context) component.Health {
	return component.Health{Name: "fake", Status: component.StatusHealthy}
}

func TestComponentLifecycle(t *testing.T) {
	lt := &lifecycleTransport{fakeTransport: loadOf(200, "OK", "", "")}
	c := NewComponent(Config{}, lt, WithLogger(logger.Nop()))

	if c.Name() != "xhr" || c.Adapter().Name() != "xhr" {
		t.Errorf("names = %q, %q", c.Name(), c.Adapter().Name())
	}
	if err := c.Start(context.Background()); err != nil || !lt.started {
		t.Fatalf("Start = %v, started = %v", err, lt.started)
	}
	if err := c.Stop(context.Background()); err != nil || !lt.stopped {
		t.Fatalf("Stop = %v, stopped = %v", err, lt.stopped)
	}
}

func TestComponentClosesPlainTransport(t *testing.T) {
	ft := loadOf(200, "OK", "", "")
	c := NewComponent(Config{Name: "api"}, ft, WithLogger(logger.Nop()))
	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start = %v", err)
	}
	if err := c.Stop(context.Background()); err != nil || !ft.closed {
		t.Errorf("Stop = %v, closed = %v", err, ft.closed)
	}
}

func TestComponentHealthAndDescribe(t *testing.T) {
	ft := loadOf(200, "OK", "", "")
	c := NewComponent(Config{Name: "api"}, ft)
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy || h.Name != "api" {
		t.Errorf("Health = %+v", h)
	}
	ft.unavailable = true
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("Health = %+v", h)
	}
	d := c.Describe()
	if d.Type != "adapter" || !strings.Contains(d.Details, "backend=fake") {
		t.Errorf("Describe = %+v", d)
	}
}

func TestComponentWithoutTransport(t *testing.T) {
	c := NewComponent(Config{}, nil)
	if err := c.Start(context.Background()); err == nil {
		t.Error("expected error starting without a transport")
	}
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop = %v", err)
	}
	if !strings.Contains(c.Describe().Details, "backend=none") {
		t.Errorf("Describe = %+v", c.Describe())
	}
}

func TestComponentInRegistry(t *testing.T) {
	lt := &lifecycleTransport{fakeTransport: loadOf(200, "OK", "", "")}
	reg := component.NewRegistry()
	if err := reg.Register(NewComponent(Config{}, lt)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := reg.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}
	if !lt.started || !lt.stopped {
		t.Errorf("started=%v stopped=%v", lt.started, lt.stopped)
	}
}

func TestConfigValidate(t *testing.T) {
	var cfg Config
	if err := cfg.Validate(); err == nil {
		t.Error("empty name should fail before defaults")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate after defaults = %v", err)
	}
}
