package testserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/xhrkit/component"
	"github.com/kbukum/xhrkit/logger"
)

// Config configures the standalone fixture server.
type Config struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Validate checks the listen address.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("testserver: invalid addr %q: %w", c.Addr, err)
	}
	return nil
}

// Server runs the fixture router as a component.
type Server struct {
	cfg      Config
	log      *logger.Logger
	http     *http.Server
	mu       sync.Mutex
	listener net.Listener
}

var (
	_ component.Component   = (*Server)(nil)
	_ component.Describable = (*Server)(nil)
)

// NewServer creates a Server. Call Start to bind the port.
func NewServer(cfg Config, log *logger.Logger) *Server {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.WithComponent("testserver")
	}
	return &Server{
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           NewRouter(log),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) Name() string { return "testserver" }

// Start binds the port and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("testserver failed to bind %s: %w", s.cfg.Addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.http.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", logger.ErrorFields("serve", err))
		}
	}()

	s.log.Info("Fixture server started", logger.Fields("addr", listener.Addr().String()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("testserver shutdown error: %w", err)
	}
	return nil
}

// Health reports healthy while the listener is bound.
func (s *Server) Health(ctx context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return component.Health{Name: s.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: s.Name(), Status: component.StatusHealthy}
}

func (s *Server) Describe() component.Description {
	return component.Description{Name: "Fixture server", Type: "server", Details: s.Addr()}
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.cfg.Addr
}
