// server.go - Config server lifecycle
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// ServerState is the gateway lifecycle state.
type ServerState int32

const (
	StateStopped ServerState = iota
	StateStarting
	StateListening
	StateStopping
)

// String returns the state name.
func (s ServerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateStarting:
		return "starting"
	case StateListening:
		return "listening"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

// Server owns the HTTP listener lifecycle:
// Stopped -> Starting -> Listening -> Stopping -> Stopped.
// Start while listening is a logged no-op; Stop while stopped is a
// no-op. A bind failure is fatal to the server start only, never to the
// host process.
type Server struct {
	mu    sync.Mutex
	state ServerState

	addr string
	echo *echo.Echo
	http *http.Server
	deps *Dependencies

	serveDone chan struct{}
}

// NewServer builds the gateway: middleware stack, handlers, routes.
func NewServer(addr string, deps *Dependencies) *Server {
	e := echo.New()
	SetupMiddleware(e, deps)
	RegisterRoutes(e, NewHandlers(deps))

	return &Server{
		addr: addr,
		echo: e,
		deps: deps,
		http: &http.Server{
			Handler: e,
			// No write timeout: the MJPEG stream holds its connection
			// open as long as a viewer watches.
			ReadTimeout: 30 * time.Second,
			IdleTimeout: 2 * time.Minute,
		},
	}
}

// Echo exposes the router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// State returns the current lifecycle state.
func (s *Server) State() ServerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start binds the listen port and runs the accept loop on its own
// goroutine. Returns nil when already listening.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.state != StateStopped {
		state := s.state
		s.mu.Unlock()
		s.deps.Logs.Warning(fmt.Sprintf("start ignored, server is %s", state), "ConfigServer")
		return nil
	}
	s.state = StateStarting
	s.mu.Unlock()

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.mu.Lock()
		s.state = StateStopped
		s.mu.Unlock()
		s.deps.Logs.Error(fmt.Sprintf("bind %s failed: %v", s.addr, err), "ConfigServer")
		return fmt.Errorf("binding %s: %w", s.addr, err)
	}

	s.mu.Lock()
	s.state = StateListening
	s.serveDone = make(chan struct{})
	done := s.serveDone
	s.mu.Unlock()

	s.deps.Logs.Infof("ConfigServer", "listening on %s", s.addr)

	go func() {
		defer close(done)
		if err := s.http.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.deps.Logs.Error(fmt.Sprintf("serve failed: %v", err), "ConfigServer")
		}
	}()
	return nil
}

// Stop shuts the listener down gracefully. In-flight streaming loops
// observe the shutdown through their request contexts.
func (s *Server) Stop(ctx context.Context) {
	s.mu.Lock()
	if s.state != StateListening {
		s.mu.Unlock()
		return
	}
	s.state = StateStopping
	done := s.serveDone
	s.mu.Unlock()

	if err := s.http.Shutdown(ctx); err != nil {
		// Streaming connections never finish on their own; cut them.
		s.http.Close()
	}
	if done != nil {
		<-done
	}

	s.mu.Lock()
	s.state = StateStopped
	s.mu.Unlock()
	s.deps.Logs.Info("server stopped", "ConfigServer")
}
