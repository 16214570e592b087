package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/hashroute/pkg/hashpath"
	"github.com/vango-dev/hashroute/pkg/middleware"
)

// Server is the HTTP/WebSocket server for hash locations.
type Server struct {
	config *Config
	codec  *hashpath.Codec

	// WebSocket upgrader
	upgrader websocket.Upgrader

	// Observability
	registry *prometheus.Registry
	metrics  *middleware.Metrics

	handler http.Handler

	mu    sync.Mutex
	conns map[string]*Conn

	httpServer *http.Server

	logger *slog.Logger
}

// New creates a new Server with the given configuration. A nil config uses
// DefaultConfig. The config is copied; later changes have no effect.
func New(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	} else {
		config = config.Clone()
	}
	config.applyDefaults()

	base := config.Logger
	if base == nil {
		base = slog.Default()
	}

	s := &Server{
		config: config,
		codec:  config.Codec,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		conns:  make(map[string]*Conn),
		logger: base.With("component", "server"),
	}

	if config.Metrics {
		s.registry = config.Registry
		if s.registry == nil {
			s.registry = prometheus.NewRegistry()
		}
		s.metrics = middleware.NewMetrics(
			middleware.WithRegistry(s.registry),
			middleware.WithNamespace(config.MetricsNamespace),
		)
	}

	s.handler = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API, metrics and WebSocket
// endpoints. Mount it on an existing router or pass it to an http.Server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe listens on Config.Address and serves until ctx is
// cancelled or the listener fails. Cancellation triggers a graceful
// shutdown bounded by Config.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe but accepts connections on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	stopped := make(chan struct{})

	g.Go(func() error {
		defer close(stopped)
		s.logger.Info("server starting", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		select {
		case <-gctx.Done():
		case <-stopped:
			// Shut down from elsewhere.
			return nil
		}
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	})

	return g.Wait()
}

// Shutdown closes all WebSocket connections and gracefully shuts down the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	conns := make([]*Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	// Hijacked connections are not closed by http.Server.Shutdown.
	for _, c := range conns {
		c.Close()
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Conns returns the number of open WebSocket connections.
func (s *Server) Conns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Conn returns the open connection with the given ID.
func (s *Server) Conn(id string) (*Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conns[id]
	return c, ok
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Registry returns the Prometheus registry, or nil when metrics are off.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

func (s *Server) track(c *Conn) {
	s.mu.Lock()
	s.conns[c.id] = c
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.ConnOpened()
	}
}

func (s *Server) untrack(c *Conn) {
	s.mu.Lock()
	delete(s.conns, c.id)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.ConnClosed()
	}
}
