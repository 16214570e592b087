package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/hashroute/pkg/hashpath"
	"github.com/vango-dev/hashroute/pkg/location"
)

// Config holds configuration for the HTTP/WebSocket server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// WebSocket buffer sizes

	// ReadBufferSize is the WebSocket read buffer size.
	// Default: 1024.
	ReadBufferSize int

	// WriteBufferSize is the WebSocket write buffer size.
	// Default: 1024.
	WriteBufferSize int

	// AllowedOrigins restricts WebSocket upgrades to these Origin values.
	// Requests without an Origin header are always accepted.
	AllowedOrigins []string

	// CheckOrigin is called to validate the request origin. It takes
	// precedence over AllowedOrigins.
	// Default: allows all origins unless AllowedOrigins is set.
	CheckOrigin func(r *http.Request) bool

	// Timeouts

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// WriteTimeout bounds a single WebSocket write.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 16KB.
	MaxMessageSize int64

	// Locations

	// Codec decodes and encodes every location the server handles.
	// Default: hashpath.New().
	Codec *hashpath.Codec

	// HostMiddleware wraps the host of every WebSocket connection, after
	// the built-in metrics and tracing middleware.
	HostMiddleware []location.HostMiddleware

	// OnConnect is called on a connection's event loop before any client
	// message is processed.
	OnConnect func(c *Conn)

	// Observability

	// Metrics enables Prometheus metrics and the /metrics endpoint.
	Metrics bool

	// MetricsNamespace is the metrics namespace.
	// Default: "hashroute".
	MetricsNamespace string

	// Registry receives the server's collectors and is served on /metrics.
	// Default: a new prometheus.Registry.
	Registry *prometheus.Registry

	// Tracing enables OpenTelemetry spans for WebSocket navigation.
	Tracing bool

	// TracerName is the OpenTelemetry tracer name.
	// Default: "hashroute".
	TracerName string

	// Logger is the base logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:           ":8080",
		ReadBufferSize:    1024,
		WriteBufferSize:   1024,
		ShutdownTimeout:   10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxMessageSize:    16 * 1024,
		MetricsNamespace:  "hashroute",
		TracerName:        "hashroute",
	}
}

// Clone returns a shallow copy of the Config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// applyDefaults fills in unset fields.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Address == "" {
		c.Address = defaults.Address
	}
	if c.ReadBufferSize == 0 {
		c.ReadBufferSize = defaults.ReadBufferSize
	}
	if c.WriteBufferSize == 0 {
		c.WriteBufferSize = defaults.WriteBufferSize
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.MaxMessageSize == 0 {
		c.MaxMessageSize = defaults.MaxMessageSize
	}
	if c.MetricsNamespace == "" {
		c.MetricsNamespace = defaults.MetricsNamespace
	}
	if c.TracerName == "" {
		c.TracerName = defaults.TracerName
	}
	if c.Codec == nil {
		c.Codec = hashpath.New()
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = originChecker(c.AllowedOrigins)
	}
}

// originChecker accepts requests whose Origin header is in allowed, or all
// requests when allowed is empty.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
