package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/hashroute/pkg/location"
)

// Default tracer name for hashroute locations.
const defaultTracerName = "hashroute"

// Span names and attribute keys.
const (
	SpanPush       = "hashroute.push"
	SpanReplace    = "hashroute.replace"
	SpanHashChange = "hashroute.hashchange"

	AttrHref = "hashroute.href"
	AttrMode = "hashroute.mode"
)

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "hashroute").
	TracerName string

	// TracerProvider supplies the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider

	// Context returns the parent context for new spans, for example the
	// request context of the connection a host belongs to.
	// If nil, context.Background() is used.
	Context func() context.Context
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithSpanContext sets the function returning the parent context for spans.
func WithSpanContext(fn func() context.Context) OTelOption {
	return func(c *OTelConfig) {
		c.Context = fn
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry returns host middleware that traces navigation.
//
// The middleware:
//   - Creates a hashroute.push or hashroute.replace span around each write
//   - Creates a hashroute.hashchange span for each observed change
//   - Records the href as the hashroute.href attribute
//
// Example:
//
//	loc := location.New(host,
//	    location.WithHostMiddleware(
//	        middleware.OpenTelemetry(middleware.WithTracerName("my-app")),
//	    ),
//	)
func OpenTelemetry(opts ...OTelOption) location.HostMiddleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return func(next location.Host) location.Host {
		return &tracingHost{Host: next, tracer: tracer, ctx: config.Context}
	}
}

type tracingHost struct {
	location.Host
	tracer trace.Tracer
	ctx    func() context.Context
}

func (h *tracingHost) parent() context.Context {
	if h.ctx != nil {
		if ctx := h.ctx(); ctx != nil {
			return ctx
		}
	}
	return context.Background()
}

func (h *tracingHost) Push(href string) {
	_, span := h.start(SpanPush, location.ModePush, href)
	defer span.End()
	h.Host.Push(href)
}

func (h *tracingHost) Replace(href string) {
	_, span := h.start(SpanReplace, location.ModeReplace, href)
	defer span.End()
	h.Host.Replace(href)
}

func (h *tracingHost) start(name string, mode location.Mode, href string) (context.Context, trace.Span) {
	return h.tracer.Start(h.parent(), name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrHref, href),
			attribute.String(AttrMode, mode.String()),
		),
	)
}

// Subscribe wraps each change notification, including the subscribers it
// runs synchronously, in a hashchange span.
func (h *tracingHost) Subscribe(fn func(href string)) func() {
	return h.Host.Subscribe(func(href string) {
		_, span := h.tracer.Start(h.parent(), SpanHashChange,
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attribute.String(AttrHref, href)),
		)
		defer span.End()
		fn(href)
	})
}
