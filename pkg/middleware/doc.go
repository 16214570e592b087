// Package middleware provides location.HostMiddleware implementations for
// observability.
//
// This package includes:
//   - OpenTelemetry tracing of pushes, replaces and observed changes
//   - Prometheus metrics for navigation volume and href sizes
//
// # OpenTelemetry Middleware
//
// The OpenTelemetry middleware creates a span around each write to the host
// and around each change notification it delivers.
//
//	loc := location.New(host,
//	    location.WithHostMiddleware(
//	        middleware.OpenTelemetry(),
//	    ),
//	)
//
// Configure with options:
//
//	middleware.OpenTelemetry(
//	    middleware.WithTracerName("my-app"),
//	    middleware.WithTracerProvider(tp),
//	)
//
// # Prometheus Metrics
//
// The Prometheus middleware collects:
//   - hashroute_navigations_total: Navigations by mode (push, replace)
//   - hashroute_external_changes_total: Changes not caused by a navigation
//   - hashroute_href_length_bytes: Length of navigated hrefs
//
// A server handling many locations creates one Metrics and shares it:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	loc := location.New(host, location.WithHostMiddleware(m.Middleware()))
package middleware
