package middleware

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/hashroute/pkg/location"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "hashroute").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for href lengths.
	// Default: 16 bytes to 4KB, doubling.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "hashroute",
		Buckets:   prometheus.ExponentialBuckets(16, 2, 9), // 16B to 4KB
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors shared by every host wrapped with
// its middleware.
type Metrics struct {
	navigations     *prometheus.CounterVec
	externalChanges prometheus.Counter
	hrefLength      prometheus.Histogram
	activeConns     prometheus.Gauge
}

// NewMetrics creates and registers the collectors. Registering twice against
// the same registry panics, so create one Metrics per registry and share it.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations written to the host by mode",
			ConstLabels: config.ConstLabels,
		}, []string{"mode"}),

		externalChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "external_changes_total",
			Help:        "Total number of location changes not caused by a navigation",
			ConstLabels: config.ConstLabels,
		}),

		hrefLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "href_length_bytes",
			Help:        "Length of navigated location strings in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		activeConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_connections",
			Help:        "Number of open WebSocket location connections",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// globalMetrics is the singleton used by Prometheus().
var (
	globalMetrics   *Metrics
	globalMetricsMu sync.Mutex
)

// Prometheus returns host middleware backed by a process-wide Metrics
// instance. Options only take effect on the first call.
//
// Metrics collected:
//   - hashroute_navigations_total: Counter of navigations by mode
//   - hashroute_external_changes_total: Counter of changes from outside
//   - hashroute_href_length_bytes: Histogram of navigated href lengths
//
// Example:
//
//	loc := location.New(host,
//	    location.WithHostMiddleware(middleware.Prometheus()),
//	)
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func Prometheus(opts ...MetricsOption) location.HostMiddleware {
	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = NewMetrics(opts...)
	}
	m := globalMetrics
	globalMetricsMu.Unlock()

	return m.Middleware()
}

// Middleware returns host middleware recording into m.
func (m *Metrics) Middleware() location.HostMiddleware {
	return func(next location.Host) location.Host {
		return &metricsHost{Host: next, metrics: m}
	}
}

// ConnOpened records a new WebSocket connection.
func (m *Metrics) ConnOpened() {
	m.activeConns.Inc()
}

// ConnClosed records a closed WebSocket connection.
func (m *Metrics) ConnClosed() {
	m.activeConns.Dec()
}

type metricsHost struct {
	location.Host
	metrics *Metrics

	mu      sync.Mutex
	written string
}

func (h *metricsHost) Push(href string) {
	h.record(location.ModePush, href)
	h.Host.Push(href)
}

func (h *metricsHost) Replace(href string) {
	h.record(location.ModeReplace, href)
	h.Host.Replace(href)
}

func (h *metricsHost) record(mode location.Mode, href string) {
	h.mu.Lock()
	h.written = strings.TrimPrefix(href, "#")
	h.mu.Unlock()

	h.metrics.navigations.WithLabelValues(mode.String()).Inc()
	h.metrics.hrefLength.Observe(float64(len(href)))
}

// Subscribe counts every change that does not echo the last href written
// through this host. Hosts may report hrefs with or without the leading "#".
func (h *metricsHost) Subscribe(fn func(href string)) func() {
	return h.Host.Subscribe(func(href string) {
		h.mu.Lock()
		echo := strings.TrimPrefix(href, "#") == h.written
		h.written = ""
		h.mu.Unlock()

		if !echo {
			h.metrics.externalChanges.Inc()
		}
		fn(href)
	})
}
