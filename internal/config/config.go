package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-dev/hashroute/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "hashroute.json"

	// DefaultAddress is the default server listen address.
	DefaultAddress = ":8080"

	// DefaultShutdownTimeout is the default graceful shutdown timeout.
	DefaultShutdownTimeout = "10s"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "hashroute"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "hashroute"
)

// Config represents the complete hashroute.json configuration.
type Config struct {
	// URLRoot is the deployment path prefix, e.g. "cockpit".
	URLRoot string `json:"urlRoot,omitempty"`

	// Server contains HTTP and WebSocket server configuration.
	Server ServerConfig `json:"server"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains server settings.
type ServerConfig struct {
	// Address is the listen address.
	Address string `json:"address,omitempty"`

	// AllowedOrigins restricts WebSocket origins. Empty allows all.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`

	// ShutdownTimeout is how long to wait for connections on shutdown (e.g., "10s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and records navigation metrics.
	Enabled bool `json:"enabled"`

	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled traces host navigation.
	Enabled bool `json:"enabled"`

	// TracerName is the name of the tracer.
	TracerName string `json:"tracerName,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from the specified directory. A missing
// hashroute.json yields the defaults, remembering where the file would be.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	if !Exists(dir) {
		cfg := New()
		cfg.configPath = configPath
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E103").
			WithDetail("Failed to read " + path).
			Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E100").
			WithDetail("Failed to parse " + path + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E102").Wrap(err)
	}

	// Add newline at end of file
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E102").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = DefaultTracerName
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.ContainsAny(c.URLRoot, "?#") {
		return errors.New("E101").
			WithDetailf("urlRoot %q must not contain '?' or '#'", c.URLRoot).
			WithSuggestion(`Use a plain path prefix such as "cockpit"`)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return errors.New("E101").
			WithDetailf("server.shutdownTimeout %q is not a duration", c.Server.ShutdownTimeout).
			WithSuggestion(`Use a Go duration such as "10s"`).
			Wrap(err)
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E101").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level).
			WithSuggestion(`Set "log": {"level": "info"}`)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E101").
			WithDetailf("log.format %q is not text or json", c.Log.Format)
	}
	return nil
}

// ShutdownTimeout returns the parsed shutdown timeout, falling back to the
// default when the configured value is invalid.
func (c *Config) ShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultShutdownTimeout)
	}
	return d
}

// Logger builds a slog.Logger writing to w according to the log settings.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}
