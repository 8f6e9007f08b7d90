// Package observability provides OpenTelemetry tracing and metrics for tool
// invocations and chat completions.
package observability

import (
	"io"
	"os"
	"time"
)

// Config configures the observability infrastructure.
type Config struct {
	// ServiceName is the name of the service for telemetry.
	ServiceName string

	// ServiceVersion is the version of the service.
	ServiceVersion string

	// Environment is the deployment environment (e.g., "production", "staging").
	Environment string

	// Exporter specifies the trace exporter type.
	Exporter ExporterType

	// Endpoint is the OTLP endpoint (e.g., "localhost:4317").
	Endpoint string

	// Insecure disables TLS for the exporter connection.
	Insecure bool

	// SampleRate is the sampling rate (0.0-1.0, default: 1.0).
	SampleRate float64

	// BatchTimeout is the batch export timeout.
	BatchTimeout time.Duration

	// MaxExportBatchSize is the maximum batch size.
	MaxExportBatchSize int

	// MetricInterval is how often metrics are pushed to the exporter.
	MetricInterval time.Duration

	// Writer receives stdout-exported spans and metrics. Stderr by default so that
	// stdio transports stay clean.
	Writer io.Writer
}

// ExporterType specifies the telemetry exporter.
type ExporterType string

const (
	// ExporterOTLP exports to an OTLP gRPC endpoint (e.g., Jaeger, Tempo).
	ExporterOTLP ExporterType = "otlp"

	// ExporterStdout pretty-prints spans and metrics (useful for development).
	ExporterStdout ExporterType = "stdout"

	// ExporterNone disables export.
	ExporterNone ExporterType = "none"
)

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:        "agent-squad",
		ServiceVersion:     "dev",
		Environment:        "development",
		Exporter:           ExporterNone,
		SampleRate:         1.0,
		BatchTimeout:       5 * time.Second,
		MaxExportBatchSize: 512,
		MetricInterval:     30 * time.Second,
		Writer:             os.Stderr,
	}
}

// Option configures the observability infrastructure.
type Option func(*Config)

// WithServiceName sets the service name.
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithServiceVersion sets the service version.
func WithServiceVersion(version string) Option {
	return func(c *Config) {
		c.ServiceVersion = version
	}
}

// WithEnvironment sets the environment.
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithExporter selects the exporter and its endpoint.
func WithExporter(exporter ExporterType, endpoint string) Option {
	return func(c *Config) {
		c.Exporter = exporter
		c.Endpoint = endpoint
	}
}

// WithInsecure disables TLS for the OTLP exporter.
func WithInsecure() Option {
	return func(c *Config) {
		c.Insecure = true
	}
}

// WithSampleRate sets the trace sampling rate.
func WithSampleRate(rate float64) Option {
	return func(c *Config) {
		c.SampleRate = rate
	}
}

// WithMetricInterval sets the metric export interval.
func WithMetricInterval(d time.Duration) Option {
	return func(c *Config) {
		c.MetricInterval = d
	}
}

// WithWriter sets the destination of the stdout exporter.
func WithWriter(w io.Writer) Option {
	return func(c *Config) {
		c.Writer = w
	}
}
