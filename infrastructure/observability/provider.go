package observability

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ErrUnknownExporter is returned for an unsupported exporter type.
var ErrUnknownExporter = errors.New("unknown trace exporter type")

// instrumentationName scopes the tracer and meter.
const instrumentationName = "github.com/felixgeelhaar/agent-squad"

// Provider manages the observability infrastructure.
type Provider struct {
	config        Config
	tracer        trace.Tracer
	meter         metric.Meter
	shutdownFuncs []func(context.Context) error
}

// New creates a new observability provider. With ExporterNone the tracer
// and meter are no-ops and nothing is registered globally.
func New(opts ...Option) (*Provider, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Provider{config: cfg}

	if cfg.Exporter == ExporterNone || cfg.Exporter == "" {
		p.tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
		p.meter = metricnoop.NewMeterProvider().Meter(instrumentationName)
		return p, nil
	}

	res := p.resource()
	if err := p.setupTracing(res); err != nil {
		return nil, err
	}
	if err := p.setupMetrics(res); err != nil {
		_ = p.Shutdown(context.Background())
		return nil, err
	}
	return p, nil
}

func (p *Provider) resource() *resource.Resource {
	// Not merged with resource.Default() to avoid schema URL conflicts.
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(p.config.ServiceName),
		semconv.ServiceVersion(p.config.ServiceVersion),
		semconv.DeploymentEnvironment(p.config.Environment),
	)
}

// setupTracing initializes the tracing infrastructure.
func (p *Provider) setupTracing(res *resource.Resource) error {
	ctx := context.Background()

	var exporter sdktrace.SpanExporter

	switch p.config.Exporter {
	case ExporterOTLP:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(p.config.Endpoint),
		}
		if p.config.Insecure {
			opts = append(opts, otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return fmt.Errorf("creating otlp exporter: %w", err)
		}
		exporter = exp

	case ExporterStdout:
		exp, err := stdouttrace.New(
			stdouttrace.WithWriter(p.config.Writer),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("creating stdout exporter: %w", err)
		}
		exporter = exp

	default:
		return fmt.Errorf("%w: %s", ErrUnknownExporter, p.config.Exporter)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(p.config.BatchTimeout),
			sdktrace.WithMaxExportBatchSize(p.config.MaxExportBatchSize),
		),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(p.config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	p.tracer = tp.Tracer(instrumentationName)
	p.shutdownFuncs = append(p.shutdownFuncs, tp.Shutdown)
	return nil
}

// setupMetrics installs a meter provider that pushes to the same backend
// as the traces.
func (p *Provider) setupMetrics(res *resource.Resource) error {
	var exporter sdkmetric.Exporter

	switch p.config.Exporter {
	case ExporterOTLP:
		opts := []otlpmetricgrpc.Option{
			otlpmetricgrpc.WithEndpoint(p.config.Endpoint),
		}
		if p.config.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		exp, err := otlpmetricgrpc.New(context.Background(), opts...)
		if err != nil {
			return fmt.Errorf("creating otlp metric exporter: %w", err)
		}
		exporter = exp

	case ExporterStdout:
		exp, err := stdoutmetric.New(
			stdoutmetric.WithWriter(p.config.Writer),
			stdoutmetric.WithPrettyPrint(),
		)
		if err != nil {
			return fmt.Errorf("creating stdout metric exporter: %w", err)
		}
		exporter = exp

	default:
		return fmt.Errorf("%w: %s", ErrUnknownExporter, p.config.Exporter)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if p.config.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(p.config.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
	)

	otel.SetMeterProvider(mp)
	p.meter = mp.Meter(instrumentationName)
	p.shutdownFuncs = append(p.shutdownFuncs, mp.Shutdown)
	return nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0.0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// NewWithTracerProvider creates a provider around an existing tracer
// provider. Metrics are discarded.
func NewWithTracerProvider(tp trace.TracerProvider) *Provider {
	return NewWithProviders(tp, metricnoop.NewMeterProvider())
}

// NewWithProviders creates a provider around existing tracer and meter
// providers. Their lifecycle stays with the caller.
func NewWithProviders(tp trace.TracerProvider, mp metric.MeterProvider) *Provider {
	return &Provider{
		config: DefaultConfig(),
		tracer: tp.Tracer(instrumentationName),
		meter:  mp.Meter(instrumentationName),
	}
}

// NewNoopProvider creates a provider with no-op tracer and meter.
func NewNoopProvider() *Provider {
	return NewWithTracerProvider(tracenoop.NewTracerProvider())
}

// Tracer returns the tracer.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Meter returns the meter.
func (p *Provider) Meter() metric.Meter {
	return p.meter
}

// Shutdown flushes and stops the exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	for _, fn := range p.shutdownFuncs {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
