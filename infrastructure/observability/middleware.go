package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/agent-squad/domain/tool"
	"github.com/felixgeelhaar/agent-squad/infrastructure/planner"
)

// toolMetrics holds the instruments recorded around tool invocations.
type toolMetrics struct {
	invocations metric.Int64Counter
	failures    metric.Int64Counter
	duration    metric.Float64Histogram
}

func newToolMetrics(meter metric.Meter) toolMetrics {
	m := toolMetrics{
		invocations: metricnoop.Int64Counter{},
		failures:    metricnoop.Int64Counter{},
		duration:    metricnoop.Float64Histogram{},
	}
	if c, err := meter.Int64Counter("squad.tool.invocations_total",
		metric.WithDescription("Total number of tool invocations"),
		metric.WithUnit("{invocation}"),
	); err == nil {
		m.invocations = c
	}
	if c, err := meter.Int64Counter("squad.tool.errors_total",
		metric.WithDescription("Tool invocations that returned an error string"),
		metric.WithUnit("{error}"),
	); err == nil {
		m.failures = c
	}
	if h, err := meter.Float64Histogram("squad.tool.duration_seconds",
		metric.WithDescription("Duration of tool invocations"),
		metric.WithUnit("s"),
	); err == nil {
		m.duration = h
	}
	return m
}

// tracedTool records a span and metrics around every invocation.
type tracedTool struct {
	tool.Tool
	tracer  trace.Tracer
	metrics toolMetrics
}

// TraceTools returns a catalog mapper that wraps every tool so invocations
// are traced. Use it with Catalog.Map.
func (p *Provider) TraceTools() func(tool.Tool) tool.Tool {
	metrics := newToolMetrics(p.meter)
	return func(t tool.Tool) tool.Tool {
		return &tracedTool{Tool: t, tracer: p.tracer, metrics: metrics}
	}
}

// Invoke implements tool.Tool.
func (t *tracedTool) Invoke(ctx context.Context, input string) string {
	annotations := t.Annotations()
	ctx, span := t.tracer.Start(ctx, "tool.invoke",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("tool.name", t.Name()),
			attribute.Bool("tool.read_only", annotations.ReadOnly),
			attribute.Int("tool.input_length", len(input)),
		),
	)
	defer span.End()

	start := time.Now()
	out := t.Tool.Invoke(ctx, input)
	elapsed := time.Since(start).Seconds()

	status := "success"
	if strings.HasPrefix(out, "Error") {
		status = "error"
		span.SetStatus(codes.Error, firstLine(out))
		t.metrics.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", t.Name())))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(attribute.String("tool.status", status))

	attrs := metric.WithAttributes(
		attribute.String("tool", t.Name()),
		attribute.String("status", status),
	)
	t.metrics.invocations.Add(ctx, 1, attrs)
	t.metrics.duration.Record(ctx, elapsed, attrs)
	return out
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// tracedProvider records a client span around every chat completion.
type tracedProvider struct {
	next    planner.Provider
	tracer  trace.Tracer
	latency metric.Float64Histogram
}

// TraceProvider wraps a chat provider with completion spans.
func (p *Provider) TraceProvider(next planner.Provider) planner.Provider {
	tp := &tracedProvider{next: next, tracer: p.tracer, latency: metricnoop.Float64Histogram{}}
	if h, err := p.meter.Float64Histogram("squad.llm.latency_seconds",
		metric.WithDescription("Latency of chat completion calls"),
		metric.WithUnit("s"),
	); err == nil {
		tp.latency = h
	}
	return tp
}

// Name implements planner.Provider.
func (t *tracedProvider) Name() string {
	return t.next.Name()
}

// Complete implements planner.Provider.
func (t *tracedProvider) Complete(ctx context.Context, req planner.CompletionRequest) (planner.CompletionResponse, error) {
	ctx, span := t.tracer.Start(ctx, "llm.complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.provider", t.next.Name()),
			attribute.String("llm.model", req.Model),
			attribute.Int("llm.messages", len(req.Messages)),
			attribute.Int("llm.tools", len(req.Tools)),
		),
	)
	defer span.End()

	start := time.Now()
	resp, err := t.next.Complete(ctx, req)
	t.latency.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("provider", t.next.Name())))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return resp, err
	}

	span.SetAttributes(
		attribute.Int("llm.tool_calls", len(resp.Message.ToolCalls)),
		attribute.Int("llm.usage.total_tokens", resp.Usage.TotalTokens),
		attribute.String("llm.finish_reason", resp.FinishReason),
	)
	span.SetStatus(codes.Ok, "")
	return resp, nil
}
