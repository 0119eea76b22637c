package telemetry

import (
	"context"
	"sync"
	"time"

	router "github.com/goliatone/go-navrouter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "navrouter"

// TracingConfig configures the OpenTelemetry observer.
type TracingConfig struct {
	// TracerName is the instrumentation name (default: "navrouter").
	TracerName string

	// Provider defaults to the global tracer provider.
	Provider trace.TracerProvider

	// IncludeRoutes adds source and target route ids to spans.
	// Enabled by default.
	IncludeRoutes bool

	// Parent is the context new spans start from.
	Parent context.Context
}

type TracingOption func(*TracingConfig)

func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

func WithTracerProvider(provider trace.TracerProvider) TracingOption {
	return func(c *TracingConfig) {
		c.Provider = provider
	}
}

func WithIncludeRoutes(include bool) TracingOption {
	return func(c *TracingConfig) {
		c.IncludeRoutes = include
	}
}

func WithParentContext(ctx context.Context) TracingOption {
	return func(c *TracingConfig) {
		c.Parent = ctx
	}
}

func defaultTracingConfig() TracingConfig {
	return TracingConfig{
		TracerName:    defaultTracerName,
		IncludeRoutes: true,
		Parent:        context.Background(),
	}
}

// Tracer is a router.Observer that opens a span when a navigation is
// dispatched and ends it when the navigation settles. Navigations suspended
// on an async guard keep their span open until Router.Poll settles them.
type Tracer struct {
	config TracingConfig
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

var _ router.Observer = (*Tracer)(nil)

func NewTracer(opts ...TracingOption) *Tracer {
	config := defaultTracingConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Provider == nil {
		config.Provider = otel.GetTracerProvider()
	}
	if config.Parent == nil {
		config.Parent = context.Background()
	}

	return &Tracer{
		config: config,
		tracer: config.Provider.Tracer(config.TracerName),
		spans:  make(map[string]trace.Span),
	}
}

func (t *Tracer) NavigationStarted(navigationID string, cmd router.Command) {
	attrs := []attribute.KeyValue{
		attribute.String("navigation.id", navigationID),
		attribute.String("navigation.kind", cmd.Kind.String()),
		attribute.String("navigation.command", cmd.String()),
	}
	if cmd.Path != "" {
		attrs = append(attrs, attribute.String("navigation.path", cmd.Path))
	}

	_, span := t.tracer.Start(t.config.Parent, "navigation."+cmd.Kind.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	t.mu.Lock()
	t.spans[navigationID] = span
	t.mu.Unlock()
}

func (t *Tracer) NavigationFinished(res router.DispatchResult, elapsed time.Duration) {
	t.mu.Lock()
	span, ok := t.spans[res.ID]
	delete(t.spans, res.ID)
	t.mu.Unlock()
	if !ok {
		return
	}

	span.SetAttributes(
		attribute.String("navigation.outcome", res.Outcome()),
		attribute.Bool("navigation.changed", res.Changed),
		attribute.Int64("navigation.duration_ms", elapsed.Milliseconds()),
	)
	if t.config.IncludeRoutes {
		if res.From != nil {
			span.SetAttributes(attribute.String("navigation.from", string(res.From.ID)))
		}
		if res.To != nil {
			span.SetAttributes(attribute.String("navigation.to", string(res.To.ID)))
		}
	}

	switch {
	case res.Blocked():
		span.SetAttributes(attribute.String("navigation.block_reason", res.Reason.String()))
		span.SetStatus(codes.Error, res.Reason.String())
	case res.Dropped:
		span.AddEvent("navigation dropped")
		span.SetStatus(codes.Unset, "")
	default:
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// Open returns the number of spans waiting for their navigation to settle.
func (t *Tracer) Open() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.spans)
}
