package middleware

import (
	"context"
	"sync"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/hashroute/pkg/hashpath"
	"github.com/vango-dev/hashroute/pkg/host"
	"github.com/vango-dev/hashroute/pkg/location"
)

// recordingProvider hands out tracers that remember every span they start.
type recordingProvider struct {
	noop.TracerProvider

	mu    sync.Mutex
	name  string
	spans []*recordingSpan
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	p.mu.Lock()
	p.name = name
	p.mu.Unlock()
	return &recordingTracer{provider: p}
}

// ended returns finished spans in start order.
func (p *recordingProvider) ended() []*recordingSpan {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*recordingSpan
	for _, s := range p.spans {
		if s.ended {
			out = append(out, s)
		}
	}
	return out
}

type recordingTracer struct {
	noop.Tracer
	provider *recordingProvider
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	span := &recordingSpan{name: name, attrs: cfg.Attributes(), kind: cfg.SpanKind()}

	t.provider.mu.Lock()
	t.provider.spans = append(t.provider.spans, span)
	t.provider.mu.Unlock()

	return trace.ContextWithSpan(ctx, span), span
}

type recordingSpan struct {
	noop.Span

	name  string
	attrs []attribute.KeyValue
	kind  trace.SpanKind
	ended bool
}

func (s *recordingSpan) End(...trace.SpanEndOption) { s.ended = true }

func (s *recordingSpan) attr(key string) string {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	return ""
}

func TestOpenTelemetryConfig(t *testing.T) {
	config := defaultOTelConfig()
	if config.TracerName != defaultTracerName {
		t.Errorf("TracerName = %q, want %q", config.TracerName, defaultTracerName)
	}

	tp := &recordingProvider{}
	ctxFn := func() context.Context { return context.Background() }
	for _, opt := range []OTelOption{
		WithTracerName("my-app"),
		WithTracerProvider(tp),
		WithSpanContext(ctxFn),
	} {
		opt(&config)
	}
	if config.TracerName != "my-app" {
		t.Errorf("TracerName = %q, want my-app", config.TracerName)
	}
	if config.TracerProvider != tp {
		t.Error("TracerProvider not applied")
	}
	if config.Context == nil {
		t.Error("Context not applied")
	}
}

func TestOpenTelemetry_SpansForNavigation(t *testing.T) {
	tp := &recordingProvider{}
	mem := host.NewMemory("#/")
	loc := location.New(mem, location.WithHostMiddleware(
		OpenTelemetry(WithTracerProvider(tp), WithTracerName("nav")),
	))
	defer loc.Close()

	loc.Current().Go(hashpath.Path{"a"}, hashpath.Options{})
	loc.Current().Replace(hashpath.Path{"b"}, hashpath.Options{})

	if tp.name != "nav" {
		t.Errorf("tracer name = %q, want nav", tp.name)
	}

	var got []string
	for _, s := range tp.ended() {
		got = append(got, s.name+" "+s.attr(AttrHref))
	}
	want := []string{
		SpanPush + " /a",
		SpanHashChange + " #/a",
		SpanReplace + " /b",
		SpanHashChange + " #/b",
	}
	if len(got) != len(want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("span[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOpenTelemetry_ExternalChange(t *testing.T) {
	tp := &recordingProvider{}
	mem := host.NewMemory("#/")
	loc := location.New(mem, location.WithHostMiddleware(OpenTelemetry(WithTracerProvider(tp))))
	defer loc.Close()

	var seen string
	loc.Subscribe(func(s *location.Snapshot) { seen = s.Href() })

	mem.Push("#/elsewhere")

	if seen != "#/elsewhere" {
		t.Errorf("subscriber saw %q, want #/elsewhere", seen)
	}
	spans := tp.ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].name != SpanHashChange {
		t.Errorf("span name = %q, want %q", spans[0].name, SpanHashChange)
	}
	if spans[0].kind != trace.SpanKindInternal {
		t.Errorf("span kind = %v, want internal", spans[0].kind)
	}
	if got := spans[0].attr(AttrHref); got != "#/elsewhere" {
		t.Errorf("href attribute = %q", got)
	}
}

func TestOpenTelemetry_GlobalProvider(t *testing.T) {
	mem := host.NewMemory("#/")
	wrapped := OpenTelemetry()(mem)

	wrapped.Push("#/a")
	wrapped.Replace("#/b")

	if got := mem.Current(); got != "#/b" {
		t.Errorf("Current() = %q, want #/b", got)
	}
	if mem.Len() != 2 {
		t.Errorf("Len() = %d, want 2", mem.Len())
	}
}
