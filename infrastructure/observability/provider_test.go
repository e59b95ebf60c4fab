package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServiceName != "iclean" {
		t.Errorf("ServiceName = %q, want iclean", cfg.ServiceName)
	}
	if cfg.Tracing.Enabled {
		t.Error("tracing should be disabled by default")
	}
	if cfg.Tracing.Exporter != ExporterNoop {
		t.Errorf("Tracing.Exporter = %q, want noop", cfg.Tracing.Exporter)
	}
	if cfg.Tracing.SampleRate != 1.0 {
		t.Errorf("SampleRate = %v, want 1.0", cfg.Tracing.SampleRate)
	}
	if cfg.Metrics.ExportInterval != 60*time.Second {
		t.Errorf("ExportInterval = %v, want 60s", cfg.Metrics.ExportInterval)
	}
}

func TestOptions(t *testing.T) {
	cfg := DefaultConfig()
	opts := []Option{
		WithServiceName("svc"),
		WithServiceVersion("2.0.0"),
		WithEnvironment("test"),
		WithTracing(ExporterOTLP, "localhost:4317"),
		WithTracingInsecure(),
		WithSampleRate(0.5),
		WithMetrics(ExporterOTLP, "localhost:4318"),
		WithMetricsInsecure(),
		WithMetricsInterval(time.Second),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.ServiceName != "svc" || cfg.ServiceVersion != "2.0.0" || cfg.Environment != "test" {
		t.Errorf("service identity = %q/%q/%q", cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	}
	if !cfg.Tracing.Enabled || cfg.Tracing.Exporter != ExporterOTLP || cfg.Tracing.Endpoint != "localhost:4317" {
		t.Errorf("tracing = %+v", cfg.Tracing)
	}
	if !cfg.Tracing.Insecure {
		t.Error("tracing should be insecure")
	}
	if cfg.Tracing.SampleRate != 0.5 {
		t.Errorf("SampleRate = %v, want 0.5", cfg.Tracing.SampleRate)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Endpoint != "localhost:4318" || !cfg.Metrics.Insecure {
		t.Errorf("metrics = %+v", cfg.Metrics)
	}
	if cfg.Metrics.ExportInterval != time.Second {
		t.Errorf("ExportInterval = %v, want 1s", cfg.Metrics.ExportInterval)
	}
}

func TestNew_Disabled(t *testing.T) {
	p, err := New(context.Background())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if p.Tracer(TracerName) == nil {
		t.Error("Tracer() returned nil")
	}
	if p.MeterProvider() == nil {
		t.Error("MeterProvider() returned nil")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNew_UnknownExporter(t *testing.T) {
	_, err := New(context.Background(), WithTracing("carrier-pigeon", ""))
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("New() error = %v, want ErrUnknownExporter", err)
	}

	_, err = New(context.Background(), WithMetrics("carrier-pigeon", ""))
	if !errors.Is(err, ErrUnknownExporter) {
		t.Errorf("New() error = %v, want ErrUnknownExporter", err)
	}
}

func TestNew_StdoutTracing(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(context.Background(), WithStdoutTracing(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, sim := StartSimulationSpan(context.Background(), p.Tracer(TracerName), "sim-1", 2, 10)
	_, step := StartStepSpan(ctx, p.Tracer(TracerName), 1)
	EndSpan(step, errors.New("boom"))
	EndSpan(sim, nil)

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"simulation"`, `"step"`, "sim-1", "simulation.step", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("exported spans missing %s", want)
		}
	}
}

func TestNew_MetricsWithoutExporter(t *testing.T) {
	p, err := New(context.Background(), WithMetrics(ExporterNoop, ""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	counter, err := p.MeterProvider().Meter("test").Int64Counter("test.counter")
	if err != nil {
		t.Fatalf("Int64Counter() error = %v", err)
	}
	counter.Add(context.Background(), 1)

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNoopProvider(t *testing.T) {
	p := NewNoopProvider()

	_, span := StartSimulationSpan(context.Background(), p.Tracer(TracerName), "sim-1", 1, 1)
	if span.SpanContext().IsValid() {
		t.Error("noop span should not carry a valid span context")
	}
	EndSpan(span, nil)

	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
