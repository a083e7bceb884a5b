package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/resource"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func collectSum(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.MetricInterval != 15*time.Second {
		t.Errorf("expected MetricInterval 15s, got %v", cfg.MetricInterval)
	}
	if cfg.Enabled {
		t.Error("telemetry must be disabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", DefaultConfig("svc"), false},
		{"rate too high", Config{SampleRate: 1.5}, true},
		{"negative rate", Config{SampleRate: -0.1}, true},
		{"enabled without endpoint", Config{Enabled: true, SampleRate: 1}, true},
		{"negative interval", Config{SampleRate: 1, MetricInterval: -time.Second}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSamplerFor(t *testing.T) {
	if samplerFor(1.0).Description() != sdktrace.AlwaysSample().Description() {
		t.Error("expected always-on sampler")
	}
	if samplerFor(0).Description() != sdktrace.NeverSample().Description() {
		t.Error("expected always-off sampler")
	}
	if samplerFor(0.5).Description() != sdktrace.TraceIDRatioBased(0.5).Description() {
		t.Error("expected ratio sampler")
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test-operation")
	defer span.End()

	if span == nil {
		t.Fatal("expected non-nil span")
	}
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected span in context")
	}
}

func TestSetSpanAttributeAndError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "attrs")
	SetSpanAttribute(ctx, "string-key", "value")
	SetSpanAttribute(ctx, "int-key", 42)
	SetSpanAttribute(ctx, "int64-key", int64(100))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "string-slice-key", []string{"a", "b"})
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	SetSpanError(ctx, fmt.Errorf("boom"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := len(spans[0].Attributes); got != 6 {
		t.Errorf("expected 6 attributes, got %d", got)
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected recorded error event, got %d events", len(spans[0].Events))
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	SetSpanAttribute(context.Background(), "key", "value")
	SetSpanError(context.Background(), fmt.Errorf("no span"))
}

func TestOperation_EndRecordsStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	SetDefaultMetrics(metrics)
	defer SetDefaultMetrics(nil)

	ctx, op := StartOperation(context.Background(), "process", SpanProcessRun,
		attribute.String(AttrCommand, "ls"))
	op.End(ctx, nil)

	ctx, op = StartOperation(context.Background(), "process", SpanProcessRun)
	op.End(ctx, fmt.Errorf("killed"))

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].Name != SpanProcessRun {
		t.Errorf("expected span %q, got %q", SpanProcessRun, spans[0].Name)
	}
	if spans[0].Status.Code == codes.Error {
		t.Error("successful operation must not be marked failed")
	}
	if spans[1].Status.Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[1].Status.Code)
	}
	if got := collectSum(t, reader, "error.total"); got != 1 {
		t.Errorf("expected error.total 1, got %d", got)
	}
}

func TestMetrics_ProcessAndGuard(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	metrics.RecordProcess(ctx, "ls", "ok", 10*time.Millisecond)
	metrics.RecordProcess(ctx, "false", "failed", time.Millisecond)
	metrics.RecordAcquire(ctx, "tempdir")
	metrics.RecordAcquire(ctx, "file")
	metrics.RecordRelease(ctx, "tempdir", nil)

	if got := collectSum(t, reader, "process.total"); got != 2 {
		t.Errorf("expected process.total 2, got %d", got)
	}
	if got := collectSum(t, reader, "guard.acquired"); got != 2 {
		t.Errorf("expected guard.acquired 2, got %d", got)
	}
	if got := collectSum(t, reader, "guard.released"); got != 1 {
		t.Errorf("expected guard.released 1, got %d", got)
	}
	if got := collectSum(t, reader, "guard.active"); got != 1 {
		t.Errorf("expected guard.active 1, got %d", got)
	}
}

func TestMetrics_Noop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	metrics.RecordError(context.Background(), "timeout", "process")
}

func TestDefaultMetrics_Lazy(t *testing.T) {
	SetDefaultMetrics(nil)
	defer SetDefaultMetrics(nil)

	m := DefaultMetrics()
	if m == nil {
		t.Fatal("expected metrics")
	}
	if DefaultMetrics() != m {
		t.Error("expected the same instance on repeated calls")
	}
}

func TestInitTracer(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.Enabled = true

	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	tp, err := InitTracer(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("InitTracer: %v", err)
	}
	defer tp.Shutdown(context.Background())
	if otel.GetTracerProvider() != tp {
		t.Error("expected the provider to be installed globally")
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("tool", "1.2.3", "staging")
	if err != nil {
		t.Fatalf("newResource: %v", err)
	}
	if res.SchemaURL() != resource.Default().SchemaURL() {
		t.Errorf("schema = %q, want the SDK default %q", res.SchemaURL(), resource.Default().SchemaURL())
	}
	want := map[string]string{
		"service.name":    "tool",
		"service.version": "1.2.3",
		"environment":     "staging",
	}
	got := map[string]string{}
	for _, kv := range res.Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestInitMeter(t *testing.T) {
	cfg := DefaultConfig("test")
	cfg.Enabled = true

	prev := otel.GetMeterProvider()
	defer otel.SetMeterProvider(prev)
	defer SetDefaultMetrics(nil)

	mp, err := InitMeter(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("InitMeter: %v", err)
	}
	defer mp.Shutdown(context.Background())
}
