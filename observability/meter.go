package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/shellkit/logger"
)

// InitMeter installs an OTLP HTTP meter provider as the global provider and
// rebinds DefaultMetrics to it. Returns a MeterProvider that should be shut
// down on exit.
func InitMeter(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)
	SetDefaultMetrics(nil)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.MetricInterval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by processes and guarded resources.
type Metrics struct {
	processTotal     metric.Int64Counter
	processDuration  metric.Float64Histogram
	resourceAcquired metric.Int64Counter
	resourceReleased metric.Int64Counter
	resourceActive   metric.Int64UpDownCounter
	errorTotal       metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	processTotal, err := meter.Int64Counter("process.total",
		metric.WithDescription("Total number of subprocesses run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.total counter: %w", err)
	}

	processDuration, err := meter.Float64Histogram("process.duration",
		metric.WithDescription("Duration of subprocesses in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating process.duration histogram: %w", err)
	}

	resourceAcquired, err := meter.Int64Counter("guard.acquired",
		metric.WithDescription("Guarded resources acquired"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating guard.acquired counter: %w", err)
	}

	resourceReleased, err := meter.Int64Counter("guard.released",
		metric.WithDescription("Guarded resources released"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating guard.released counter: %w", err)
	}

	resourceActive, err := meter.Int64UpDownCounter("guard.active",
		metric.WithDescription("Guarded resources currently held"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating guard.active gauge: %w", err)
	}

	errorTotal, err := meter.Int64Counter("error.total",
		metric.WithDescription("Total errors by type and component"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating error.total counter: %w", err)
	}

	return &Metrics{
		processTotal:     processTotal,
		processDuration:  processDuration,
		resourceAcquired: resourceAcquired,
		resourceReleased: resourceReleased,
		resourceActive:   resourceActive,
		errorTotal:       errorTotal,
	}, nil
}

// RecordProcess records a finished subprocess. Status is "ok", "failed"
// (nonzero exit) or "error" (did not start or was killed).
func (m *Metrics) RecordProcess(ctx context.Context, command, status string, duration time.Duration) {
	m.processTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
	))
	m.processDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("command", command),
	))
}

// RecordAcquire records a successful acquisition of a resource of the given kind.
func (m *Metrics) RecordAcquire(ctx context.Context, kind string) {
	attrs := metric.WithAttributes(attribute.String("kind", kind))
	m.resourceAcquired.Add(ctx, 1, attrs)
	m.resourceActive.Add(ctx, 1, attrs)
}

// RecordRelease records a release; err is the release error, if any.
func (m *Metrics) RecordRelease(ctx context.Context, kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.resourceReleased.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("status", status),
	))
	m.resourceActive.Add(ctx, -1, metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordError records an error by type and component.
func (m *Metrics) RecordError(ctx context.Context, errType, component string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", errType),
		attribute.String("component", component),
	))
}

var (
	defaultMu      sync.Mutex
	defaultMetrics *Metrics
)

// DefaultMetrics returns the shared instruments, creating them on the global
// meter provider on first use.
func DefaultMetrics() *Metrics {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultMetrics != nil {
		return defaultMetrics
	}
	m, err := NewMetrics(Meter(instrumentationName))
	if err != nil {
		logger.Warn("falling back to no-op metrics", logger.ErrorFields("create instruments", err))
		m, _ = NewMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	defaultMetrics = m
	return m
}

// SetDefaultMetrics replaces the shared instruments. Passing nil makes the
// next DefaultMetrics call rebind to the current global meter provider.
func SetDefaultMetrics(m *Metrics) {
	defaultMu.Lock()
	defaultMetrics = m
	defaultMu.Unlock()
}
