package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation is a traced unit of work: a subprocess, an in-place rewrite.
type Operation struct {
	Component string
	Name      string
	StartTime time.Time
	Metrics   *Metrics

	span trace.Span
}

// StartOperation starts a span named name tagged with component. The
// returned context carries the span.
func StartOperation(ctx context.Context, component, name string, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, name)
	span.SetAttributes(
		attribute.String(AttrComponent, component),
		attribute.String(AttrOperationName, name),
	)
	span.SetAttributes(attrs...)
	op := &Operation{
		Component: component,
		Name:      name,
		StartTime: time.Now(),
		Metrics:   DefaultMetrics(),
		span:      span,
	}
	return ctx, op
}

// SetAttributes adds attributes to the operation span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// Span returns the operation span.
func (o *Operation) Span() trace.Span { return o.span }

// End finishes the span. A non-nil err marks the span failed and is counted
// in error.total.
func (o *Operation) End(ctx context.Context, err error) {
	status := "ok"
	if err != nil {
		status = "error"
		o.span.RecordError(err)
		o.span.SetStatus(codes.Error, err.Error())
		o.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
		if o.Metrics != nil {
			o.Metrics.RecordError(ctx, o.Name, o.Component)
		}
	}
	o.span.SetAttributes(
		attribute.String(AttrStatus, status),
		attribute.Int64(AttrDurationMs, o.Duration().Milliseconds()),
	)
	o.span.End()
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.StartTime)
}
