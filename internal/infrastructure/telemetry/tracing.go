package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for service spans
const TracerName = "clothing-store"

// StartServiceSpan starts an internal span named "{service}.{method}".
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place_stripe")
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return otel.GetTracerProvider().Tracer(TracerName).Start(ctx, fmt.Sprintf("%s.%s", service, method), opts...)
}

// RecordError marks the span as failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// EndSpan records *errp on the span and ends it. Use it with a named error result:
//
//	defer telemetry.EndSpan(span, &err)
func EndSpan(span trace.Span, errp *error) {
	if errp != nil {
		RecordError(span, *errp)
	}
	span.End()
}
