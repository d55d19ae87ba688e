package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of application spans
const TracerName = "github.com/masala/backend"

// Span attribute keys shared by services
const (
	AttrOrderID     = attribute.Key("order.id")
	AttrOrderStatus = attribute.Key("order.status")
	AttrProductID   = attribute.Key("product.id")
	AttrRecordCount = attribute.Key("allocation.records")
)

// StartSpan starts an internal span named "<service>.<method>"
func StartSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks span as failed. Nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End records err on span and ends it; use as `defer func() { telemetry.End(span, err) }()`
func End(span trace.Span, err error) {
	RecordError(span, err)
	span.End()
}
