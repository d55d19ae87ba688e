package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the otelgin middleware. Span names follow "METHOD route",
// e.g. "POST /api/orders/:id/allocations".
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(serviceName)
}

// SpanEnricher must run after Tracing and RequestID. It tags the request span
// with the request ID and operator and marks 4xx/5xx responses as errors.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if id := GetRequestID(c); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}

		c.Next()

		if op := GetOperator(c); op != "" {
			span.SetAttributes(attribute.String("operator", op))
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}
