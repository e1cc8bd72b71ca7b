package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	infralogger "github.com/Shreeshail-sp/docsearch/pkg/infra/logger"
)

// TracerName is the tracer used for server spans.
const TracerName = "github.com/Shreeshail-sp/docsearch/pkg/infra/middleware"

// HeaderXTraceID carries the trace id back to the client.
const HeaderXTraceID = "X-Trace-ID"

// Tracing extracts W3C trace context, opens a server span named after the
// matched route and records the response status on it.
func Tracing(tracerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := c.Request
		ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))

		route := c.FullPath()
		if route == "" {
			route = req.URL.Path
		}

		ctx, span := otel.Tracer(tracerName).Start(ctx, req.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPMethod(req.Method),
				semconv.HTTPRoute(route),
				semconv.HTTPTarget(req.URL.Path),
				semconv.UserAgentOriginal(req.UserAgent()),
				attribute.String("http.client_ip", c.ClientIP()),
			),
		)
		defer span.End()

		if requestID := GetRequestID(ctx); requestID != "" {
			span.SetAttributes(attribute.String("http.request_id", requestID))
		}
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Header(HeaderXTraceID, sc.TraceID().String())
		}

		c.Request = req.WithContext(infralogger.WithTraceContext(ctx))
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(semconv.HTTPStatusCode(status))
		if status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		if status >= http.StatusInternalServerError {
			span.RecordError(fmt.Errorf("HTTP %d: %s", status, http.StatusText(status)))
		}
	}
}
