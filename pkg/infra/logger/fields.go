// Package logger carries request-scoped logging fields through a context.
package logger

import (
	"context"

	"github.com/kart-io/logger"
	"github.com/kart-io/logger/core"
	"go.opentelemetry.io/otel/trace"
)

type contextKey int

const loggerFieldsKey contextKey = iota

// loggerFields holds structured logging fields extracted from context.
type loggerFields struct {
	fields map[string]any
	order  []string
}

func (lf *loggerFields) clone() *loggerFields {
	n := &loggerFields{
		fields: make(map[string]any, len(lf.fields)),
		order:  append([]string(nil), lf.order...),
	}
	for k, v := range lf.fields {
		n.fields[k] = v
	}
	return n
}

func (lf *loggerFields) set(key string, value any) {
	if _, ok := lf.fields[key]; !ok {
		lf.order = append(lf.order, key)
	}
	lf.fields[key] = value
}

func getLoggerFields(ctx context.Context) *loggerFields {
	if lf, ok := ctx.Value(loggerFieldsKey).(*loggerFields); ok {
		return lf
	}
	return &loggerFields{fields: map[string]any{}}
}

func withFields(ctx context.Context, keysAndValues ...any) context.Context {
	lf := getLoggerFields(ctx).clone()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		if key, ok := keysAndValues[i].(string); ok {
			lf.set(key, keysAndValues[i+1])
		}
	}
	return context.WithValue(ctx, loggerFieldsKey, lf)
}

// WithRequestID adds request_id to the context logger fields.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return withFields(ctx, "request_id", requestID)
}

// WithFields adds key-value pairs to the context logger fields.
// A trailing key without a value is dropped.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	if len(keysAndValues) < 2 {
		return ctx
	}
	return withFields(ctx, keysAndValues...)
}

// WithTraceContext copies trace_id and span_id from the active span.
func WithTraceContext(ctx context.Context) context.Context {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ctx
	}
	return withFields(ctx, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}

// GetContextFields returns the context fields as a key-value slice, in the
// order they were first added.
func GetContextFields(ctx context.Context) []any {
	lf := getLoggerFields(ctx)
	if len(lf.order) == 0 {
		return nil
	}
	out := make([]any, 0, len(lf.order)*2)
	for _, k := range lf.order {
		out = append(out, k, lf.fields[k])
	}
	return out
}

// GetLogger returns the global logger with the context fields attached.
func GetLogger(ctx context.Context) core.Logger {
	fields := GetContextFields(ctx)
	if len(fields) == 0 {
		return logger.Global()
	}
	return logger.Global().With(fields...)
}
