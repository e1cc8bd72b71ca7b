package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	options "github.com/Shreeshail-sp/docsearch/pkg/options/tracing"
)

func TestNewProvider_Disabled(t *testing.T) {
	p, err := NewProvider(context.Background(), nil, "v0.0.0")
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Tracer("test"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProvider_InvalidOptions(t *testing.T) {
	opts := options.NewOptions()
	opts.Enabled = true
	opts.ExporterType = "zipkin"

	_, err := NewProvider(context.Background(), opts, "v0.0.0")
	assert.Error(t, err)
}

func TestNewProvider_NoopExporterRecordsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	opts := options.NewOptions()
	opts.Enabled = true
	opts.ExporterType = options.ExporterNoop
	opts.SamplerType = options.SamplerAlwaysOn

	p, err := NewProvider(context.Background(), opts, "v1.2.3")
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	assert.True(t, p.Enabled())

	ctx, span := otel.Tracer("docsearch-test").Start(context.Background(), "docsearch.retrieve")
	defer span.End()

	assert.True(t, span.IsRecording())
	assert.Len(t, TraceIDFromContext(ctx), 32)
	assert.Len(t, SpanIDFromContext(ctx), 16)
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
