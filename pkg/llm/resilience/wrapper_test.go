package resilience

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/pkg/utils/httpclient"
)

// flakyProvider 前 failures 次调用返回 503。
type flakyProvider struct {
	failures int
	calls    int
}

func (f *flakyProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, &httpclient.StatusError{StatusCode: http.StatusServiceUnavailable}
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func (f *flakyProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	v, err := f.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func (f *flakyProvider) Name() string { return "flaky" }

func TestWrap_RetriesTransientFailures(t *testing.T) {
	inner := &flakyProvider{failures: 2}
	cfg := fastRetry(3)
	cfg.Retryable = IsRetryableError
	p := Wrap(inner, cfg, &CircuitBreakerConfig{MaxFailures: 10, Timeout: 1, HalfOpenMaxCalls: 1})

	vecs, err := p.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, "flaky-resilient", p.Name())
	assert.Equal(t, "closed", p.Stats().State)
	assert.NoError(t, p.Ping(context.Background()))
}

func TestWrap_OpensBreaker(t *testing.T) {
	inner := &flakyProvider{failures: 100}
	cfg := fastRetry(2)
	cfg.Retryable = IsRetryableError
	p := Wrap(inner, cfg, &CircuitBreakerConfig{MaxFailures: 2, Timeout: 1 << 40, HalfOpenMaxCalls: 1})

	_, err := p.EmbedSingle(context.Background(), "q")
	require.Error(t, err)
	assert.Equal(t, "open", p.Stats().State)

	_, err = p.EmbedSingle(context.Background(), "q")
	assert.ErrorIs(t, err, ErrCircuitBreakerOpen)
	assert.Equal(t, 2, inner.calls)
}
