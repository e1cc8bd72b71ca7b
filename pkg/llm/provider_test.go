package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockEmbeddingProvider 返回固定向量并记录调用。
type mockEmbeddingProvider struct {
	name   string
	calls  int
	inputs [][]string
}

var _ EmbeddingProvider = (*mockEmbeddingProvider)(nil)

func (m *mockEmbeddingProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	m.inputs = append(m.inputs, texts)
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t)), 1}
	}
	return out, nil
}

func (m *mockEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbeddingProvider) Name() string { return m.name }

func TestRegistry(t *testing.T) {
	RegisterEmbeddingProvider("test-registry", func(config map[string]any) (EmbeddingProvider, error) {
		name, _ := config["name"].(string)
		return &mockEmbeddingProvider{name: name}, nil
	})

	p, err := NewEmbeddingProvider("test-registry", map[string]any{"name": "custom"})
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Name())
	assert.Contains(t, ListProviders(), "test-registry")

	_, err = NewEmbeddingProvider("does-not-exist", nil)
	assert.Error(t, err)
}

type pingingProvider struct {
	mockEmbeddingProvider
	err error
}

func (p *pingingProvider) Ping(context.Context) error { return p.err }

func TestPing_ThroughWrappers(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, Ping(ctx, &mockEmbeddingProvider{}))

	down := &pingingProvider{err: errors.New("connection refused")}
	lru, err := NewLRUEmbeddingProvider(NewCachedEmbeddingProvider(down, nil, nil), 4)
	require.NoError(t, err)
	assert.EqualError(t, Ping(ctx, lru), "connection refused")

	down.err = nil
	assert.NoError(t, Ping(ctx, lru))
}
