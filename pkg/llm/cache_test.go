package llm

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEmbeddingProvider(t *testing.T) {
	mock := &mockEmbeddingProvider{name: "mock"}
	p, err := NewLRUEmbeddingProvider(mock, 8)
	require.NoError(t, err)
	assert.Equal(t, "mock-lru", p.Name())

	ctx := context.Background()
	first, err := p.Embed(ctx, []string{"alpha", "be"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{5, 1}, {2, 1}}, first)

	// 命中的文本不再请求底层 provider
	second, err := p.Embed(ctx, []string{"be", "gamma", "alpha"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{2, 1}, {5, 1}, {5, 1}}, second)
	assert.Equal(t, 2, mock.calls)
	assert.Equal(t, []string{"gamma"}, mock.inputs[1])

	vec, err := p.EmbedSingle(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 1}, vec)
	assert.Equal(t, 2, mock.calls)
	assert.Equal(t, 3, p.Len())
}

func TestNewLRUEmbeddingProvider_InvalidSize(t *testing.T) {
	_, err := NewLRUEmbeddingProvider(&mockEmbeddingProvider{}, 0)
	assert.Error(t, err)
}

// setupTestRedis 连接测试 Redis（DB 15），不可用时跳过。
func setupTestRedis(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: 15})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestCachedEmbeddingProvider(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()

	mock := &mockEmbeddingProvider{name: "mock"}
	cfg := &EmbeddingCacheConfig{
		Enabled:   true,
		TTL:       time.Minute,
		KeyPrefix: fmt.Sprintf("docsearch:test:emb:%d:", time.Now().UnixNano()),
	}
	p := NewCachedEmbeddingProvider(mock, client, cfg)
	t.Cleanup(func() { _ = p.ClearCache(ctx) })

	first, err := p.Embed(ctx, []string{"one", "three"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{3, 1}, {5, 1}}, first)

	second, err := p.Embed(ctx, []string{"three", "four", "one"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{5, 1}, {4, 1}, {3, 1}}, second)
	assert.Equal(t, 2, mock.calls)
	assert.Equal(t, []string{"four"}, mock.inputs[1])
}

func TestCachedEmbeddingProvider_Disabled(t *testing.T) {
	mock := &mockEmbeddingProvider{name: "mock"}
	p := NewCachedEmbeddingProvider(mock, nil, nil)
	assert.Equal(t, "mock-cached", p.Name())

	vec, err := p.EmbedSingle(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 1}, vec)
	assert.NoError(t, p.ClearCache(context.Background()))
}
