package llm

import (
	"context"
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUEmbeddingProvider 进程内 LRU 缓存，键为文本的 SHA256。
type LRUEmbeddingProvider struct {
	provider EmbeddingProvider
	cache    *lru.Cache[[sha256.Size]byte, []float32]
}

var _ EmbeddingProvider = (*LRUEmbeddingProvider)(nil)

// NewLRUEmbeddingProvider 创建容量为 size 的 LRU 缓存包装器。
func NewLRUEmbeddingProvider(provider EmbeddingProvider, size int) (*LRUEmbeddingProvider, error) {
	cache, err := lru.New[[sha256.Size]byte, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding lru cache: %w", err)
	}
	return &LRUEmbeddingProvider{provider: provider, cache: cache}, nil
}

// Embed 只为未命中的文本调用底层 provider。
func (l *LRUEmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([][sha256.Size]byte, len(texts))
	var (
		missIdx   []int
		missTexts []string
	)
	for i, t := range texts {
		keys[i] = sha256.Sum256([]byte(t))
		if v, ok := l.cache.Get(keys[i]); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, t)
	}
	if len(missIdx) == 0 {
		return out, nil
	}

	fresh, err := l.provider.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d inputs", len(fresh), len(missTexts))
	}
	for j, i := range missIdx {
		out[i] = fresh[j]
		l.cache.Add(keys[i], fresh[j])
	}
	return out, nil
}

// EmbedSingle 为单个文本生成向量嵌入。
func (l *LRUEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := l.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Name 返回底层 provider 的名称。
func (l *LRUEmbeddingProvider) Name() string {
	return l.provider.Name() + "-lru"
}

// Ping 透传给底层 provider。
func (l *LRUEmbeddingProvider) Ping(ctx context.Context) error {
	return Ping(ctx, l.provider)
}

// Len 返回当前缓存条目数。
func (l *LRUEmbeddingProvider) Len() int {
	return l.cache.Len()
}
