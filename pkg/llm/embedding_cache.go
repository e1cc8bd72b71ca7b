package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Shreeshail-sp/docsearch/pkg/utils/json"
)

// EmbeddingCacheConfig Embedding 缓存配置。
type EmbeddingCacheConfig struct {
	// Enabled 是否启用缓存。
	Enabled bool
	// TTL 缓存过期时间。
	TTL time.Duration
	// KeyPrefix 缓存键前缀，应包含模型名以免不同模型的向量混用。
	KeyPrefix string
}

// DefaultEmbeddingCacheConfig 返回默认的 Embedding 缓存配置。
func DefaultEmbeddingCacheConfig() *EmbeddingCacheConfig {
	return &EmbeddingCacheConfig{
		Enabled:   true,
		TTL:       24 * time.Hour,
		KeyPrefix: "docsearch:emb:",
	}
}

// CachedEmbeddingProvider 以 Redis 缓存 Embedding 结果。
// Redis 出错时回退到底层 provider，不影响功能。
type CachedEmbeddingProvider struct {
	provider EmbeddingProvider
	redis    goredis.UniversalClient
	config   *EmbeddingCacheConfig
}

var _ EmbeddingProvider = (*CachedEmbeddingProvider)(nil)

// NewCachedEmbeddingProvider 创建带缓存的 Embedding Provider。
func NewCachedEmbeddingProvider(
	provider EmbeddingProvider,
	redis goredis.UniversalClient,
	config *EmbeddingCacheConfig,
) *CachedEmbeddingProvider {
	if config == nil {
		config = DefaultEmbeddingCacheConfig()
	}
	return &CachedEmbeddingProvider{
		provider: provider,
		redis:    redis,
		config:   config,
	}
}

func (c *CachedEmbeddingProvider) cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return c.config.KeyPrefix + hex.EncodeToString(hash[:])
}

func (c *CachedEmbeddingProvider) enabled() bool {
	return c.config.Enabled && c.redis != nil
}

// EmbedSingle 生成单个文本的 Embedding（带缓存）。
func (c *CachedEmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Embed 批量生成 Embedding：一次 MGET 读取缓存，只为未命中的文本调用底层 provider。
func (c *CachedEmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.enabled() || len(texts) == 0 {
		return c.provider.Embed(ctx, texts)
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.cacheKey(t)
	}

	embeddings := make([][]float32, len(texts))
	var missIdx []int

	values, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Warnw("redis mget failed, falling back to provider", "error", err.Error())
		values = make([]any, len(keys))
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			missIdx = append(missIdx, i)
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(s), &vec); err != nil {
			logger.Warnw("failed to decode cached embedding, deleting", "error", err.Error(), "key", keys[i])
			_ = c.redis.Del(ctx, keys[i]).Err()
			missIdx = append(missIdx, i)
			continue
		}
		embeddings[i] = vec
	}

	if len(missIdx) == 0 {
		logger.Debugw("all embeddings from cache", "total", len(texts))
		return embeddings, nil
	}

	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = texts[i]
	}
	logger.Debugw("embedding cache miss", "total", len(texts), "uncached", len(missTexts))

	fresh, err := c.provider.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	pipe := c.redis.Pipeline()
	for j, i := range missIdx {
		embeddings[i] = fresh[j]
		data, err := json.Marshal(fresh[j])
		if err != nil {
			continue
		}
		pipe.Set(ctx, keys[i], data, c.config.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warnw("failed to cache embeddings", "error", err.Error(), "count", len(missIdx))
	}

	return embeddings, nil
}

// Name 返回底层 provider 的名称。
func (c *CachedEmbeddingProvider) Name() string {
	return c.provider.Name() + "-cached"
}

// Ping 透传给底层 provider。
func (c *CachedEmbeddingProvider) Ping(ctx context.Context) error {
	return Ping(ctx, c.provider)
}

// ClearCache 清除所有 Embedding 缓存。
func (c *CachedEmbeddingProvider) ClearCache(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}

	iter := c.redis.Scan(ctx, 0, c.config.KeyPrefix+"*", 0).Iterator()
	deleted := 0
	for iter.Next(ctx) {
		if err := c.redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warnw("failed to delete cache key", "error", err.Error(), "key", iter.Val())
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return err
	}

	logger.Infow("cleared embedding cache", "deleted_count", deleted)
	return nil
}
