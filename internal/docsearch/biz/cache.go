package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/Shreeshail-sp/docsearch/pkg/utils/json"
)

// QueryCacheConfig 查询缓存配置。
type QueryCacheConfig struct {
	// Enabled 是否启用缓存。
	Enabled bool
	// TTL 缓存过期时间。
	TTL time.Duration
	// KeyPrefix 缓存键前缀。
	KeyPrefix string
}

// DefaultQueryCacheConfig 返回默认查询缓存配置（默认禁用）。
func DefaultQueryCacheConfig() *QueryCacheConfig {
	return &QueryCacheConfig{
		Enabled:   false,
		TTL:       10 * time.Minute,
		KeyPrefix: "docsearch:query:",
	}
}

// QueryCache 检索与问答结果缓存。
//
// 上传新文档后结果可能变化，上传成功时整体清空。
type QueryCache struct {
	redis  goredis.UniversalClient
	config *QueryCacheConfig
}

// NewQueryCache 创建查询缓存实例。
func NewQueryCache(redis goredis.UniversalClient, config *QueryCacheConfig) *QueryCache {
	if config == nil {
		config = DefaultQueryCacheConfig()
	}
	return &QueryCache{redis: redis, config: config}
}

func (c *QueryCache) enabled() bool {
	return c != nil && c.config.Enabled && c.redis != nil
}

// cacheKey 基于操作类型、topK 与查询生成键（SHA256）。
func (c *QueryCache) cacheKey(kind, query string, topK int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%d\x00%s", kind, topK, query)))
	return c.config.KeyPrefix + kind + ":" + hex.EncodeToString(hash[:])
}

// Get 读取缓存到 dest，未命中或缓存不可用时返回 false。
func (c *QueryCache) Get(ctx context.Context, kind, query string, topK int, dest any) bool {
	if !c.enabled() {
		return false
	}

	key := c.cacheKey(kind, query, topK)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !stderrors.Is(err, goredis.Nil) {
			logger.Warnw("failed to get from cache", "error", err.Error(), "key", key)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warnw("failed to unmarshal cached result", "error", err.Error(), "key", key)
		// 删除损坏的缓存
		_ = c.redis.Del(ctx, key).Err()
		return false
	}

	logger.Debugw("cache hit", "kind", kind, "key", key)
	return true
}

// Set 写入缓存，失败只记录日志。
func (c *QueryCache) Set(ctx context.Context, kind, query string, topK int, value any) {
	if !c.enabled() {
		return
	}

	key := c.cacheKey(kind, query, topK)
	data, err := json.Marshal(value)
	if err != nil {
		logger.Warnw("failed to marshal result for caching", "error", err.Error())
		return
	}
	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("failed to set cache", "error", err.Error(), "key", key)
	}
}

// Clear 清除所有查询缓存，返回删除的键数量。
func (c *QueryCache) Clear(ctx context.Context) (int, error) {
	if !c.enabled() {
		return 0, nil
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
		return deleted, fmt.Errorf("failed to scan cache keys: %w", err)
	}
	return deleted, nil
}

// Stats 返回缓存统计信息。
func (c *QueryCache) Stats(ctx context.Context) map[string]any {
	if !c.enabled() {
		return map[string]any{"enabled": false}
	}

	keys := 0
	iter := c.redis.Scan(ctx, 0, c.config.KeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys++
	}
	stats := map[string]any{
		"enabled":    true,
		"key_count":  keys,
		"ttl":        c.config.TTL.String(),
		"key_prefix": c.config.KeyPrefix,
	}
	if err := iter.Err(); err != nil {
		stats["error"] = err.Error()
	}
	return stats
}
