// Package cache provides query and embedding cache options.
package cache

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/options"
	redisopts "github.com/Shreeshail-sp/docsearch/pkg/options/redis"
)

var _ options.IOptions = (*Options)(nil)

// QueryOptions 检索结果缓存配置。
type QueryOptions struct {
	// Enabled 是否缓存检索结果。
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// TTL 缓存过期时间。
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`
	// KeyPrefix 缓存键前缀。
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
}

// EmbeddingOptions 向量缓存配置。
type EmbeddingOptions struct {
	// Enabled 是否在 Redis 中缓存向量。
	Enabled bool `json:"enabled" mapstructure:"enabled"`
	// TTL 缓存过期时间。
	TTL time.Duration `json:"ttl" mapstructure:"ttl"`
	// KeyPrefix 缓存键前缀。
	KeyPrefix string `json:"key-prefix" mapstructure:"key-prefix"`
	// LRUSize 进程内 LRU 容量，0 表示关闭。
	LRUSize int `json:"lru-size" mapstructure:"lru-size"`
}

// Options 缓存配置。只有 Query 或 Embedding 启用时才会连接 Redis。
type Options struct {
	Query     *QueryOptions      `json:"query" mapstructure:"query"`
	Embedding *EmbeddingOptions  `json:"embedding" mapstructure:"embedding"`
	Redis     *redisopts.Options `json:"redis" mapstructure:"redis"`
}

// NewOptions 创建默认缓存配置。Redis 缓存默认关闭。
func NewOptions() *Options {
	return &Options{
		Query: &QueryOptions{
			TTL:       10 * time.Minute,
			KeyPrefix: "docsearch:query:",
		},
		Embedding: &EmbeddingOptions{
			TTL:       24 * time.Hour,
			KeyPrefix: "docsearch:emb:",
			LRUSize:   1024,
		},
		Redis: redisopts.NewOptions(),
	}
}

// RedisRequired 报告是否需要 Redis 连接。
func (o *Options) RedisRequired() bool {
	return (o.Query != nil && o.Query.Enabled) || (o.Embedding != nil && o.Embedding.Enabled)
}

// AddFlags adds flags for cache options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	o.fill()
	p := options.Join(prefixes...) + "cache."

	fs.BoolVar(&o.Query.Enabled, p+"query.enabled", o.Query.Enabled, "Cache retrieval results in Redis.")
	fs.DurationVar(&o.Query.TTL, p+"query.ttl", o.Query.TTL, "Retrieval cache TTL.")
	fs.StringVar(&o.Query.KeyPrefix, p+"query.key-prefix", o.Query.KeyPrefix, "Retrieval cache key prefix.")

	fs.BoolVar(&o.Embedding.Enabled, p+"embedding.enabled", o.Embedding.Enabled, "Cache embedding vectors in Redis.")
	fs.DurationVar(&o.Embedding.TTL, p+"embedding.ttl", o.Embedding.TTL, "Embedding cache TTL.")
	fs.StringVar(&o.Embedding.KeyPrefix, p+"embedding.key-prefix", o.Embedding.KeyPrefix, "Embedding cache key prefix.")
	fs.IntVar(&o.Embedding.LRUSize, p+"embedding.lru-size", o.Embedding.LRUSize, "In-process embedding LRU size (0 disables).")

	o.Redis.AddFlags(fs, append(prefixes, "cache")...)
}

// Validate validates the cache options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if o.Query != nil && o.Query.Enabled && o.Query.TTL <= 0 {
		errs = append(errs, fmt.Errorf("cache.query.ttl must be positive"))
	}
	if o.Embedding != nil {
		if o.Embedding.Enabled && o.Embedding.TTL <= 0 {
			errs = append(errs, fmt.Errorf("cache.embedding.ttl must be positive"))
		}
		if o.Embedding.LRUSize < 0 {
			errs = append(errs, fmt.Errorf("cache.embedding.lru-size must not be negative"))
		}
	}
	if o.RedisRequired() {
		errs = append(errs, o.Redis.Validate()...)
	}
	return errs
}

// Complete completes the cache options with defaults.
func (o *Options) Complete() error {
	o.fill()
	return o.Redis.Complete()
}

func (o *Options) fill() {
	def := NewOptions()
	if o.Query == nil {
		o.Query = def.Query
	}
	if o.Embedding == nil {
		o.Embedding = def.Embedding
	}
	if o.Redis == nil {
		o.Redis = def.Redis
	}
}
