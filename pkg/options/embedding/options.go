// Package embedding provides embedding provider options.
package embedding

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/Shreeshail-sp/docsearch/pkg/llm/resilience"
	"github.com/Shreeshail-sp/docsearch/pkg/options"
)

var _ options.IOptions = (*Options)(nil)

// Supported providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// RetryOptions 重试配置。
type RetryOptions struct {
	MaxAttempts  int           `json:"max-attempts" mapstructure:"max-attempts"`
	InitialDelay time.Duration `json:"initial-delay" mapstructure:"initial-delay"`
	MaxDelay     time.Duration `json:"max-delay" mapstructure:"max-delay"`
}

// BreakerOptions 熔断器配置。
type BreakerOptions struct {
	Enabled     bool          `json:"enabled" mapstructure:"enabled"`
	MaxFailures int           `json:"max-failures" mapstructure:"max-failures"`
	Timeout     time.Duration `json:"timeout" mapstructure:"timeout"`
}

// Options 定义 Embedding 供应商配置。
type Options struct {
	// Provider 供应商名称（ollama, openai）。
	Provider string `json:"provider" mapstructure:"provider"`

	// BaseURL API 基础地址。
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// APIKey API 密钥（OpenAI 需要）。
	APIKey string `json:"-" mapstructure:"api-key"`

	// Model 使用的模型名称。
	Model string `json:"model" mapstructure:"model"`

	// Organization 组织 ID（OpenAI 可选）。
	Organization string `json:"organization" mapstructure:"organization"`

	// Timeout 单次请求超时时间。
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// MaxRetries 供应商内部的最大重试次数。
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// Dimension 向量维度，必须与向量索引一致。
	Dimension int `json:"dimension" mapstructure:"dimension"`

	// BatchSize 单次请求的最大文本数。
	BatchSize int `json:"batch-size" mapstructure:"batch-size"`

	// Workers 并发请求的批次数。
	Workers int `json:"workers" mapstructure:"workers"`

	Retry   *RetryOptions   `json:"retry" mapstructure:"retry"`
	Breaker *BreakerOptions `json:"breaker" mapstructure:"breaker"`
}

// NewOptions 创建默认 Embedding 配置。
func NewOptions() *Options {
	retry := resilience.DefaultRetryConfig()
	breaker := resilience.DefaultCircuitBreakerConfig()
	return &Options{
		Provider:   ProviderOllama,
		BaseURL:    "http://localhost:11434",
		Model:      "all-minilm",
		Timeout:    60 * time.Second,
		MaxRetries: 0,
		Dimension:  384,
		BatchSize:  32,
		Workers:    4,
		Retry: &RetryOptions{
			MaxAttempts:  retry.MaxAttempts,
			InitialDelay: retry.InitialDelay,
			MaxDelay:     retry.MaxDelay,
		},
		Breaker: &BreakerOptions{
			Enabled:     true,
			MaxFailures: breaker.MaxFailures,
			Timeout:     breaker.Timeout,
		},
	}
}

// ToConfigMap 转换为配置 map，用于供应商工厂。
func (o *Options) ToConfigMap() map[string]any {
	return map[string]any{
		"base_url":     o.BaseURL,
		"api_key":      o.APIKey,
		"embed_model":  o.Model,
		"dimensions":   o.Dimension,
		"timeout":      o.Timeout,
		"max_retries":  o.MaxRetries,
		"organization": o.Organization,
	}
}

// RetryConfig 转换为 resilience 重试配置。
func (o *Options) RetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxAttempts = o.Retry.MaxAttempts
	cfg.InitialDelay = o.Retry.InitialDelay
	cfg.MaxDelay = o.Retry.MaxDelay
	return cfg
}

// CircuitBreakerConfig 转换为 resilience 熔断器配置，未启用时返回 nil。
func (o *Options) CircuitBreakerConfig() *resilience.CircuitBreakerConfig {
	if !o.Breaker.Enabled {
		return nil
	}
	cfg := resilience.DefaultCircuitBreakerConfig()
	cfg.MaxFailures = o.Breaker.MaxFailures
	cfg.Timeout = o.Breaker.Timeout
	return cfg
}

// AddFlags adds flags for embedding options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	o.fill()
	p := options.Join(prefixes...) + "embedding."
	fs.StringVar(&o.Provider, p+"provider", o.Provider, "Embedding provider (ollama, openai).")
	fs.StringVar(&o.BaseURL, p+"base-url", o.BaseURL, "Embedding API base URL.")
	fs.StringVar(&o.APIKey, p+"api-key", o.APIKey, "Embedding API key (prefer the EMBEDDING_API_KEY env var).")
	fs.StringVar(&o.Model, p+"model", o.Model, "Embedding model name.")
	fs.StringVar(&o.Organization, p+"organization", o.Organization, "Organization ID (openai, optional).")
	fs.DurationVar(&o.Timeout, p+"timeout", o.Timeout, "Embedding request timeout.")
	fs.IntVar(&o.MaxRetries, p+"max-retries", o.MaxRetries, "Provider-level retries per request.")
	fs.IntVar(&o.Dimension, p+"dimension", o.Dimension, "Embedding dimension; must match the vector index.")
	fs.IntVar(&o.BatchSize, p+"batch-size", o.BatchSize, "Maximum texts per embedding request.")
	fs.IntVar(&o.Workers, p+"workers", o.Workers, "Concurrent embedding requests during ingestion.")
	fs.IntVar(&o.Retry.MaxAttempts, p+"retry.max-attempts", o.Retry.MaxAttempts, "Attempts per embedding call, including the first.")
	fs.DurationVar(&o.Retry.InitialDelay, p+"retry.initial-delay", o.Retry.InitialDelay, "Initial retry backoff.")
	fs.DurationVar(&o.Retry.MaxDelay, p+"retry.max-delay", o.Retry.MaxDelay, "Maximum retry backoff.")
	fs.BoolVar(&o.Breaker.Enabled, p+"breaker.enabled", o.Breaker.Enabled, "Enable the embedding circuit breaker.")
	fs.IntVar(&o.Breaker.MaxFailures, p+"breaker.max-failures", o.Breaker.MaxFailures, "Consecutive failures that open the breaker.")
	fs.DurationVar(&o.Breaker.Timeout, p+"breaker.timeout", o.Breaker.Timeout, "Open-state duration before a trial call.")
}

// Validate validates the embedding options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	switch o.Provider {
	case ProviderOllama, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("embedding.provider must be one of ollama, openai, got %q", o.Provider))
	}
	if o.BaseURL == "" {
		errs = append(errs, fmt.Errorf("embedding.base-url is required"))
	}
	if o.Model == "" {
		errs = append(errs, fmt.Errorf("embedding.model is required"))
	}
	if o.Provider == ProviderOpenAI && o.APIKey == "" {
		errs = append(errs, fmt.Errorf("embedding.api-key is required for openai provider"))
	}
	if o.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("embedding.timeout must be positive"))
	}
	if o.Dimension <= 0 {
		errs = append(errs, fmt.Errorf("embedding.dimension must be positive"))
	}
	if o.BatchSize <= 0 || o.Workers <= 0 {
		errs = append(errs, fmt.Errorf("embedding.batch-size and embedding.workers must be positive"))
	}
	if o.Retry != nil && o.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("embedding.retry.max-attempts must be at least 1"))
	}
	if o.Breaker != nil && o.Breaker.Enabled && (o.Breaker.MaxFailures < 1 || o.Breaker.Timeout <= 0) {
		errs = append(errs, fmt.Errorf("embedding.breaker needs max-failures >= 1 and a positive timeout"))
	}
	return errs
}

// Complete reads the API key from EMBEDDING_API_KEY and fills nil groups.
func (o *Options) Complete() error {
	o.fill()
	if o.APIKey == "" {
		o.APIKey = os.Getenv("EMBEDDING_API_KEY")
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	return nil
}

func (o *Options) fill() {
	def := NewOptions()
	if o.Retry == nil {
		o.Retry = def.Retry
	}
	if o.Breaker == nil {
		o.Breaker = def.Breaker
	}
}
