package resilience

import (
	"context"
	"errors"
	"net"

	"github.com/Shreeshail-sp/docsearch/pkg/llm"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/httpclient"
)

// EmbeddingProvider 带重试和熔断的 Embedding Provider 包装器。
type EmbeddingProvider struct {
	provider llm.EmbeddingProvider
	retry    *RetryConfig
	cb       *CircuitBreaker
}

var _ llm.EmbeddingProvider = (*EmbeddingProvider)(nil)

// Wrap 为 provider 加上重试与熔断。
func Wrap(provider llm.EmbeddingProvider, retryConfig *RetryConfig, cbConfig *CircuitBreakerConfig) *EmbeddingProvider {
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
	}
	return &EmbeddingProvider{
		provider: provider,
		retry:    retryConfig,
		cb:       NewCircuitBreaker(cbConfig),
	}
}

// Embed 为多个文本生成向量嵌入。
func (r *EmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	var result [][]float32
	err := RetryWithCircuitBreaker(ctx, r.retry, r.cb, func() error {
		var err error
		result, err = r.provider.Embed(ctx, texts)
		return err
	})
	return result, err
}

// EmbedSingle 为单个文本生成向量嵌入。
func (r *EmbeddingProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	var result []float32
	err := RetryWithCircuitBreaker(ctx, r.retry, r.cb, func() error {
		var err error
		result, err = r.provider.EmbedSingle(ctx, text)
		return err
	})
	return result, err
}

// Name 返回供应商名称。
func (r *EmbeddingProvider) Name() string {
	return r.provider.Name() + "-resilient"
}

// Ping 透传底层 provider 的可用性探测。
func (r *EmbeddingProvider) Ping(ctx context.Context) error {
	return llm.Ping(ctx, r.provider)
}

// Stats 返回熔断器统计。
func (r *EmbeddingProvider) Stats() Stats {
	return r.cb.Stats()
}

// IsRetryableError 判断错误是否可重试：网络错误以及 408/429/5xx 状态可重试，
// 熔断与上下文错误不可重试。
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCircuitBreakerOpen) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
