package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shreeshail-sp/docsearch/pkg/infra/pool"
	"github.com/Shreeshail-sp/docsearch/pkg/llm"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

// EmbedderConfig 向量化配置。
type EmbedderConfig struct {
	// Dimension 向量维度，必须与索引一致。
	Dimension int
	// BatchSize 单次请求的最大文本数，<=0 表示不拆分。
	BatchSize int
}

// Embedder 在 EmbeddingProvider 之上保证输出顺序与维度。
//
// 空文本直接映射为零向量，不发送给模型。
// 多个子批次通过 worker 池并发请求，结果按输入顺序写回。
type Embedder struct {
	provider llm.EmbeddingProvider
	workers  *pool.Pool
	config   *EmbedderConfig
}

// NewEmbedder 创建向量化器，workers 为 nil 时顺序执行子批次。
func NewEmbedder(provider llm.EmbeddingProvider, workers *pool.Pool, config *EmbedderConfig) *Embedder {
	return &Embedder{provider: provider, workers: workers, config: config}
}

// Dimension 返回向量维度。
func (e *Embedder) Dimension() int {
	return e.config.Dimension
}

// Name 返回底层模型提供者名称。
func (e *Embedder) Name() string {
	return e.provider.Name()
}

// Ping 探测模型服务，提供者不支持探测时返回 nil。
func (e *Embedder) Ping(ctx context.Context) error {
	return llm.Ping(ctx, e.provider)
}

// Embed 向量化单条文本。
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch 批量向量化，返回顺序与输入一致。
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var pending []int
	for i, t := range texts {
		if strings.TrimSpace(t) == "" {
			out[i] = make([]float32, e.config.Dimension)
			continue
		}
		pending = append(pending, i)
	}
	if len(pending) == 0 {
		return out, nil
	}

	batches := splitBatches(pending, e.config.BatchSize)
	run := func(ctx context.Context, b int) error {
		idx := batches[b]
		input := make([]string, len(idx))
		for j, i := range idx {
			input[j] = texts[i]
		}

		vecs, err := e.provider.Embed(ctx, input)
		if err != nil {
			return err
		}
		if len(vecs) != len(input) {
			return fmt.Errorf("provider returned %d embeddings for %d texts", len(vecs), len(input))
		}
		for j, v := range vecs {
			if len(v) != e.config.Dimension {
				return fmt.Errorf("embedding has dimension %d, want %d", len(v), e.config.Dimension)
			}
			out[idx[j]] = v
		}
		return nil
	}

	var err error
	if e.workers == nil || len(batches) == 1 {
		for b := range batches {
			if err = run(ctx, b); err != nil {
				break
			}
		}
	} else {
		err = e.workers.Map(ctx, len(batches), run)
	}
	if err != nil {
		return nil, errors.ErrEmbeddingFailure.WithCause(err)
	}
	return out, nil
}

func splitBatches(idx []int, size int) [][]int {
	if size <= 0 || size >= len(idx) {
		return [][]int{idx}
	}
	batches := make([][]int, 0, (len(idx)+size-1)/size)
	for start := 0; start < len(idx); start += size {
		end := min(start+size, len(idx))
		batches = append(batches, idx[start:end])
	}
	return batches
}
