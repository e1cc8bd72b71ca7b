package biz

import (
	"context"

	"github.com/kart-io/logger"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
	"github.com/Shreeshail-sp/docsearch/internal/model"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

// RetrieverConfig 检索器配置。
type RetrieverConfig struct {
	// IndexName 向量索引名称。
	IndexName string
	// TopK 默认返回数量。
	TopK int
	// Distance 只有 distance 字段的命中如何换算为分数，nil 表示原样使用。
	Distance store.DistanceFunc
}

// Retriever 负责检索。
//
// 结果保持向量索引返回的顺序，不重新排序；分块存储中不存在的 id 被丢弃。
type Retriever struct {
	embedder *Embedder
	index    store.VectorIndex
	chunks   store.ChunkStore
	config   *RetrieverConfig
}

// NewRetriever 创建检索器实例。
func NewRetriever(embedder *Embedder, index store.VectorIndex, chunks store.ChunkStore, config *RetrieverConfig) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		chunks:   chunks,
		config:   config,
	}
}

// Retrieve 检索与查询最相关的分块，topK<=0 时使用默认值。
// 向量索引失败或没有可用命中时返回空结果而不是错误。
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]model.SearchResult, error) {
	if topK <= 0 {
		topK = r.config.TopK
	}

	// 1. 向量化查询
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	// 2. 最近邻检索
	raw, err := r.index.Search(ctx, r.config.IndexName, vector, topK)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		logger.Warnw("vector search failed, returning no results",
			"index", r.config.IndexName,
			"error", err.Error(),
		)
		return []model.SearchResult{}, nil
	}

	// 3. 归一化并用分块存储补全
	hits := store.NormalizeHits(raw, r.config.Distance)
	results := make([]model.SearchResult, 0, min(len(hits), topK))
	for _, hit := range hits {
		if len(results) == topK {
			break
		}
		chunk, ok, err := r.chunks.Get(ctx, hit.ID)
		if err != nil {
			return nil, errors.ErrStoreIO.WithCause(err)
		}
		if !ok || chunk.Text == "" {
			logger.Debugw("dropping hit unknown to chunk store", "id", hit.ID)
			continue
		}
		results = append(results, model.SearchResult{
			Rank:     len(results) + 1,
			Text:     chunk.Text,
			Filename: chunk.Filename,
			ChunkID:  chunk.ChunkID,
			Score:    hit.Score,
		})
	}
	return results, nil
}
