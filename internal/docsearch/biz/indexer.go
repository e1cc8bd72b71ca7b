package biz

import (
	"context"
	"strings"

	"github.com/kart-io/logger"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
	"github.com/Shreeshail-sp/docsearch/internal/model"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

const (
	// VectorIndexed 向量已写入索引。
	VectorIndexed = "indexed"
	// VectorPending 向量写入失败，仅分块存储中有数据。
	VectorPending = "pending"
)

// IndexerConfig 索引器配置。
type IndexerConfig struct {
	// IndexName 向量索引名称。
	IndexName string
}

// Indexer 负责单个文档的索引。
//
// 写入顺序：分块存储 -> 向量索引 -> 文档注册表。
// 向量写入失败只记录日志，不回滚已写入的分块。
type Indexer struct {
	chunker  *Chunker
	embedder *Embedder
	index    store.VectorIndex
	chunks   store.ChunkStore
	registry store.DocumentRegistry
	config   *IndexerConfig
}

// NewIndexer 创建索引器实例。
func NewIndexer(
	chunker *Chunker,
	embedder *Embedder,
	index store.VectorIndex,
	chunks store.ChunkStore,
	registry store.DocumentRegistry,
	config *IndexerConfig,
) *Indexer {
	return &Indexer{
		chunker:  chunker,
		embedder: embedder,
		index:    index,
		chunks:   chunks,
		registry: registry,
		config:   config,
	}
}

// Ingest 索引一个文档的文本，path 记录在注册表中。
func (i *Indexer) Ingest(ctx context.Context, filename, path, text string) (*model.IndexResult, error) {
	// 1. 空文本直接拒绝，不写任何存储
	if strings.TrimSpace(text) == "" {
		return nil, errors.ErrNoContentExtracted
	}

	// 2. 分块
	chunks := i.chunker.Split(text)
	texts := make([]string, len(chunks))
	for idx, c := range chunks {
		texts[idx] = c.Text
	}

	// 3. 一次批量向量化
	vectors, err := i.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, err
	}

	// 4. 先写分块存储
	entries := make(map[string]store.ChunkRecord, len(chunks))
	records := make([]store.VectorRecord, len(chunks))
	for idx, c := range chunks {
		id := store.ChunkID(filename, idx)
		entries[id] = store.ChunkRecord{
			Text:        c.Text,
			Filename:    filename,
			ChunkID:     idx,
			TotalChunks: len(chunks),
			Start:       c.Start,
			End:         c.End,
		}
		records[idx] = store.VectorRecord{ID: id, Vector: vectors[idx]}
	}
	if err := i.chunks.PutAll(ctx, entries); err != nil {
		return nil, errors.ErrStoreIO.WithCause(err)
	}

	// 5. 写向量索引，失败不回滚
	result := &model.IndexResult{
		Status:        "success",
		Filename:      filename,
		ChunksIndexed: len(chunks),
		VectorIndex:   VectorIndexed,
	}
	if err := i.index.Insert(ctx, i.config.IndexName, records); err != nil {
		logger.Warnw("vector insert failed, chunks stored locally",
			"filename", filename,
			"chunks", len(chunks),
			"error", err.Error(),
		)
		result.VectorIndex = VectorPending
	}

	// 6. 覆盖注册表条目
	if err := i.registry.Put(ctx, filename, store.DocumentRecord{Path: path, Chunks: len(chunks)}); err != nil {
		return nil, errors.ErrStoreIO.WithCause(err)
	}

	logger.Infow("document indexed",
		"filename", filename,
		"chunks", len(chunks),
		"vector_index", result.VectorIndex,
	)
	return result, nil
}
