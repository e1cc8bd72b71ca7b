package store

import (
	"context"
	"fmt"

	"github.com/Shreeshail-sp/docsearch/pkg/component/milvus"
)

// MilvusIndex 基于 Milvus 集合的 VectorIndex，索引名即集合名。
type MilvusIndex struct {
	client *milvus.Client
}

var _ VectorIndex = (*MilvusIndex)(nil)

// NewMilvusIndex 包装 Milvus 客户端。
func NewMilvusIndex(client *milvus.Client) *MilvusIndex {
	return &MilvusIndex{client: client}
}

// CreateIndex implements VectorIndex.
func (m *MilvusIndex) CreateIndex(ctx context.Context, name string, dim int, metric Metric) error {
	mt, err := milvus.MetricType(string(metric))
	if err != nil {
		return err
	}
	return m.client.CreateCollection(ctx, name, dim, mt)
}

// IndexExists implements VectorIndex.
func (m *MilvusIndex) IndexExists(ctx context.Context, name string) (bool, error) {
	return m.client.HasCollection(ctx, name)
}

// Insert implements VectorIndex. 使用 upsert，重复 ID 覆盖旧向量。
func (m *MilvusIndex) Insert(ctx context.Context, name string, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}
	dim := len(records[0].Vector)
	ids := make([]string, len(records))
	vectors := make([][]float32, len(records))
	for i, r := range records {
		if err := r.Validate(dim); err != nil {
			return err
		}
		ids[i] = r.ID
		vectors[i] = r.Vector
	}
	if err := m.client.Upsert(ctx, name, ids, vectors); err != nil {
		return fmt.Errorf("failed to insert %d vectors into %s: %w", len(records), name, err)
	}
	return nil
}

// Search implements VectorIndex. Milvus 返回的是相似度分数，以 score 形式上报。
func (m *MilvusIndex) Search(ctx context.Context, name string, vector []float32, k int) ([]RawHit, error) {
	results, err := m.client.Search(ctx, name, vector, k)
	if err != nil {
		return nil, err
	}
	hits := make([]RawHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, NewScoreHit(r.ID, float64(r.Score)))
	}
	return hits, nil
}

// Close implements VectorIndex.
func (m *MilvusIndex) Close(ctx context.Context) error {
	return m.client.Close(ctx)
}
