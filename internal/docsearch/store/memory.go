package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryIndex 进程内向量索引，按暴力检索实现，用于测试和单机试用。
type MemoryIndex struct {
	mu      sync.RWMutex
	indexes map[string]*memoryIndex
}

type memoryIndex struct {
	dim     int
	metric  Metric
	ids     []string
	vectors map[string][]float32
}

var _ VectorIndex = (*MemoryIndex)(nil)

// NewMemoryIndex 创建空的内存索引。
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{indexes: make(map[string]*memoryIndex)}
}

// CreateIndex implements VectorIndex. 已存在时不做修改。
func (m *MemoryIndex) CreateIndex(_ context.Context, name string, dim int, metric Metric) error {
	if dim <= 0 {
		return fmt.Errorf("invalid dimension %d", dim)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.indexes[name]; !ok {
		m.indexes[name] = &memoryIndex{dim: dim, metric: metric, vectors: make(map[string][]float32)}
	}
	return nil
}

// IndexExists implements VectorIndex.
func (m *MemoryIndex) IndexExists(_ context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.indexes[name]
	return ok, nil
}

// Insert implements VectorIndex. 相同 ID 覆盖旧向量。
func (m *MemoryIndex) Insert(_ context.Context, name string, records []VectorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, ok := m.indexes[name]
	if !ok {
		return fmt.Errorf("index %s not found", name)
	}
	for _, r := range records {
		if err := r.Validate(idx.dim); err != nil {
			return err
		}
	}
	for _, r := range records {
		if _, exists := idx.vectors[r.ID]; !exists {
			idx.ids = append(idx.ids, r.ID)
		}
		idx.vectors[r.ID] = append([]float32(nil), r.Vector...)
	}
	return nil
}

// Search implements VectorIndex，按相似度降序返回 pair 形式命中，k<=0 时返回空结果。
func (m *MemoryIndex) Search(_ context.Context, name string, vector []float32, k int) ([]RawHit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.indexes[name]
	if !ok {
		return nil, fmt.Errorf("index %s not found", name)
	}
	if len(vector) != idx.dim {
		return nil, fmt.Errorf("query dimension %d, want %d", len(vector), idx.dim)
	}

	type scored struct {
		id    string
		score float64
	}
	all := make([]scored, 0, len(idx.ids))
	for _, id := range idx.ids {
		all = append(all, scored{id: id, score: similarity(idx.metric, vector, idx.vectors[id])})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	k = min(max(k, 0), len(all))
	hits := make([]RawHit, 0, k)
	for _, s := range all[:k] {
		hits = append(hits, NewPairHit(s.score, s.id))
	}
	return hits, nil
}

// Close implements VectorIndex.
func (m *MemoryIndex) Close(_ context.Context) error {
	return nil
}

// similarity 返回越大越相似的分数，l2 取负距离。
func similarity(metric Metric, a, b []float32) float64 {
	var dot, na, nb, l2 float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
		l2 += (x - y) * (x - y)
	}
	switch metric {
	case MetricIP:
		return dot
	case MetricL2:
		return -math.Sqrt(l2)
	default:
		if na == 0 || nb == 0 {
			return 0
		}
		return dot / (math.Sqrt(na) * math.Sqrt(nb))
	}
}
