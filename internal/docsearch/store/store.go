// Package store 定义 docsearch 的存储层接口与实现。
//
// 向量索引只保存 (id, vector)，分块文本只保存在 ChunkStore 中，
// 两者通过 "<filename>_<index>" 形式的 ID 保持一致。
package store

import (
	"context"
	"fmt"
	"strings"
)

// Metric 向量索引使用的相似度度量。
type Metric string

const (
	// MetricCosine 余弦相似度（默认）。
	MetricCosine Metric = "cosine"
	// MetricL2 欧氏距离。
	MetricL2 Metric = "l2"
	// MetricIP 内积。
	MetricIP Metric = "ip"
)

// VectorRecord 写入向量索引的记录。
type VectorRecord struct {
	ID     string
	Vector []float32
}

// Validate 检查向量维度是否与索引一致。
func (r VectorRecord) Validate(dim int) error {
	if r.ID == "" {
		return fmt.Errorf("vector record has empty id")
	}
	if len(r.Vector) != dim {
		return fmt.Errorf("vector record %s has dimension %d, want %d", r.ID, len(r.Vector), dim)
	}
	return nil
}

// VectorIndex 远程向量索引能力。
type VectorIndex interface {
	// CreateIndex 创建指定维度与度量的索引。
	CreateIndex(ctx context.Context, name string, dim int, metric Metric) error

	// IndexExists 判断索引是否存在。
	IndexExists(ctx context.Context, name string) (bool, error)

	// Insert 批量写入向量。
	Insert(ctx context.Context, name string, records []VectorRecord) error

	// Search 最近邻检索，返回未经归一化的原始命中。
	Search(ctx context.Context, name string, vector []float32, k int) ([]RawHit, error)

	// Close 释放连接。
	Close(ctx context.Context) error
}

// ChunkRecord ChunkStore 中的一条分块记录。
type ChunkRecord struct {
	Text        string `json:"text"`
	Filename    string `json:"filename"`
	ChunkID     int    `json:"chunk_id"`
	TotalChunks int    `json:"total_chunks"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// DocumentRecord 文档注册表中的一条记录。
type DocumentRecord struct {
	Path   string `json:"path"`
	Chunks int    `json:"chunks"`
}

// KV 持久化键值存储。
//
// 写操作由实现保证互斥（单写者），读操作可以并发。
type KV[V any] interface {
	// Get 读取单个键，ok 为 false 表示不存在。
	Get(ctx context.Context, key string) (value V, ok bool, err error)

	// Put 写入单个键。
	Put(ctx context.Context, key string, value V) error

	// PutAll 在一次写入中保存多个键。
	PutAll(ctx context.Context, entries map[string]V) error

	// All 返回全部键值的快照。
	All(ctx context.Context) (map[string]V, error)

	// Close 释放资源。
	Close(ctx context.Context) error
}

// ChunkStore 分块存储：vector id -> 分块文本与来源。
type ChunkStore = KV[ChunkRecord]

// DocumentRegistry 文档注册表：filename -> 索引元数据。
type DocumentRegistry = KV[DocumentRecord]

// ChunkID 生成分块的外部 ID。
func ChunkID(filename string, index int) string {
	return fmt.Sprintf("%s_%d", filename, index)
}

// ParseMetric 解析度量名称，未知名称返回错误。
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case MetricCosine, MetricL2, MetricIP:
		return m, nil
	case "":
		return MetricCosine, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}
