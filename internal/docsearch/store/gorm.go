package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Shreeshail-sp/docsearch/internal/model"
)

const gormBatchSize = 200

// GormKV 基于关系数据库的键值存储，V 为业务值，M 为 gorm 模型。
//
// 批量写入在一个事务中完成，写操作额外由互斥锁串行化。
type GormKV[V any, M any] struct {
	db            *gorm.DB
	mu            sync.Mutex
	keyColumn     string
	updateColumns []string
	toModel       func(key string, v V) M
	fromModel     func(m M) (string, V)
}

var _ KV[DocumentRecord] = (*GormKV[DocumentRecord, model.Document])(nil)

// NewGormChunkStore 创建分块存储并迁移表结构。
func NewGormChunkStore(ctx context.Context, db *gorm.DB) (*GormKV[ChunkRecord, model.Chunk], error) {
	if err := db.WithContext(ctx).AutoMigrate(&model.Chunk{}); err != nil {
		return nil, fmt.Errorf("failed to migrate chunks table: %w", err)
	}
	return &GormKV[ChunkRecord, model.Chunk]{
		db:            db,
		keyColumn:     "id",
		updateColumns: []string{"filename", "chunk_index", "total_chunks", "content", "start_pos", "end_pos", "updated_at"},
		toModel: func(key string, v ChunkRecord) model.Chunk {
			return model.Chunk{
				ID:          key,
				Filename:    v.Filename,
				ChunkIndex:  v.ChunkID,
				TotalChunks: v.TotalChunks,
				Content:     v.Text,
				StartPos:    v.Start,
				EndPos:      v.End,
			}
		},
		fromModel: func(m model.Chunk) (string, ChunkRecord) {
			return m.ID, ChunkRecord{
				Text:        m.Content,
				Filename:    m.Filename,
				ChunkID:     m.ChunkIndex,
				TotalChunks: m.TotalChunks,
				Start:       m.StartPos,
				End:         m.EndPos,
			}
		},
	}, nil
}

// NewGormDocumentRegistry 创建文档注册表并迁移表结构。
func NewGormDocumentRegistry(ctx context.Context, db *gorm.DB) (*GormKV[DocumentRecord, model.Document], error) {
	if err := db.WithContext(ctx).AutoMigrate(&model.Document{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &GormKV[DocumentRecord, model.Document]{
		db:            db,
		keyColumn:     "filename",
		updateColumns: []string{"path", "chunks", "updated_at"},
		toModel: func(key string, v DocumentRecord) model.Document {
			return model.Document{Filename: key, Path: v.Path, Chunks: v.Chunks}
		},
		fromModel: func(m model.Document) (string, DocumentRecord) {
			return m.Filename, DocumentRecord{Path: m.Path, Chunks: m.Chunks}
		},
	}, nil
}

// Get 读取单个键。
func (s *GormKV[V, M]) Get(ctx context.Context, key string) (V, bool, error) {
	var (
		m    M
		zero V
	)
	err := s.db.WithContext(ctx).Where(s.keyColumn+" = ?", key).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	_, v := s.fromModel(m)
	return v, true, nil
}

// Put 写入单个键。
func (s *GormKV[V, M]) Put(ctx context.Context, key string, value V) error {
	return s.PutAll(ctx, map[string]V{key: value})
}

// PutAll 在一个事务中 upsert 多个键。
func (s *GormKV[V, M]) PutAll(ctx context.Context, entries map[string]V) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]M, 0, len(entries))
	for k, v := range entries {
		models = append(models, s.toModel(k, v))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: s.keyColumn}},
			DoUpdates: clause.AssignmentColumns(s.updateColumns),
		}).CreateInBatches(&models, gormBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert %d entries: %w", len(entries), err)
	}
	return nil
}

// All 返回全部数据。
func (s *GormKV[V, M]) All(ctx context.Context) (map[string]V, error) {
	var models []M
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	out := make(map[string]V, len(models))
	for _, m := range models {
		k, v := s.fromModel(m)
		out[k] = v
	}
	return out, nil
}

// Close implements KV. 连接由 database.Client 管理。
func (s *GormKV[V, M]) Close(_ context.Context) error {
	return nil
}
