package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// mongoEntry 为集合中的文档结构，_id 即存储键。
type mongoEntry[V any] struct {
	Key   string `bson:"_id"`
	Value V      `bson:"value"`
}

// MongoKV 基于 MongoDB 集合的键值存储。
type MongoKV[V any] struct {
	coll *mongo.Collection
}

var (
	_ ChunkStore       = (*MongoKV[ChunkRecord])(nil)
	_ DocumentRegistry = (*MongoKV[DocumentRecord])(nil)
)

// NewMongoKV 创建基于集合 coll 的存储。
func NewMongoKV[V any](coll *mongo.Collection) *MongoKV[V] {
	return &MongoKV[V]{coll: coll}
}

// Get 读取单个键。
func (s *MongoKV[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var (
		entry mongoEntry[V]
		zero  V
	)
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return entry.Value, true, nil
}

// Put 写入单个键，已存在则替换。
func (s *MongoKV[V]) Put(ctx context.Context, key string, value V) error {
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoEntry[V]{Key: key, Value: value},
		mongoopts.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// PutAll 以一次有序 BulkWrite upsert 多个键。
func (s *MongoKV[V]) PutAll(ctx context.Context, entries map[string]V) error {
	if len(entries) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(entries))
	for k, v := range entries {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": k}).
			SetReplacement(mongoEntry[V]{Key: k, Value: v}).
			SetUpsert(true))
	}

	if _, err := s.coll.BulkWrite(ctx, models, mongoopts.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("failed to upsert %d entries: %w", len(entries), err)
	}
	return nil
}

// All 返回集合中的全部数据。
func (s *MongoKV[V]) All(ctx context.Context) (map[string]V, error) {
	cur, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var entries []mongoEntry[V]
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}

	out := make(map[string]V, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

// Close implements KV. 连接由 mongodb.Client 管理。
func (s *MongoKV[V]) Close(_ context.Context) error {
	return nil
}
