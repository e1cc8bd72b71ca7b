package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "docsearch.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestGormChunkStore(t *testing.T) {
	ctx := context.Background()
	chunks, err := NewGormChunkStore(ctx, setupTestDB(t))
	require.NoError(t, err)

	err = chunks.PutAll(ctx, map[string]ChunkRecord{
		"a.txt_0": {Text: "alpha", Filename: "a.txt", ChunkID: 0, TotalChunks: 2, Start: 0, End: 5},
		"a.txt_1": {Text: "beta", Filename: "a.txt", ChunkID: 1, TotalChunks: 2, Start: 4, End: 9},
	})
	require.NoError(t, err)

	rec, ok, err := chunks.Get(ctx, "a.txt_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ChunkRecord{Text: "beta", Filename: "a.txt", ChunkID: 1, TotalChunks: 2, Start: 4, End: 9}, rec)

	_, ok, err = chunks.Get(ctx, "missing_0")
	require.NoError(t, err)
	assert.False(t, ok)

	// 同 ID 再次写入覆盖原值
	require.NoError(t, chunks.Put(ctx, "a.txt_0", ChunkRecord{Text: "alpha v2", Filename: "a.txt", TotalChunks: 2}))
	rec, _, err = chunks.Get(ctx, "a.txt_0")
	require.NoError(t, err)
	assert.Equal(t, "alpha v2", rec.Text)

	all, err := chunks.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGormDocumentRegistry(t *testing.T) {
	ctx := context.Background()
	reg, err := NewGormDocumentRegistry(ctx, setupTestDB(t))
	require.NoError(t, err)

	require.NoError(t, reg.Put(ctx, "a.txt", DocumentRecord{Path: "uploads/a.txt", Chunks: 3}))
	require.NoError(t, reg.Put(ctx, "a.txt", DocumentRecord{Path: "uploads/a.txt", Chunks: 1}))
	require.NoError(t, reg.Put(ctx, "b.pdf", DocumentRecord{Path: "uploads/b.pdf", Chunks: 7}))

	all, err := reg.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]DocumentRecord{
		"a.txt": {Path: "uploads/a.txt", Chunks: 1},
		"b.pdf": {Path: "uploads/b.pdf", Chunks: 7},
	}, all)
}
