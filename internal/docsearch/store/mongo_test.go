package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/pkg/component/mongodb"
	mongoopts "github.com/Shreeshail-sp/docsearch/pkg/options/mongodb"
)

// setupTestMongo 连接测试用 MongoDB，不可用时跳过。
func setupTestMongo(t *testing.T) *mongodb.Client {
	t.Helper()

	opts := mongoopts.NewOptions()
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		opts.URI = uri
	}
	opts.Database = fmt.Sprintf("docsearch_test_%d", time.Now().UnixNano())
	opts.ServerSelectionTimeout = time.Second
	opts.ConnectTimeout = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongodb.New(ctx, opts)
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	t.Cleanup(func() {
		ctx := context.Background()
		_ = client.Drop(ctx)
		_ = client.Close(ctx)
	})
	return client
}

func TestMongoKV(t *testing.T) {
	client := setupTestMongo(t)
	ctx := context.Background()

	chunks := NewMongoKV[ChunkRecord](client.Chunks())

	require.NoError(t, chunks.PutAll(ctx, map[string]ChunkRecord{
		"a.txt_0": {Text: "alpha", Filename: "a.txt", ChunkID: 0, TotalChunks: 2, End: 5},
		"a.txt_1": {Text: "beta", Filename: "a.txt", ChunkID: 1, TotalChunks: 2, Start: 4, End: 9},
	}))

	rec, ok, err := chunks.Get(ctx, "a.txt_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "beta", rec.Text)
	assert.Equal(t, 9, rec.End)

	_, ok, err = chunks.Get(ctx, "missing_0")
	require.NoError(t, err)
	assert.False(t, ok)

	docs := NewMongoKV[DocumentRecord](client.Documents())
	require.NoError(t, docs.Put(ctx, "a.txt", DocumentRecord{Path: "uploads/a.txt", Chunks: 2}))
	require.NoError(t, docs.Put(ctx, "a.txt", DocumentRecord{Path: "uploads/a.txt", Chunks: 1}))

	all, err := docs.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]DocumentRecord{"a.txt": {Path: "uploads/a.txt", Chunks: 1}}, all)
}
