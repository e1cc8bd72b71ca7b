package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_PutGetAll(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chunks_store.json")

	kv, err := NewChunkFileStore(path)
	require.NoError(t, err)

	_, ok, err := kv.Get(ctx, "a.txt_0")
	require.NoError(t, err)
	assert.False(t, ok)

	err = kv.PutAll(ctx, map[string]ChunkRecord{
		"a.txt_0": {Text: "first", Filename: "a.txt", ChunkID: 0, TotalChunks: 2},
		"a.txt_1": {Text: "second", Filename: "a.txt", ChunkID: 1, TotalChunks: 2},
	})
	require.NoError(t, err)

	rec, ok, err := kv.Get(ctx, "a.txt_1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", rec.Text)

	all, err := kv.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// 返回的是副本
	delete(all, "a.txt_0")
	assert.Equal(t, 2, kv.Len())
}

func TestFileKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chunks_store.json")

	kv, err := NewChunkFileStore(path)
	require.NoError(t, err)
	require.NoError(t, kv.Put(ctx, "b.pdf_0", ChunkRecord{Text: "hello", Filename: "b.pdf"}))

	reopened, err := NewChunkFileStore(path)
	require.NoError(t, err)
	rec, ok, err := reopened.Get(ctx, "b.pdf_0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "hello", rec.Text)
}

func TestFileKV_RegistryEnvelope(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "document_metadata.json")

	reg, err := NewDocumentFileRegistry(path)
	require.NoError(t, err)
	require.NoError(t, reg.Put(ctx, "a.txt", DocumentRecord{Path: "uploads/a.txt", Chunks: 3}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		Documents map[string]DocumentRecord `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, DocumentRecord{Path: "uploads/a.txt", Chunks: 3}, decoded.Documents["a.txt"])

	// 覆盖而不是合并
	require.NoError(t, reg.Put(ctx, "a.txt", DocumentRecord{Path: "uploads/a.txt", Chunks: 1}))
	rec, _, err := reg.Get(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.Chunks)
}

func TestFileKV_CorruptedFileFailsLoudly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks_store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewChunkFileStore(path)
	assert.Error(t, err)
}

func TestFileKV_EmptyFileIsEmptyStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks_store.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	kv, err := NewChunkFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, 0, kv.Len())
}

func TestFileKV_ConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "chunks_store.json")

	kv, err := NewChunkFileStore(path)
	require.NoError(t, err)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := ChunkID(fmt.Sprintf("doc%d.txt", i), 0)
			assert.NoError(t, kv.Put(ctx, id, ChunkRecord{Text: id}))
		}(i)
	}
	wg.Wait()

	reopened, err := NewChunkFileStore(path)
	require.NoError(t, err)
	assert.Equal(t, writers, reopened.Len())
}
