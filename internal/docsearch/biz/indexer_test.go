package biz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

func newTestIndexer(t *testing.T, p *bagOfWordsProvider, idx store.VectorIndex, s testStores) *Indexer {
	t.Helper()
	return NewIndexer(mustChunker(t, 500, 50), newTestEmbedder(p), idx, s.chunks, s.registry, &IndexerConfig{IndexName: "documents"})
}

func TestIndexer_Ingest(t *testing.T) {
	s := newTestStores(t)
	idx := &mockIndex{}
	text := sentenceText(1200)

	result, err := newTestIndexer(t, newBagOfWordsProvider(), idx, s).Ingest(context.Background(), "guide.txt", "uploads/guide.txt", text)
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "guide.txt", result.Filename)
	assert.Equal(t, 3, result.ChunksIndexed)
	assert.Equal(t, VectorIndexed, result.VectorIndex)

	all, err := s.chunks.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Len(t, idx.inserted, 3)
	for i, rec := range idx.inserted {
		id := store.ChunkID("guide.txt", i)
		assert.Equal(t, id, rec.ID)
		assert.Len(t, rec.Vector, testDim)

		chunk, ok := all[id]
		require.True(t, ok, "missing chunk %s", id)
		assert.Equal(t, i, chunk.ChunkID)
		assert.Equal(t, 3, chunk.TotalChunks)
		assert.Equal(t, "guide.txt", chunk.Filename)
		assert.NotEmpty(t, chunk.Text)
	}
	assert.Equal(t, 1200, all["guide.txt_2"].End)

	doc, ok, err := s.registry.Get(context.Background(), "guide.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, store.DocumentRecord{Path: "uploads/guide.txt", Chunks: 3}, doc)
}

func TestIndexer_EmptyText(t *testing.T) {
	s := newTestStores(t)
	idx := &mockIndex{}
	p := newBagOfWordsProvider()

	_, err := newTestIndexer(t, p, idx, s).Ingest(context.Background(), "empty.txt", "uploads/empty.txt", " \n\t ")
	assert.ErrorIs(t, err, errors.ErrNoContentExtracted)

	assert.Zero(t, s.chunks.Len())
	assert.Zero(t, s.registry.Len())
	assert.Empty(t, idx.inserted)
	assert.Zero(t, p.callCount())
}

func TestIndexer_VectorInsertFailureKeepsChunks(t *testing.T) {
	s := newTestStores(t)
	idx := &mockIndex{insertErr: errBoom}

	result, err := newTestIndexer(t, newBagOfWordsProvider(), idx, s).Ingest(context.Background(), "a.txt", "uploads/a.txt", "Some content to index.")
	require.NoError(t, err)
	assert.Equal(t, VectorPending, result.VectorIndex)
	assert.Equal(t, 1, s.chunks.Len())
	assert.Equal(t, 1, s.registry.Len())
}

func TestIndexer_EmbeddingFailureWritesNothing(t *testing.T) {
	s := newTestStores(t)
	idx := &mockIndex{}
	p := newBagOfWordsProvider()
	p.err = errBoom

	_, err := newTestIndexer(t, p, idx, s).Ingest(context.Background(), "a.txt", "uploads/a.txt", "Some content to index.")
	assert.ErrorIs(t, err, errors.ErrEmbeddingFailure)
	assert.Zero(t, s.chunks.Len())
	assert.Zero(t, s.registry.Len())
	assert.Empty(t, idx.inserted)
}

func TestIndexer_ChunkStoreFailure(t *testing.T) {
	s := newTestStores(t)
	idx := &mockIndex{}
	indexer := NewIndexer(mustChunker(t, 500, 50), newTestEmbedder(newBagOfWordsProvider()), idx,
		failingKV[store.ChunkRecord]{}, s.registry, &IndexerConfig{IndexName: "documents"})

	_, err := indexer.Ingest(context.Background(), "a.txt", "uploads/a.txt", "Some content to index.")
	assert.ErrorIs(t, err, errors.ErrStoreIO)
	assert.Empty(t, idx.inserted)
	assert.Zero(t, s.registry.Len())
}

func TestIndexer_ReingestLeavesStaleChunks(t *testing.T) {
	s := newTestStores(t)
	idx := &mockIndex{}
	indexer := newTestIndexer(t, newBagOfWordsProvider(), idx, s)
	ctx := context.Background()

	_, err := indexer.Ingest(ctx, "a.txt", "uploads/a.txt", sentenceText(1200))
	require.NoError(t, err)
	_, err = indexer.Ingest(ctx, "a.txt", "uploads/a.txt", "A much shorter replacement document.")
	require.NoError(t, err)

	doc, _, err := s.registry.Get(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Chunks)

	first, ok, err := s.chunks.Get(ctx, "a.txt_0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A much shorter replacement document.", first.Text)

	// 旧的 a.txt_1、a.txt_2 不会被清理
	stale, ok, err := s.chunks.Get(ctx, "a.txt_2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, strings.HasSuffix(stale.Text, "."))
}
