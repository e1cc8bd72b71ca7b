package biz

import (
	"context"
	"errors"
	"hash/fnv"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
)

const testDim = 8

// bagOfWordsProvider 按词哈希到固定维度，相同词汇的文本向量相近。
type bagOfWordsProvider struct {
	mu     sync.Mutex
	dim    int
	calls  int
	inputs [][]string
	err    error
	// mutate 可在返回前篡改结果，用于构造异常输出
	mutate func([][]float32) [][]float32
}

func newBagOfWordsProvider() *bagOfWordsProvider {
	return &bagOfWordsProvider{dim: testDim}
}

func (p *bagOfWordsProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	p.calls++
	p.inputs = append(p.inputs, append([]string(nil), texts...))
	err, mutate := p.err, p.mutate
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = bagOfWords(t, p.dim)
	}
	if mutate != nil {
		out = mutate(out)
	}
	return out, nil
}

func (p *bagOfWordsProvider) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (p *bagOfWordsProvider) Name() string { return "bow" }

func (p *bagOfWordsProvider) Ping(context.Context) error { return p.err }

func (p *bagOfWordsProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func bagOfWords(text string, dim int) []float32 {
	v := make([]float32, dim)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%uint32(dim)]++
	}
	v[0] += 0.01
	return v
}

// mockIndex 记录写入并返回预设命中。
type mockIndex struct {
	mu        sync.Mutex
	exists    bool
	created   []string
	inserted  []store.VectorRecord
	insertErr error
	hits      []store.RawHit
	searchErr error
	searchK   int
}

func (m *mockIndex) CreateIndex(_ context.Context, name string, _ int, _ store.Metric) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, name)
	m.exists = true
	return nil
}

func (m *mockIndex) IndexExists(context.Context, string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists, nil
}

func (m *mockIndex) Insert(_ context.Context, _ string, records []store.VectorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, records...)
	return nil
}

func (m *mockIndex) Search(_ context.Context, _ string, _ []float32, k int) ([]store.RawHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.hits, nil
}

func (m *mockIndex) Close(context.Context) error { return nil }

var errBoom = errors.New("boom")

// failingKV 所有写操作失败的存储。
type failingKV[V any] struct {
	store.KV[V]
}

func (f failingKV[V]) Put(context.Context, string, V) error { return errBoom }

func (f failingKV[V]) PutAll(context.Context, map[string]V) error { return errBoom }

func (f failingKV[V]) Get(context.Context, string) (V, bool, error) {
	var zero V
	return zero, false, errBoom
}

type testStores struct {
	chunks   *store.FileKV[store.ChunkRecord]
	registry *store.FileKV[store.DocumentRecord]
}

func newTestStores(t *testing.T) testStores {
	t.Helper()
	dir := t.TempDir()
	chunks, err := store.NewChunkFileStore(filepath.Join(dir, "chunks_store.json"))
	require.NoError(t, err)
	registry, err := store.NewDocumentFileRegistry(filepath.Join(dir, "document_metadata.json"))
	require.NoError(t, err)
	return testStores{chunks: chunks, registry: registry}
}

func newTestEmbedder(p *bagOfWordsProvider) *Embedder {
	return NewEmbedder(p, nil, &EmbedderConfig{Dimension: testDim})
}

func mustChunker(t *testing.T, size, overlap int) *Chunker {
	t.Helper()
	c, err := NewChunker(size, overlap)
	require.NoError(t, err)
	return c
}
