package biz

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/pkg/infra/pool"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

func TestEmbedder_EmptyTextIsZeroVector(t *testing.T) {
	p := newBagOfWordsProvider()
	e := newTestEmbedder(p)

	vecs, err := e.EmbedBatch(context.Background(), []string{"hello", "", "  ", "world"})
	require.NoError(t, err)
	require.Len(t, vecs, 4)
	assert.Equal(t, make([]float32, testDim), vecs[1])
	assert.Equal(t, make([]float32, testDim), vecs[2])
	assert.Equal(t, bagOfWords("hello", testDim), vecs[0])
	assert.Equal(t, bagOfWords("world", testDim), vecs[3])
	assert.Equal(t, [][]string{{"hello", "world"}}, p.inputs)

	vec, err := e.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, vec, testDim)
	assert.Equal(t, 1, p.callCount())
}

func TestEmbedder_BatchesPreserveOrder(t *testing.T) {
	workers, err := pool.NewPool("embed-test", &pool.Config{Capacity: 3, ExpiryDuration: time.Second})
	require.NoError(t, err)
	t.Cleanup(workers.Release)

	p := newBagOfWordsProvider()
	e := NewEmbedder(p, workers, &EmbedderConfig{Dimension: testDim, BatchSize: 2})

	texts := make([]string, 7)
	for i := range texts {
		texts[i] = fmt.Sprintf("text number %d word%d", i, i)
	}

	vecs, err := e.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vecs, len(texts))
	for i, text := range texts {
		assert.Equal(t, bagOfWords(text, testDim), vecs[i], "vector %d out of order", i)
	}
	assert.Equal(t, 4, p.callCount())
}

func TestEmbedder_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *bagOfWordsProvider)
	}{
		{"提供者错误", func(p *bagOfWordsProvider) { p.err = errBoom }},
		{"维度不符", func(p *bagOfWordsProvider) {
			p.mutate = func(v [][]float32) [][]float32 {
				v[0] = v[0][:testDim-1]
				return v
			}
		}},
		{"数量不符", func(p *bagOfWordsProvider) {
			p.mutate = func(v [][]float32) [][]float32 { return v[:1] }
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newBagOfWordsProvider()
			tt.setup(p)

			_, err := newTestEmbedder(p).EmbedBatch(context.Background(), []string{"a b", "c d"})
			assert.ErrorIs(t, err, errors.ErrEmbeddingFailure)
		})
	}
}

func TestEmbedder_ErrorKeepsCause(t *testing.T) {
	p := newBagOfWordsProvider()
	p.err = context.DeadlineExceeded

	_, err := newTestEmbedder(p).Embed(context.Background(), "q")
	assert.ErrorIs(t, err, errors.ErrEmbeddingFailure)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSplitBatches(t *testing.T) {
	idx := []int{0, 1, 2, 3, 4}
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4}}, splitBatches(idx, 0))
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4}}, splitBatches(idx, 10))
	assert.Equal(t, [][]int{{0, 1}, {2, 3}, {4}}, splitBatches(idx, 2))
}
