package biz

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/extract"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/metrics"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

const serviceDim = 64

const (
	solarText  = "Solar panels convert sunlight into electricity. They are installed on roofs."
	gardenText = "Tomatoes grow best in warm weather with daily watering."
)

type serviceFixture struct {
	svc       *Service
	index     *store.MemoryIndex
	stores    testStores
	provider  *bagOfWordsProvider
	uploadDir string
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	extractor, err := extract.NewRegistry()
	require.NoError(t, err)

	f := &serviceFixture{
		index:     store.NewMemoryIndex(),
		stores:    newTestStores(t),
		provider:  &bagOfWordsProvider{dim: serviceDim},
		uploadDir: filepath.Join(t.TempDir(), "uploads"),
	}
	f.svc = NewService(&Dependencies{
		Index:     f.index,
		Chunks:    f.stores.chunks,
		Registry:  f.stores.registry,
		Embedder:  NewEmbedder(f.provider, nil, &EmbedderConfig{Dimension: serviceDim}),
		Chunker:   mustChunker(t, 500, 50),
		Extractor: extractor,
		Metrics:   metrics.New(),
	}, &ServiceConfig{
		UploadDir:  f.uploadDir,
		IndexName:  "documents",
		Dimension:  serviceDim,
		Metric:     store.MetricCosine,
		SearchTopK: 5,
		AnswerTopK: 3,
	})
	require.NoError(t, f.svc.EnsureIndex(context.Background()))
	return f
}

func (f *serviceFixture) upload(t *testing.T, name, content string) {
	t.Helper()
	_, err := f.svc.Upload(context.Background(), name, strings.NewReader(content))
	require.NoError(t, err)
}

func TestService_EnsureIndexIdempotent(t *testing.T) {
	f := newServiceFixture(t)
	require.NoError(t, f.svc.EnsureIndex(context.Background()))

	exists, err := f.index.IndexExists(context.Background(), "documents")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestService_EnsureIndexCreatesMissing(t *testing.T) {
	idx := &mockIndex{}
	svc := NewService(&Dependencies{Index: idx}, &ServiceConfig{IndexName: "documents", Dimension: 384, Metric: store.MetricCosine})

	require.NoError(t, svc.EnsureIndex(context.Background()))
	require.NoError(t, svc.EnsureIndex(context.Background()))
	assert.Equal(t, []string{"documents"}, idx.created)
}

func TestService_Upload(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.Upload(context.Background(), "solar.txt", strings.NewReader(solarText))
	require.NoError(t, err)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "solar.txt", result.Filename)
	assert.Equal(t, 1, result.ChunksIndexed)
	assert.Equal(t, VectorIndexed, result.VectorIndex)

	saved, err := os.ReadFile(filepath.Join(f.uploadDir, "solar.txt"))
	require.NoError(t, err)
	assert.Equal(t, solarText, string(saved))

	doc, err := f.svc.Document(context.Background(), "solar.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.uploadDir, "solar.txt"), doc.Path)
	assert.Equal(t, 1, doc.Chunks)
}

func TestService_UploadStripsDirectories(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.Upload(context.Background(), "../../nested/notes.txt", strings.NewReader(gardenText))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", result.Filename)
	assert.FileExists(t, filepath.Join(f.uploadDir, "notes.txt"))
}

func TestService_UploadRejected(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		wantErr  error
	}{
		{"不支持的扩展名", "data.csv", "a,b,c", errors.ErrUnsupportedFormat},
		{"没有扩展名", "README", "text", errors.ErrUnsupportedFormat},
		{"空文件名", "", "text", errors.ErrUnsupportedFormat},
		{"空文本", "blank.txt", "  \n ", errors.ErrNoContentExtracted},
		{"损坏的 docx", "broken.docx", "not a zip", errors.ErrExtractText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)

			_, err := f.svc.Upload(context.Background(), tt.filename, strings.NewReader(tt.content))
			assert.ErrorIs(t, err, tt.wantErr)

			docs, err := f.svc.Documents(context.Background())
			require.NoError(t, err)
			assert.Empty(t, docs)
			assert.Zero(t, f.stores.chunks.Len())
			assert.EqualValues(t, 1, f.svc.Metrics().Snapshot().UploadFailures)
		})
	}
}

func TestService_SearchAndAnswer(t *testing.T) {
	f := newServiceFixture(t)
	f.upload(t, "solar.txt", solarText)
	f.upload(t, "garden.txt", gardenText)
	ctx := context.Background()

	resp, err := f.svc.Search(ctx, "solar panels sunlight", 0)
	require.NoError(t, err)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "solar panels sunlight", resp.Query)
	assert.Equal(t, "solar.txt", resp.Results[0].Filename)
	assert.Equal(t, 1, resp.Results[0].Rank)
	assert.Equal(t, 2, resp.Results[1].Rank)
	assert.GreaterOrEqual(t, resp.Results[0].Score, resp.Results[1].Score)

	resp, err = f.svc.Search(ctx, "How do tomatoes grow?", 1)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "garden.txt", resp.Results[0].Filename)

	answer, err := f.svc.Answer(ctx, "What do solar panels convert sunlight into?", 0)
	require.NoError(t, err)
	assert.Equal(t, solarText, answer.Answer)
	assert.Greater(t, answer.Confidence, 0.5)
	require.Len(t, answer.Sources, 2)
	assert.Equal(t, "solar.txt", answer.Sources[0].Filename)
	assert.Equal(t, answer.Confidence, answer.Chunks[0].Score)
	assert.Len(t, answer.Chunks, 2)

	snap := f.svc.Metrics().Snapshot()
	assert.EqualValues(t, 2, snap.Uploads)
	assert.EqualValues(t, 2, snap.ChunksIndexed)
	assert.EqualValues(t, 2, snap.Searches)
	assert.EqualValues(t, 1, snap.Answers)
}

func TestService_EmptyIndex(t *testing.T) {
	f := newServiceFixture(t)

	resp, err := f.svc.Search(context.Background(), "anything at all", 5)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Count)
	assert.NotNil(t, resp.Results)
	assert.Empty(t, resp.Results)

	answer, err := f.svc.Answer(context.Background(), "anything at all", 3)
	require.NoError(t, err)
	assert.Equal(t, NoAnswerMessage, answer.Answer)
	assert.Equal(t, 0.0, answer.Confidence)
	assert.Empty(t, answer.Sources)

	assert.EqualValues(t, 2, f.svc.Metrics().Snapshot().EmptyRetrievals)
}

func TestService_EmptyQuery(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Search(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, errors.ErrEmptyQuery)
	_, err = f.svc.Answer(context.Background(), "", 3)
	assert.ErrorIs(t, err, errors.ErrEmptyQuery)
}

func TestService_DocumentNotFound(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Document(context.Background(), "missing.pdf")
	assert.ErrorIs(t, err, errors.ErrDocumentNotFound)
}

func TestService_Documents(t *testing.T) {
	f := newServiceFixture(t)
	f.upload(t, "solar.txt", solarText)
	f.upload(t, "garden.txt", gardenText)

	docs, err := f.svc.Documents(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, 1, docs["garden.txt"].Chunks)
}

func TestService_Health(t *testing.T) {
	f := newServiceFixture(t)

	report := f.svc.Health(context.Background())
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, map[string]string{"vector_index": "ok", "embedding": "ok"}, report.Checks)

	f.provider.err = errBoom
	report = f.svc.Health(context.Background())
	assert.Equal(t, "degraded", report.Status)
	assert.Equal(t, "boom", report.Checks["embedding"])
}

func TestService_Stats(t *testing.T) {
	f := newServiceFixture(t)
	f.upload(t, "solar.txt", solarText)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats["documents"])
	assert.Equal(t, 1, stats["chunks"])
	assert.Equal(t, "documents", stats["index"])
	assert.Equal(t, "bow", stats["embed_provider"])
	assert.Equal(t, map[string]any{"enabled": false}, stats["cache"])
}
