package biz

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kart-io/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Shreeshail-sp/docsearch/internal/docsearch/extract"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/metrics"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/store"
	"github.com/Shreeshail-sp/docsearch/internal/model"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/errors"
)

const tracerName = "github.com/Shreeshail-sp/docsearch/internal/docsearch/biz"

const (
	cacheKindSearch = "search"
	cacheKindAnswer = "answer"
)

// ServiceConfig docsearch 服务配置。
type ServiceConfig struct {
	// UploadDir 上传文件保存目录。
	UploadDir string
	// IndexName 向量索引名称。
	IndexName string
	// Dimension 向量维度。
	Dimension int
	// Metric 索引度量。
	Metric store.Metric
	// SearchTopK 检索默认返回数量。
	SearchTopK int
	// AnswerTopK 问答默认检索数量。
	AnswerTopK int
}

// Dependencies 服务依赖的存储与外部能力。
type Dependencies struct {
	Index     store.VectorIndex
	Chunks    store.ChunkStore
	Registry  store.DocumentRegistry
	Embedder  *Embedder
	Chunker   *Chunker
	Extractor *extract.Registry
	Cache     *QueryCache
	Metrics   *metrics.Metrics
	// Distance 只有 distance 字段的命中如何换算为分数。
	Distance store.DistanceFunc
}

// 健康状态。
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// HealthReport 健康检查结果。
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Service 组合 Indexer、Retriever 与 Synthesizer 提供上传、检索与问答。
type Service struct {
	indexer   *Indexer
	retriever *Retriever
	deps      *Dependencies
	config    *ServiceConfig
	tracer    trace.Tracer
}

// NewService 创建服务实例。
func NewService(deps *Dependencies, config *ServiceConfig) *Service {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	return &Service{
		indexer: NewIndexer(deps.Chunker, deps.Embedder, deps.Index, deps.Chunks, deps.Registry, &IndexerConfig{
			IndexName: config.IndexName,
		}),
		retriever: NewRetriever(deps.Embedder, deps.Index, deps.Chunks, &RetrieverConfig{
			IndexName: config.IndexName,
			TopK:      config.SearchTopK,
			Distance:  deps.Distance,
		}),
		deps:   deps,
		config: config,
		tracer: otel.Tracer(tracerName),
	}
}

// EnsureIndex 索引不存在时按配置的维度与度量创建。
func (s *Service) EnsureIndex(ctx context.Context) error {
	exists, err := s.deps.Index.IndexExists(ctx, s.config.IndexName)
	if err != nil {
		return errors.ErrVectorIndexFailure.WithCause(err)
	}
	if exists {
		logger.Infow("vector index ready", "index", s.config.IndexName)
		return nil
	}

	if err := s.deps.Index.CreateIndex(ctx, s.config.IndexName, s.config.Dimension, s.config.Metric); err != nil {
		return errors.ErrVectorIndexFailure.WithCause(err)
	}
	logger.Infow("vector index created",
		"index", s.config.IndexName,
		"dimension", s.config.Dimension,
		"metric", string(s.config.Metric),
	)
	return nil
}

// Upload 保存上传的文件，提取文本并建立索引。
func (s *Service) Upload(ctx context.Context, filename string, r io.Reader) (result *model.IndexResult, err error) {
	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(filename, "\\", "/")))
	ctx, span := s.tracer.Start(ctx, "docsearch.ingest", trace.WithAttributes(attribute.String("docsearch.filename", name)))
	start := time.Now()
	defer func() {
		chunks, pending := 0, false
		if result != nil {
			chunks, pending = result.ChunksIndexed, result.VectorIndex == VectorPending
			span.SetAttributes(attribute.Int("docsearch.chunks", chunks))
		}
		s.deps.Metrics.RecordUpload(time.Since(start), chunks, pending, err)
		endSpan(span, err)
	}()

	// 1. 校验扩展名
	if name == "/" || name == "." || !s.deps.Extractor.Supported(name) {
		return nil, errors.ErrUnsupportedFormat.WithMessagef(
			"Unsupported file format %q, supported: %s", filepath.Ext(name), strings.Join(s.deps.Extractor.Formats(), ", "))
	}

	// 2. 保存文件
	path, err := s.save(name, r)
	if err != nil {
		return nil, errors.ErrStoreIO.WithCause(err)
	}

	// 3. 提取文本
	text, err := s.deps.Extractor.Extract(ctx, path)
	if err != nil {
		if stderrors.Is(err, extract.ErrUnsupportedFormat) {
			return nil, errors.ErrUnsupportedFormat.WithCause(err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.ErrExtractText.WithCause(err)
	}

	// 4. 建立索引
	result, err = s.indexer.Ingest(ctx, name, path, text)
	if err != nil {
		return nil, err
	}

	// 5. 新文档会改变检索结果，清空查询缓存
	if n, err := s.deps.Cache.Clear(ctx); err != nil {
		logger.Warnw("failed to clear query cache", "error", err.Error())
	} else if n > 0 {
		logger.Debugw("query cache cleared", "deleted", n)
	}
	return result, nil
}

func (s *Service) save(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	path := filepath.Join(s.config.UploadDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// Search 检索与查询最相关的分块。
func (s *Service) Search(ctx context.Context, query string, topK int) (resp *model.SearchResponse, err error) {
	query = strings.TrimSpace(query)
	if topK <= 0 {
		topK = s.config.SearchTopK
	}
	ctx, span := s.tracer.Start(ctx, "docsearch.retrieve", trace.WithAttributes(attribute.Int("docsearch.top_k", topK)))
	start := time.Now()
	defer func() {
		count := 0
		if resp != nil {
			count = resp.Count
		}
		s.deps.Metrics.RecordSearch(time.Since(start), count, err)
		endSpan(span, err)
	}()

	if query == "" {
		return nil, errors.ErrEmptyQuery
	}

	var cached model.SearchResponse
	if s.cacheGet(ctx, cacheKindSearch, query, topK, &cached) {
		return &cached, nil
	}

	results, err := s.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	resp = &model.SearchResponse{Query: query, Results: results, Count: len(results)}
	if len(results) > 0 {
		s.deps.Cache.Set(ctx, cacheKindSearch, query, topK, resp)
	}
	return resp, nil
}

// Answer 检索一次，并用同一批结果生成答案与返回的分块。
func (s *Service) Answer(ctx context.Context, query string, topK int) (answer *model.AnswerResult, err error) {
	query = strings.TrimSpace(query)
	if topK <= 0 {
		topK = s.config.AnswerTopK
	}
	ctx, span := s.tracer.Start(ctx, "docsearch.answer", trace.WithAttributes(attribute.Int("docsearch.top_k", topK)))
	start := time.Now()
	defer func() {
		count := 0
		if answer != nil {
			count = len(answer.Chunks)
			span.SetAttributes(attribute.Float64("docsearch.confidence", answer.Confidence))
		}
		s.deps.Metrics.RecordAnswer(time.Since(start), count, err)
		endSpan(span, err)
	}()

	if query == "" {
		return nil, errors.ErrEmptyQuery
	}

	var cached model.AnswerResult
	if s.cacheGet(ctx, cacheKindAnswer, query, topK, &cached) {
		return &cached, nil
	}

	results, err := s.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		return nil, err
	}

	answer = Synthesize(query, results)
	answer.Chunks = results
	if len(results) > 0 {
		s.deps.Cache.Set(ctx, cacheKindAnswer, query, topK, answer)
	}
	return answer, nil
}

func (s *Service) cacheGet(ctx context.Context, kind, query string, topK int, dest any) bool {
	if !s.deps.Cache.enabled() {
		return false
	}
	hit := s.deps.Cache.Get(ctx, kind, query, topK, dest)
	s.deps.Metrics.RecordCache(hit)
	return hit
}

// Documents 返回文档注册表快照。
func (s *Service) Documents(ctx context.Context) (map[string]store.DocumentRecord, error) {
	docs, err := s.deps.Registry.All(ctx)
	if err != nil {
		return nil, errors.ErrStoreIO.WithCause(err)
	}
	return docs, nil
}

// Document 返回单个文档的注册信息。
func (s *Service) Document(ctx context.Context, filename string) (*store.DocumentRecord, error) {
	doc, ok, err := s.deps.Registry.Get(ctx, filename)
	if err != nil {
		return nil, errors.ErrStoreIO.WithCause(err)
	}
	if !ok {
		return nil, errors.ErrDocumentNotFound.WithMessagef("Document %q not found", filename)
	}
	return &doc, nil
}

// Health 探测向量索引与模型服务。
func (s *Service) Health(ctx context.Context) *HealthReport {
	report := &HealthReport{Status: StatusHealthy, Checks: map[string]string{}}

	check := func(name string, err error) {
		if err != nil {
			report.Status = StatusDegraded
			report.Checks[name] = err.Error()
			return
		}
		report.Checks[name] = "ok"
	}

	exists, err := s.deps.Index.IndexExists(ctx, s.config.IndexName)
	if err == nil && !exists {
		err = fmt.Errorf("index %q does not exist", s.config.IndexName)
	}
	check("vector_index", err)
	check("embedding", s.deps.Embedder.Ping(ctx))
	return report
}

// Stats 返回文档、分块与业务指标统计。
func (s *Service) Stats(ctx context.Context) (map[string]any, error) {
	docs, err := s.deps.Registry.All(ctx)
	if err != nil {
		return nil, errors.ErrStoreIO.WithCause(err)
	}
	chunks := 0
	for _, d := range docs {
		chunks += d.Chunks
	}

	return map[string]any{
		"index":          s.config.IndexName,
		"dimension":      s.config.Dimension,
		"metric":         string(s.config.Metric),
		"documents":      len(docs),
		"chunks":         chunks,
		"embed_provider": s.deps.Embedder.Name(),
		"formats":        s.deps.Extractor.Formats(),
		"cache":          s.deps.Cache.Stats(ctx),
		"metrics":        s.deps.Metrics.Snapshot(),
	}, nil
}

// Metrics 返回指标收集器。
func (s *Service) Metrics() *metrics.Metrics {
	return s.deps.Metrics
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
